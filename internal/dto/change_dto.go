package dto

import "time"

// ChangeEvent is pushed to change feed subscribers after a store mutation.
//
// Every process owns its own store. Source names the node that applied the
// mutation and Revision is that node's store revision. Remote is set on events
// relayed from another node, whose revisions are not comparable with the
// revision this node reports on /health.
type ChangeEvent struct {
	Source     string    `json:"source"`
	Remote     bool      `json:"remote"`
	Revision   uint64    `json:"revision"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityIDs  []string  `json:"entity_ids"`
	At         time.Time `json:"at"`
}

// DatasetReloadResponse reports the dataset installed by an admin reload.
type DatasetReloadResponse struct {
	Revision     uint64 `json:"revision"`
	ContentType  string `json:"content_type"`
	Students     int    `json:"students"`
	Courses      int    `json:"courses"`
	Terms        int    `json:"terms"`
	Installments int    `json:"installments"`
	Transactions int    `json:"transactions"`
}
