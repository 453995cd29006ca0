// Package store keeps the CRM dataset in memory and applies mutations to it.
//
// The store is the single source of truth. Readers take a deep-copied
// Snapshot and derive their views from it; writers go through the mutator
// methods, which locate records by linear scan and edit them in place. Every
// mutator hands back the Change it applied, so callers can attribute the exact
// revision their write produced. A mutator aimed at a record that does not
// exist changes nothing and reports false; it never returns an error.
package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/rayan-crm-api/internal/models"
)

// Change describes one applied mutation. The zero Change stands for a write
// that changed nothing.
type Change struct {
	Revision   uint64    `json:"revision"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityIDs  []string  `json:"entity_ids"`
	At         time.Time `json:"at"`
}

// Observer is notified after every applied mutation, outside the store lock.
type Observer func(Change)

// Snapshot is a read-only copy of the dataset at a given revision.
type Snapshot struct {
	models.Dataset
	Revision uint64
}

// Store owns the raw CRM collections for the lifetime of the process.
type Store struct {
	mu        sync.RWMutex
	data      models.Dataset
	revision  uint64
	observers []Observer
	now       func() time.Time
	newID     func() string
}

// New constructs a store seeded with dataset. The dataset is normalized and
// copied, so the caller keeps ownership of its argument.
func New(dataset models.Dataset) *Store {
	data := dataset.Clone()
	data.Normalize()
	return &Store{
		data:  data,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the time source used for note dates and log entries.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// WithIDGenerator overrides how note and action-log ids are generated.
func (s *Store) WithIDGenerator(newID func() string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = newID
	return s
}

// Subscribe registers an observer for applied mutations.
func (s *Store) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Snapshot returns a deep copy of the current dataset.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Dataset: s.data.Clone(), Revision: s.revision}
}

// Revision returns the number of mutations applied so far.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Replace swaps the whole dataset, e.g. after an admin reload.
func (s *Store) Replace(dataset models.Dataset) Change {
	data := dataset.Clone()
	data.Normalize()
	change, _ := s.apply("dataset.replaced", "dataset", nil, func() bool {
		s.data = data
		return true
	})
	return change
}

// apply runs fn under the write lock. When fn reports a change the revision
// is bumped and observers are notified after the lock is released. The
// returned Change carries the revision assigned while the lock was held.
func (s *Store) apply(action, entityType string, entityIDs []string, fn func() bool) (Change, bool) {
	return s.applyWithIDs(action, entityType, func() ([]string, bool) {
		return entityIDs, fn()
	})
}

// applyWithIDs is apply for mutations that only learn the affected ids while
// running, such as record creation.
func (s *Store) applyWithIDs(action, entityType string, fn func() ([]string, bool)) (Change, bool) {
	s.mu.Lock()
	entityIDs, changed := fn()
	if !changed {
		s.mu.Unlock()
		return Change{}, false
	}
	s.revision++
	change := Change{
		Revision:   s.revision,
		Action:     action,
		EntityType: entityType,
		EntityIDs:  entityIDs,
		At:         s.now().UTC(),
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(change)
	}
	return change, true
}

func (s *Store) studentIndex(id int) int {
	for i := range s.data.Students {
		if s.data.Students[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) transactionIndex(id string) int {
	for i := range s.data.Transactions {
		if s.data.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func itoa(id int) string {
	return strconv.Itoa(id)
}

func itoas(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = itoa(id)
	}
	return out
}
