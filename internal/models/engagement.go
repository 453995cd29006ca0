package models

// CallStatusFuture marks a course call that has not been logged yet.
const CallStatusFuture = "در آینده"

// Call is a logged contact between an apollonyar and a student.
type Call struct {
	ID                int    `json:"id"`
	StudentID         int    `json:"studentId"`
	CallDefID         *int   `json:"callDefId"`
	ApollonyarID      *int   `json:"apollonyarId"`
	CallStatus        string `json:"callStatus"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	PreviousCallDate  string `json:"previousCallDate"`
	DaysToCallWindow  int    `json:"daysToCallWindow"`
	PreviousCallTopic string `json:"previousCallTopic"`
}

// Clone returns a deep copy of the call.
func (c Call) Clone() Call {
	out := c
	out.CallDefID = cloneInt(c.CallDefID)
	out.ApollonyarID = cloneInt(c.ApollonyarID)
	return out
}

// Assignment is a student's submission record for one assignment definition.
type Assignment struct {
	ID              int                 `json:"id"`
	StudentID       int                 `json:"studentId"`
	AssignmentDefID int                 `json:"assignmentDefId"`
	AssignmentTitle string              `json:"assignmentTitle"`
	Status          string              `json:"status"`
	Score           *float64            `json:"score"`
	SubmittedAt     string              `json:"submittedAt"`
	Submissions     []SubmissionAttempt `json:"submissions"`
}

// SubmissionAttempt is a single upload for an assignment.
type SubmissionAttempt struct {
	Date    string `json:"date"`
	FileURL string `json:"fileUrl"`
	Comment string `json:"comment"`
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := a
	if a.Score != nil {
		score := *a.Score
		out.Score = &score
	}
	out.Submissions = cloneSlice(a.Submissions)
	return out
}

// CallStatusToDo marks a logged call that still has to be made.
const CallStatusToDo = "برای انجام"
