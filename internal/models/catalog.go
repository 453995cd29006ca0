package models

// Course is a program students enroll in through one of its terms.
type Course struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	AssignmentsDef []AssignmentDef `json:"assignmentsDef"`
	CallsDef       []CallDef       `json:"callsDef"`
}

// AssignmentDef is a course-level assignment every enrolled student is expected to submit.
type AssignmentDef struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"dueDate"`
}

// CallDef is a course-level call every enrolled student is expected to receive.
type CallDef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Week  int    `json:"week"`
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	out.AssignmentsDef = cloneSlice(c.AssignmentsDef)
	out.CallsDef = cloneSlice(c.CallsDef)
	return out
}

// Term is a scheduled run of a course. Dates are Jalali YYYY/MM/DD strings.
type Term struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CourseID  int    `json:"courseId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Group is a cohort of students within a term.
type Group struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	TermID int    `json:"termId"`
}

// Apollonyar is a staff member mentoring and calling students.
type Apollonyar struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	TelegramID string `json:"telegramId"`
	Phone      string `json:"phone"`
}

// Medal is a badge students can earn.
type Medal struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
