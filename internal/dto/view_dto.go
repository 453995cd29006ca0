package dto

import "github.com/noah-isme/rayan-crm-api/internal/models"

// EnrolledCourse is one enrollment of a student with resolved names.
type EnrolledCourse struct {
	CourseID   int    `json:"courseId"`
	CourseName string `json:"courseName"`
	TermID     int    `json:"termId"`
	TermName   string `json:"termName"`
}

// StudentDetail is a student joined with its primary term, course, apollonyar
// and group. AssignmentStatus is placeholder data and carries no meaning.
type StudentDetail struct {
	models.Student
	Term                 string           `json:"term"`
	TermStartDate        string           `json:"termStartDate"`
	TermEndDate          string           `json:"termEndDate"`
	Course               string           `json:"course"`
	CourseID             *int             `json:"courseId"`
	Apollonyar           string           `json:"apollonyar"`
	ApollonyarTelegramID string           `json:"apollonyarTelegramId"`
	Group                string           `json:"group"`
	EnrolledCourses      []EnrolledCourse `json:"enrolledCourses"`
	DaysSinceLastContact int              `json:"daysSinceLastContact"`
	AccountStatus        string           `json:"accountStatus"`
	AssignmentStatus     []string         `json:"assignmentStatus"`
}

// AssignmentRow is a submission record with the owning student resolved.
type AssignmentRow struct {
	models.Assignment
	StudentName string `json:"studentName"`
	Course      string `json:"course"`
}

// CallRow is a logged call with the owning student resolved.
type CallRow struct {
	models.Call
	StudentName string `json:"studentName"`
	Phone       string `json:"phone"`
	Course      string `json:"course"`
	Term        string `json:"term"`
	Apollonyar  string `json:"apollonyar"`
	Hearts      int    `json:"hearts"`
}

// InstallmentRow is an installment with the owning student resolved.
type InstallmentRow struct {
	models.Installment
	StudentName  string `json:"studentName"`
	Phone        string `json:"phone"`
	Term         string `json:"term"`
	Course       string `json:"course"`
	Apollonyar   string `json:"apollonyar"`
	CourseStatus string `json:"courseStatus"`
}

// GroupRow is a group with its term and course names.
type GroupRow struct {
	models.Group
	TermName string `json:"termName"`
	Course   string `json:"course"`
}

// CourseRow is a course with enrollment statistics.
type CourseRow struct {
	models.Course
	TotalStudents   int `json:"totalStudents"`
	Graduates       int `json:"graduates"`
	AssignmentCount int `json:"assignmentCount"`
	CallCount       int `json:"callCount"`
}

// TermRow is a term with its course name and enrollment count.
type TermRow struct {
	models.Term
	Course        string `json:"course"`
	StudentsCount int    `json:"studentsCount"`
}

// ApollonyarRow is a staff member with workload figures. AvgScore is a
// placeholder value.
type ApollonyarRow struct {
	models.Apollonyar
	StudentCount int     `json:"studentCount"`
	UrgentCalls  int     `json:"urgentCalls"`
	AvgScore     float64 `json:"avgScore"`
}

// MedalHolder is a student holding a medal. MedalAwardDate is a placeholder.
type MedalHolder struct {
	StudentDetail
	MedalAwardDate string `json:"medalAwardDate"`
}

// MedalRow is a medal with the students holding it.
type MedalRow struct {
	models.Medal
	HolderCount int           `json:"holderCount"`
	Students    []MedalHolder `json:"students"`
}

// TransactionRow is a transaction with the paying student resolved.
type TransactionRow struct {
	models.Transaction
	StudentName string `json:"studentName"`
	Phone       string `json:"phone"`
	Course      string `json:"course"`
}

// ProfileAssignment is a course assignment definition left-joined with the
// student's submission for it.
type ProfileAssignment struct {
	DefinitionID    int                        `json:"definitionId"`
	Title           string                     `json:"title"`
	DueDate         string                     `json:"dueDate"`
	SubmissionID    *int                       `json:"submissionId"`
	Status          string                     `json:"status"`
	Score           *float64                   `json:"score"`
	SubmittedAt     string                     `json:"submittedAt"`
	Submissions     []models.SubmissionAttempt `json:"submissions"`
	IsOverdue       bool                       `json:"isOverdue"`
	SubmissionCount int                        `json:"submissionCount"`
}

// ProfileCall is a course call definition left-joined with the student's
// logged call for it.
type ProfileCall struct {
	DefinitionID int    `json:"definitionId"`
	Title        string `json:"title"`
	Week         int    `json:"week"`
	CallID       *int   `json:"callId"`
	CallStatus   string `json:"callStatus"`
	Apollonyar   string `json:"apollonyar"`
	Description  string `json:"description"`
	Date         string `json:"date"`
}

// Payment is one line of a student's payment history.
type Payment struct {
	ID          int    `json:"id"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Type        string `json:"type"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Dashboard summarizes the dataset for the dashboard screen.
type Dashboard struct {
	Revision            uint64 `json:"revision"`
	TotalStudents       int    `json:"totalStudents"`
	ActiveStudents      int    `json:"activeStudents"`
	Graduates           int    `json:"graduates"`
	Courses             int    `json:"courses"`
	Terms               int    `json:"terms"`
	Apollonyars         int    `json:"apollonyars"`
	UrgentCalls         int    `json:"urgentCalls"`
	StudentsWithoutCall int    `json:"studentsWithoutCall"`
	OverdueInstallments int    `json:"overdueInstallments"`
	PaidAmount          int64  `json:"paidAmount"`
	OutstandingAmount   int64  `json:"outstandingAmount"`
	Transactions        int    `json:"transactions"`
}
