package dto

import "github.com/noah-isme/rayan-crm-api/internal/models"

// StudentProfileRequest carries the editable personal fields of a student.
type StudentProfileRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	BirthYear *int   `json:"birthYear" validate:"omitempty,gte=1300,lte=1500"`
	City      string `json:"city" validate:"omitempty,max=80"`
}

// Profile converts the request into the store representation.
func (r StudentProfileRequest) Profile() models.StudentProfile {
	return models.StudentProfile{
		Name:      r.Name,
		Phone:     r.Phone,
		BirthYear: r.BirthYear,
		City:      r.City,
	}
}

// NoteRequest carries free text for a student or transaction note.
type NoteRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// BulkApollonyarRequest assigns one staff member to many students. A null
// apollonyarId unassigns.
type BulkApollonyarRequest struct {
	StudentIDs   []int `json:"studentIds" validate:"required,min=1,dive,gt=0"`
	ApollonyarID *int  `json:"apollonyarId" validate:"omitempty,gt=0"`
}

// BulkGroupRequest assigns one group to many students. A null groupId
// unassigns.
type BulkGroupRequest struct {
	StudentIDs []int `json:"studentIds" validate:"required,min=1,dive,gt=0"`
	GroupID    *int  `json:"groupId" validate:"omitempty,gt=0"`
}

// EnrollmentRequest enrolls a student in a course through one of its terms.
type EnrollmentRequest struct {
	CourseID int `json:"courseId" validate:"required,gt=0"`
	TermID   int `json:"termId" validate:"required,gt=0"`
}

// InstallmentInput is one entry of an installment plan.
type InstallmentInput struct {
	ID              int     `json:"id" validate:"gte=0"`
	Amount          int64   `json:"amount" validate:"gt=0"`
	DueDate         string  `json:"dueDate" validate:"required"`
	PaymentStatus   string  `json:"paymentStatus" validate:"omitempty,max=64"`
	TransactionID   *string `json:"transactionId"`
	LastContactDate string  `json:"lastContactDate"`
}

// InstallmentsRequest replaces the unpaid installments of a student.
type InstallmentsRequest struct {
	Installments   []InstallmentInput `json:"installments" validate:"dive"`
	TotalCourseFee *int64             `json:"totalCourseFee" validate:"omitempty,gte=0"`
}

// Models converts the plan into store installments.
func (r InstallmentsRequest) Models() []models.Installment {
	out := make([]models.Installment, 0, len(r.Installments))
	for _, in := range r.Installments {
		out = append(out, models.Installment{
			ID:              in.ID,
			Amount:          in.Amount,
			DueDate:         in.DueDate,
			PaymentStatus:   in.PaymentStatus,
			TransactionID:   in.TransactionID,
			LastContactDate: in.LastContactDate,
		})
	}
	return out
}

// TransactionStatusRequest sets the status of a transaction.
type TransactionStatusRequest struct {
	Status string `json:"status" validate:"required,max=64"`
}

// MutationResult reports whether a mutation changed the store, with the
// student as it reads afterwards.
type MutationResult struct {
	Applied bool           `json:"applied"`
	Student *StudentDetail `json:"student,omitempty"`
}

// BulkAssignResult reports a bulk assignment.
type BulkAssignResult struct {
	Applied bool `json:"applied"`
	Matched int  `json:"matched"`
}

// InstallmentsResult reports an installment plan replacement.
type InstallmentsResult struct {
	Applied  bool      `json:"applied"`
	Payments []Payment `json:"payments"`
}

// TransactionResult reports a transaction mutation.
type TransactionResult struct {
	Applied     bool            `json:"applied"`
	Transaction *TransactionRow `json:"transaction,omitempty"`
}
