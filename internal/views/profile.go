package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/pkg/jalali"
)

// AssignmentsForProfile left-joins the assignment definitions of a course with
// the student's submissions. A definition without a submission is overdue
// once today is past its due date. Unknown student or course ids yield an
// empty list.
func (v *Views) AssignmentsForProfile(snap store.Snapshot, studentID, courseID int) []dto.ProfileAssignment {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.ProfileAssignment, 0)
	course, ok := ix.Course(courseID)
	if !ok {
		return out
	}
	if _, ok := ix.Student(studentID); !ok {
		return out
	}

	submissions := make(map[int]models.Assignment)
	for _, a := range snap.Assignments {
		if a.StudentID != studentID {
			continue
		}
		if _, seen := submissions[a.AssignmentDefID]; !seen {
			submissions[a.AssignmentDefID] = a
		}
	}

	now := v.now()
	for _, def := range course.AssignmentsDef {
		row := dto.ProfileAssignment{
			DefinitionID: def.ID,
			Title:        def.Title,
			DueDate:      def.DueDate,
			Submissions:  []models.SubmissionAttempt{},
		}
		if submission, ok := submissions[def.ID]; ok {
			submission = submission.Clone()
			id := submission.ID
			row.SubmissionID = &id
			row.Status = submission.Status
			row.Score = submission.Score
			row.SubmittedAt = submission.SubmittedAt
			row.Submissions = submission.Submissions
			row.SubmissionCount = len(submission.Submissions)
			if submission.AssignmentTitle != "" {
				row.Title = submission.AssignmentTitle
			}
		} else {
			row.IsOverdue = v.pastDue(def.DueDate, now)
		}
		out = append(out, row)
	}
	return out
}

func (v *Views) pastDue(dueDate string, now time.Time) bool {
	due, err := jalali.ParseTime(dueDate, v.loc)
	if err != nil {
		return false
	}
	return now.After(due)
}

// CallsForProfile left-joins the call definitions of a course with the
// student's logged calls. Calls not logged yet are reported as future calls.
func (v *Views) CallsForProfile(snap store.Snapshot, studentID, courseID int) []dto.ProfileCall {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.ProfileCall, 0)
	course, ok := ix.Course(courseID)
	if !ok {
		return out
	}
	if _, ok := ix.Student(studentID); !ok {
		return out
	}

	logged := make(map[int]models.Call)
	for _, call := range snap.Calls {
		if call.StudentID != studentID || call.CallDefID == nil {
			continue
		}
		if _, seen := logged[*call.CallDefID]; !seen {
			logged[*call.CallDefID] = call
		}
	}

	for _, def := range course.CallsDef {
		row := dto.ProfileCall{
			DefinitionID: def.ID,
			Title:        def.Title,
			Week:         def.Week,
			CallStatus:   models.CallStatusFuture,
			Apollonyar:   Unknown,
		}
		if call, ok := logged[def.ID]; ok {
			id := call.ID
			row.CallID = &id
			row.CallStatus = call.CallStatus
			row.Description = call.Description
			row.Date = call.Date
			if apollonyar, ok := ix.ApollonyarRef(call.ApollonyarID); ok {
				row.Apollonyar = orUnknown(apollonyar.Name)
			}
		}
		out = append(out, row)
	}
	return out
}

// PaymentsForStudent renders the installments of a student as a payment
// history, latest due date first. A student with a single paid installment
// paid the whole fee in cash.
func (v *Views) PaymentsForStudent(snap store.Snapshot, studentID int) []dto.Payment {
	installments := make([]models.Installment, 0)
	for _, inst := range snap.Installments {
		if inst.StudentID == studentID {
			installments = append(installments, inst)
		}
	}
	singlePayment := len(installments) == 1 && installments[0].PaymentStatus == models.PaymentStatusPaid

	out := make([]dto.Payment, 0, len(installments))
	for _, inst := range installments {
		payment := dto.Payment{
			ID:          inst.ID,
			Amount:      inst.Amount,
			Date:        inst.DueDate,
			Status:      inst.PaymentStatus,
			Type:        models.PaymentTypeInstall,
			Method:      models.PaymentMethodInstal,
			Description: fmt.Sprintf("قسط مربوط به تاریخ %s", inst.DueDate),
		}
		if inst.PaymentStatus == models.PaymentStatusPaid {
			payment.Type = models.PaymentTypeDeposit
		}
		if singlePayment {
			payment.Method = models.PaymentMethodCash
			payment.Description = "پرداخت کامل شهریه دوره"
		}
		out = append(out, payment)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return dateKey(out[i].Date) > dateKey(out[j].Date)
	})
	return out
}

// dateKey orders Jalali dates; unparseable dates sort last.
func dateKey(value string) int {
	date, err := jalali.Parse(value)
	if err != nil {
		return -1
	}
	return date.Year*10000 + date.Month*100 + date.Day
}
