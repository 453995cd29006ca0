package views

import (
	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

// Dashboard aggregates headline figures. It uses no placeholder values.
func (v *Views) Dashboard(snap store.Snapshot) dto.Dashboard {
	out := dto.Dashboard{
		Revision:      snap.Revision,
		TotalStudents: len(snap.Students),
		Courses:       len(snap.Courses),
		Terms:         len(snap.Terms),
		Apollonyars:   len(snap.Apollonyars),
		Transactions:  len(snap.Transactions),
	}

	called := make(map[int]struct{}, len(snap.Calls))
	for _, call := range snap.Calls {
		called[call.StudentID] = struct{}{}
		if call.CallStatus == models.CallStatusToDo {
			out.UrgentCalls++
		}
	}

	for _, student := range snap.Students {
		if student.AccessStatus == models.AccessStatusActive {
			out.ActiveStudents++
		}
		if student.EnrollmentStatus == models.EnrollmentStatusGraduated {
			out.Graduates++
		}
		if _, ok := called[student.ID]; !ok {
			out.StudentsWithoutCall++
		}
	}

	now := v.now()
	for _, inst := range snap.Installments {
		if inst.Paid() {
			out.PaidAmount += inst.Amount
			continue
		}
		out.OutstandingAmount += inst.Amount
		if v.pastDue(inst.DueDate, now) {
			out.OverdueInstallments++
		}
	}
	return out
}
