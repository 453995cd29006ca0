package views

import (
	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

// Assignments lists every submission with its student's name and course.
func (v *Views) Assignments(snap store.Snapshot) []dto.AssignmentRow {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.AssignmentRow, 0, len(snap.Assignments))
	for _, a := range snap.Assignments {
		ref := lookupStudent(ix, a.StudentID)
		name := UnknownStudent
		if ref.found && ref.student.Name != "" {
			name = ref.student.Name
		}
		out = append(out, dto.AssignmentRow{
			Assignment:  a.Clone(),
			StudentName: name,
			Course:      ref.courseName,
		})
	}
	return out
}

// AssignmentsByStudent filters the assignments table to one student.
func (v *Views) AssignmentsByStudent(snap store.Snapshot, studentID int) []dto.AssignmentRow {
	rows := v.Assignments(snap)
	out := make([]dto.AssignmentRow, 0)
	for _, row := range rows {
		if row.StudentID == studentID {
			out = append(out, row)
		}
	}
	return out
}

// Calls lists every logged call with its student's contact details.
func (v *Views) Calls(snap store.Snapshot) []dto.CallRow {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.CallRow, 0, len(snap.Calls))
	for _, c := range snap.Calls {
		ref := lookupStudent(ix, c.StudentID)
		out = append(out, dto.CallRow{
			Call:        c.Clone(),
			StudentName: ref.name(),
			Phone:       ref.student.Phone,
			Course:      ref.courseName,
			Term:        ref.termName,
			Apollonyar:  ref.apollonyar,
			Hearts:      ref.student.Hearts,
		})
	}
	return out
}

// Installments lists every installment with its student's details.
func (v *Views) Installments(snap store.Snapshot) []dto.InstallmentRow {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.InstallmentRow, 0, len(snap.Installments))
	for _, i := range snap.Installments {
		ref := lookupStudent(ix, i.StudentID)
		out = append(out, dto.InstallmentRow{
			Installment:  i.Clone(),
			StudentName:  ref.name(),
			Phone:        ref.student.Phone,
			Term:         ref.termName,
			Course:       ref.courseName,
			Apollonyar:   ref.apollonyar,
			CourseStatus: ref.accessStatus,
		})
	}
	return out
}

// Groups lists every group with its term and course names.
func (v *Views) Groups(snap store.Snapshot) []dto.GroupRow {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.GroupRow, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		row := dto.GroupRow{Group: g, TermName: Unknown, Course: Unknown}
		if term, ok := ix.Term(g.TermID); ok {
			row.TermName = orUnknown(term.Name)
			if course, ok := ix.Course(term.CourseID); ok {
				row.Course = orUnknown(course.Name)
			}
		}
		out = append(out, row)
	}
	return out
}

// Courses lists every course with student, graduate, assignment and call
// counts over the students enrolled in any of its terms.
func (v *Views) Courses(snap store.Snapshot) []dto.CourseRow {
	out := make([]dto.CourseRow, 0, len(snap.Courses))
	for _, course := range snap.Courses {
		courseTerms := make(map[int]struct{})
		for _, term := range snap.Terms {
			if term.CourseID == course.ID {
				courseTerms[term.ID] = struct{}{}
			}
		}

		row := dto.CourseRow{Course: course.Clone()}
		studentIDs := make(map[int]struct{})
		for _, student := range snap.Students {
			if !enrolledInAny(student, courseTerms) {
				continue
			}
			studentIDs[student.ID] = struct{}{}
			row.TotalStudents++
			if student.EnrollmentStatus == models.EnrollmentStatusGraduated {
				row.Graduates++
			}
		}
		for _, a := range snap.Assignments {
			if _, ok := studentIDs[a.StudentID]; ok {
				row.AssignmentCount++
			}
		}
		for _, c := range snap.Calls {
			if _, ok := studentIDs[c.StudentID]; ok {
				row.CallCount++
			}
		}
		out = append(out, row)
	}
	return out
}

// Terms lists every term with its course name and enrollment count.
func (v *Views) Terms(snap store.Snapshot) []dto.TermRow {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.TermRow, 0, len(snap.Terms))
	for _, term := range snap.Terms {
		row := dto.TermRow{Term: term, Course: Unknown}
		if course, ok := ix.Course(term.CourseID); ok {
			row.Course = orUnknown(course.Name)
		}
		only := map[int]struct{}{term.ID: {}}
		for _, student := range snap.Students {
			if enrolledInAny(student, only) {
				row.StudentsCount++
			}
		}
		out = append(out, row)
	}
	return out
}

// Apollonyars lists every staff member with assigned students and urgent
// calls. The average score is a placeholder.
func (v *Views) Apollonyars(snap store.Snapshot) []dto.ApollonyarRow {
	out := make([]dto.ApollonyarRow, 0, len(snap.Apollonyars))
	for _, apollonyar := range snap.Apollonyars {
		row := dto.ApollonyarRow{Apollonyar: apollonyar, AvgScore: v.placeholders.AverageScore()}
		for _, student := range snap.Students {
			if student.ApollonyarID != nil && *student.ApollonyarID == apollonyar.ID {
				row.StudentCount++
			}
		}
		for _, call := range snap.Calls {
			if call.ApollonyarID != nil && *call.ApollonyarID == apollonyar.ID && call.CallStatus == models.CallStatusToDo {
				row.UrgentCalls++
			}
		}
		out = append(out, row)
	}
	return out
}

// Medals lists every medal with the detail rows of its holders. Award dates
// are placeholders.
func (v *Views) Medals(snap store.Snapshot) []dto.MedalRow {
	details := v.StudentDetails(snap)
	out := make([]dto.MedalRow, 0, len(snap.Medals))
	for _, medal := range snap.Medals {
		row := dto.MedalRow{Medal: medal, Students: make([]dto.MedalHolder, 0)}
		for _, detail := range details {
			if detail.HasMedal(medal.ID) {
				row.Students = append(row.Students, dto.MedalHolder{
					StudentDetail:  detail,
					MedalAwardDate: v.placeholders.MedalAwardDate(),
				})
			}
		}
		row.HolderCount = len(row.Students)
		out = append(out, row)
	}
	return out
}

// Transactions lists every transaction with the paying student's details.
func (v *Views) Transactions(snap store.Snapshot) []dto.TransactionRow {
	ix := store.BuildIndices(snap.Dataset)
	out := make([]dto.TransactionRow, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		ref := lookupStudent(ix, tx.StudentID)
		out = append(out, dto.TransactionRow{
			Transaction: tx.Clone(),
			StudentName: ref.name(),
			Phone:       ref.student.Phone,
			Course:      ref.courseName,
		})
	}
	return out
}

func enrolledInAny(student models.Student, terms map[int]struct{}) bool {
	for _, id := range termIDs(student) {
		if _, ok := terms[id]; ok {
			return true
		}
	}
	return false
}
