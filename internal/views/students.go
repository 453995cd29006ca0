package views

import (
	"time"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/pkg/jalali"
)

// StudentDetails joins every student with its primary enrollment, staff
// member and group, in collection order.
func (v *Views) StudentDetails(snap store.Snapshot) []dto.StudentDetail {
	ix := store.BuildIndices(snap.Dataset)
	lastCalls := lastCallByStudent(snap.Calls)

	out := make([]dto.StudentDetail, 0, len(snap.Students))
	for _, student := range snap.Students {
		out = append(out, v.detail(ix, student, lastCalls))
	}
	return out
}

// StudentByID returns the detail row of one student.
func (v *Views) StudentByID(snap store.Snapshot, studentID int) (dto.StudentDetail, bool) {
	ix := store.BuildIndices(snap.Dataset)
	student, ok := ix.Student(studentID)
	if !ok {
		return dto.StudentDetail{}, false
	}
	return v.detail(ix, student, lastCallByStudent(snap.Calls)), true
}

func (v *Views) detail(ix store.Indices, student models.Student, lastCalls map[int]models.Call) dto.StudentDetail {
	ref := resolveStudent(ix, student)
	detail := dto.StudentDetail{
		Student:              student.Clone(),
		Term:                 ref.termName,
		Course:               ref.courseName,
		Apollonyar:           ref.apollonyar,
		ApollonyarTelegramID: ref.telegramID,
		Group:                ref.group,
		EnrolledCourses:      enrolledCourses(ix, student),
		AccountStatus:        student.Status,
		AssignmentStatus:     v.placeholders.AssignmentStatus(),
		DaysSinceLastContact: NoCallDays,
	}
	if ref.termFound {
		detail.TermStartDate = ref.term.StartDate
		detail.TermEndDate = ref.term.EndDate
	}
	if ref.courseFound {
		id := ref.course.ID
		detail.CourseID = &id
	}
	if call, ok := lastCalls[student.ID]; ok {
		detail.DaysSinceLastContact = v.daysSince(call.Date)
	}
	return detail
}

// daysSince counts whole days between a Jalali call date and today. Calls
// without a usable date get a placeholder recency.
func (v *Views) daysSince(date string) int {
	if date == "" {
		return v.placeholders.DaysSinceContact()
	}
	at, err := jalali.ParseTime(date, v.loc)
	if err != nil {
		return v.placeholders.DaysSinceContact()
	}
	days := int(v.today().Sub(at) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

func enrolledCourses(ix store.Indices, student models.Student) []dto.EnrolledCourse {
	out := make([]dto.EnrolledCourse, 0, len(student.Enrollments))
	for _, e := range student.Enrollments {
		row := dto.EnrolledCourse{
			CourseID:   e.CourseID,
			CourseName: Unknown,
			TermID:     e.TermID,
			TermName:   Unknown,
		}
		courseID := e.CourseID
		if term, ok := ix.Term(e.TermID); ok {
			row.TermName = orUnknown(term.Name)
			courseID = term.CourseID
		}
		if course, ok := ix.Course(courseID); ok {
			row.CourseID = course.ID
			row.CourseName = orUnknown(course.Name)
		} else if course, ok := ix.Course(e.CourseID); ok {
			row.CourseName = orUnknown(course.Name)
		}
		out = append(out, row)
	}
	return out
}

// lastCallByStudent keeps, per student, the call that comes last in
// collection order.
func lastCallByStudent(calls []models.Call) map[int]models.Call {
	out := make(map[int]models.Call, len(calls))
	for _, call := range calls {
		out[call.StudentID] = call
	}
	return out
}
