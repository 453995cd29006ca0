package store

import (
	"fmt"
	"strings"

	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/pkg/jalali"
)

// SystemAuthor signs entries the service writes on its own behalf.
const SystemAuthor = "سیستم"

// Mutation action names reported in Change.Action.
const (
	ActionTransactionStatus   = "transaction.status_updated"
	ActionTransactionNote     = "transaction.note_added"
	ActionStudentNoteAdded    = "student.note_added"
	ActionStudentNoteRemoved  = "student.note_removed"
	ActionMedalAdded          = "student.medal_added"
	ActionMedalRemoved        = "student.medal_removed"
	ActionApollonyarAssigned  = "student.apollonyar_assigned"
	ActionGroupAssigned       = "student.group_assigned"
	ActionStudentRemoved      = "student.removed"
	ActionStudentCreated      = "student.created"
	ActionStudentUpdated      = "student.profile_updated"
	ActionInstallmentsUpdated = "student.installments_replaced"
	ActionCourseAdded         = "student.course_added"
	ActionCourseRemoved       = "student.course_removed"
)

// UpdateTransactionStatus sets the status of a transaction and prepends an audit note.
func (s *Store) UpdateTransactionStatus(transactionID, status, author string) (Change, bool) {
	return s.apply(ActionTransactionStatus, "transaction", []string{transactionID}, func() bool {
		idx := s.transactionIndex(transactionID)
		if idx < 0 {
			return false
		}
		tx := &s.data.Transactions[idx]
		tx.Status = status
		tx.Notes = prepend(tx.Notes, models.TransactionNote{
			Author: author,
			Date:   jalali.FormatDateTime(s.now()),
			Text:   fmt.Sprintf("وضعیت توسط کاربر به «%s» تغییر کرد.", status),
		})
		return true
	})
}

// AddTransactionNote prepends a note to a transaction. Empty text is ignored.
func (s *Store) AddTransactionNote(transactionID, text, author string) (Change, bool) {
	return s.apply(ActionTransactionNote, "transaction", []string{transactionID}, func() bool {
		idx := s.transactionIndex(transactionID)
		if idx < 0 || text == "" {
			return false
		}
		tx := &s.data.Transactions[idx]
		tx.Notes = prepend(tx.Notes, models.TransactionNote{
			Author: author,
			Date:   jalali.FormatDateTime(s.now()),
			Text:   text,
		})
		return true
	})
}

// AddNoteToStudent prepends a trimmed note to a student. Blank text is ignored.
func (s *Store) AddNoteToStudent(studentID int, text, author string) (Change, bool) {
	text = strings.TrimSpace(text)
	return s.apply(ActionStudentNoteAdded, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 || text == "" {
			return false
		}
		student := &s.data.Students[idx]
		student.Notes = prepend(student.Notes, models.StudentNote{
			ID:     "n" + s.newID(),
			Date:   jalali.FormatDate(s.now()),
			Note:   text,
			Author: author,
		})
		return true
	})
}

// RemoveNoteFromStudent deletes the note with noteID from a student.
func (s *Store) RemoveNoteFromStudent(studentID int, noteID string) (Change, bool) {
	return s.apply(ActionStudentNoteRemoved, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		student := &s.data.Students[idx]
		for i, note := range student.Notes {
			if note.ID == noteID {
				student.Notes = append(student.Notes[:i], student.Notes[i+1:]...)
				return true
			}
		}
		return false
	})
}

// AddMedalToStudent adds medalID to the student's earned medals. Adding a
// medal the student already holds changes nothing.
func (s *Store) AddMedalToStudent(studentID, medalID int) (Change, bool) {
	return s.apply(ActionMedalAdded, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		student := &s.data.Students[idx]
		if student.HasMedal(medalID) {
			return false
		}
		student.EarnedMedalIDs = append(student.EarnedMedalIDs, medalID)
		return true
	})
}

// RemoveMedalFromStudent removes medalID from the student's earned medals.
func (s *Store) RemoveMedalFromStudent(studentID, medalID int) (Change, bool) {
	return s.apply(ActionMedalRemoved, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		student := &s.data.Students[idx]
		for i, id := range student.EarnedMedalIDs {
			if id == medalID {
				student.EarnedMedalIDs = append(student.EarnedMedalIDs[:i], student.EarnedMedalIDs[i+1:]...)
				return true
			}
		}
		return false
	})
}

// AssignApollonyarToStudents sets the owning staff member of every listed
// student. A nil apollonyarID unassigns. It returns how many students matched
// and the applied change.
func (s *Store) AssignApollonyarToStudents(studentIDs []int, apollonyarID *int) (int, Change) {
	matched := 0
	change, _ := s.apply(ActionApollonyarAssigned, "student", itoas(studentIDs), func() bool {
		wanted := idSet(studentIDs)
		for i := range s.data.Students {
			if _, ok := wanted[s.data.Students[i].ID]; ok {
				s.data.Students[i].ApollonyarID = cloneIntPtr(apollonyarID)
				matched++
			}
		}
		return matched > 0
	})
	return matched, change
}

// AssignGroupToStudents sets the group of every listed student. A nil groupID
// unassigns. It returns how many students matched and the applied change.
func (s *Store) AssignGroupToStudents(studentIDs []int, groupID *int) (int, Change) {
	matched := 0
	change, _ := s.apply(ActionGroupAssigned, "student", itoas(studentIDs), func() bool {
		wanted := idSet(studentIDs)
		for i := range s.data.Students {
			if _, ok := wanted[s.data.Students[i].ID]; ok {
				s.data.Students[i].GroupID = cloneIntPtr(groupID)
				matched++
			}
		}
		return matched > 0
	})
	return matched, change
}

// RemoveStudent deletes the student with id, keeping the order of the rest.
func (s *Store) RemoveStudent(studentID int) (Change, bool) {
	return s.apply(ActionStudentRemoved, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		s.data.Students = append(s.data.Students[:idx], s.data.Students[idx+1:]...)
		return true
	})
}

// AddStudent creates a student with the default statuses of a fresh
// registration and puts it at the head of the collection. The new id is one
// more than the largest existing id, or 1 for an empty collection.
func (s *Store) AddStudent(profile models.StudentProfile) (models.Student, Change) {
	var created models.Student
	change, _ := s.applyWithIDs(ActionStudentCreated, "student", func() ([]string, bool) {
		now := s.now()
		created = models.Student{
			ID:               s.nextStudentID(),
			Name:             profile.Name,
			Phone:            profile.Phone,
			BirthYear:        cloneIntPtr(profile.BirthYear),
			City:             profile.City,
			Status:           models.StudentStatusFree,
			StudentType:      models.StudentTypeTermly,
			AccessStatus:     models.AccessStatusActive,
			EnrollmentStatus: models.EnrollmentStatusInProgress,
			Hearts:           3,
			Score:            0,
			WatchTime:        0,
			TotalWatchTime:   30,
			Enrollments:      []models.Enrollment{},
			ChapterProgress:  []models.ChapterProgress{},
			EarnedMedalIDs:   []int{},
			Notes:            []models.StudentNote{},
			ActionLogs: []models.ActionLog{{
				ID:          "log" + s.newID(),
				Action:      "هنرجو اضافه شد",
				DateTime:    jalali.FormatDateTime(now),
				Author:      SystemAuthor,
				Description: "هنرجوی جدید از طریق پنل اضافه شد.",
			}},
		}
		s.data.Students = prepend(s.data.Students, created)
		return []string{itoa(created.ID)}, true
	})
	return created.Clone(), change
}

// UpdateStudentProfile overwrites the editable personal fields of a student.
func (s *Store) UpdateStudentProfile(studentID int, profile models.StudentProfile) (Change, bool) {
	return s.apply(ActionStudentUpdated, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		student := &s.data.Students[idx]
		student.Name = profile.Name
		student.Phone = profile.Phone
		student.BirthYear = cloneIntPtr(profile.BirthYear)
		student.City = profile.City
		return true
	})
}

// UpdateStudentInstallments replaces the unpaid installments of a student.
// Paid installments (linked to a transaction) are always kept; from
// replacement only the unpaid entries are added, stamped with the student id
// and given a fresh id when they carry none or when their id is already taken
// by a kept installment or an earlier entry of replacement. When totalFee is
// non-nil it becomes the student's total course fee.
func (s *Store) UpdateStudentInstallments(studentID int, replacement []models.Installment, totalFee *int64) (Change, bool) {
	return s.apply(ActionInstallmentsUpdated, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		if totalFee != nil {
			fee := *totalFee
			s.data.Students[idx].TotalCourseFee = &fee
		}

		kept := make([]models.Installment, 0, len(s.data.Installments)+len(replacement))
		taken := make(map[int]struct{}, len(s.data.Installments)+len(replacement))
		for _, inst := range s.data.Installments {
			if inst.StudentID != studentID || inst.Paid() {
				kept = append(kept, inst)
				taken[inst.ID] = struct{}{}
			}
		}

		nextID := max(maxInstallmentID(s.data.Installments), maxInstallmentID(replacement)) + 1
		for _, inst := range replacement {
			if inst.Paid() {
				continue
			}
			inst = inst.Clone()
			inst.StudentID = studentID
			if _, dup := taken[inst.ID]; dup || inst.ID == 0 {
				inst.ID = nextID
				nextID++
			}
			taken[inst.ID] = struct{}{}
			kept = append(kept, inst)
		}
		s.data.Installments = kept
		return true
	})
}

// AddCourseToStudent enrolls a student in courseID through termID. A student
// already enrolled in the course is left as is.
func (s *Store) AddCourseToStudent(studentID, courseID, termID int) (Change, bool) {
	return s.apply(ActionCourseAdded, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		student := &s.data.Students[idx]
		for _, e := range student.Enrollments {
			if e.CourseID == courseID {
				return false
			}
		}
		student.Enrollments = append(student.Enrollments, models.Enrollment{CourseID: courseID, TermID: termID})
		return true
	})
}

// RemoveCourseFromStudent drops the enrollment of a student in courseID.
func (s *Store) RemoveCourseFromStudent(studentID, courseID int) (Change, bool) {
	return s.apply(ActionCourseRemoved, "student", []string{itoa(studentID)}, func() bool {
		idx := s.studentIndex(studentID)
		if idx < 0 {
			return false
		}
		student := &s.data.Students[idx]
		for i, e := range student.Enrollments {
			if e.CourseID == courseID {
				student.Enrollments = append(student.Enrollments[:i], student.Enrollments[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Store) nextStudentID() int {
	maxID := 0
	for _, student := range s.data.Students {
		if student.ID > maxID {
			maxID = student.ID
		}
	}
	return maxID + 1
}

func maxInstallmentID(items []models.Installment) int {
	maxID := 0
	for _, item := range items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func idSet(ids []int) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
