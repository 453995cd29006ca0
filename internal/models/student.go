package models

// Student status values used when a student is created from the panel.
const (
	StudentStatusFree          = "آزاد"
	StudentTypeTermly          = "ترمی"
	AccessStatusActive         = "فعال"
	EnrollmentStatusInProgress = "در حین آموزش"
	EnrollmentStatusGraduated  = "فارغ‌التحصیل"
)

// Student is a learner tracked by the CRM.
type Student struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Phone            string            `json:"phone"`
	BirthYear        *int              `json:"birthYear"`
	City             string            `json:"city"`
	TermID           *int              `json:"termId"`
	Enrollments      []Enrollment      `json:"enrollments"`
	ApollonyarID     *int              `json:"apollonyarId"`
	GroupID          *int              `json:"groupId"`
	Status           string            `json:"status"`
	StudentType      string            `json:"studentType"`
	AccessStatus     string            `json:"accessStatus"`
	EnrollmentStatus string            `json:"enrollmentStatus"`
	Hearts           int               `json:"hearts"`
	Score            int               `json:"score"`
	WatchTime        int               `json:"watchTime"`
	TotalWatchTime   int               `json:"totalWatchTime"`
	ChapterProgress  []ChapterProgress `json:"chapterProgress"`
	EarnedMedalIDs   []int             `json:"earnedMedalIds"`
	Notes            []StudentNote     `json:"notes"`
	ActionLogs       []ActionLog       `json:"actionLogs"`
	TotalCourseFee   *int64            `json:"totalCourseFee"`
}

// Enrollment associates a student with a term of a course.
type Enrollment struct {
	CourseID int `json:"courseId"`
	TermID   int `json:"termId"`
}

// StudentNote is a free-text note left on a student by staff. Notes are kept newest first.
type StudentNote struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Note   string `json:"note"`
	Author string `json:"author"`
}

// ActionLog records a lifecycle event on a student record.
type ActionLog struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	DateTime    string `json:"dateTime"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// ChapterProgress tracks how far a student got through one course chapter.
type ChapterProgress struct {
	ChapterID int     `json:"chapterId"`
	Title     string  `json:"title"`
	Progress  float64 `json:"progress"`
}

// StudentProfile carries the editable personal fields of a student.
type StudentProfile struct {
	Name      string
	Phone     string
	BirthYear *int
	City      string
}

// HasMedal reports whether the student already earned medalID.
func (s Student) HasMedal(medalID int) bool {
	for _, id := range s.EarnedMedalIDs {
		if id == medalID {
			return true
		}
	}
	return false
}

// PrimaryTermID returns the term of the first enrollment, falling back to the
// legacy single-term field for records that predate enrollments.
func (s Student) PrimaryTermID() (int, bool) {
	if len(s.Enrollments) > 0 {
		return s.Enrollments[0].TermID, true
	}
	if s.TermID != nil {
		return *s.TermID, true
	}
	return 0, false
}

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	out := s
	out.BirthYear = cloneInt(s.BirthYear)
	out.TermID = cloneInt(s.TermID)
	out.ApollonyarID = cloneInt(s.ApollonyarID)
	out.GroupID = cloneInt(s.GroupID)
	if s.TotalCourseFee != nil {
		fee := *s.TotalCourseFee
		out.TotalCourseFee = &fee
	}
	out.Enrollments = cloneSlice(s.Enrollments)
	out.ChapterProgress = cloneSlice(s.ChapterProgress)
	out.EarnedMedalIDs = cloneSlice(s.EarnedMedalIDs)
	out.Notes = cloneSlice(s.Notes)
	out.ActionLogs = cloneSlice(s.ActionLogs)
	return out
}

// cloneSlice copies in, returning an empty non-nil slice for nil input so
// cloned records always encode lists as [].
func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
