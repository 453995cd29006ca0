// Package views derives the denormalized screen models from a store snapshot.
//
// Every function is a pure projection: it joins the raw collections through
// lookup indices built for that call and returns fresh values the caller may
// keep. Missing references never fail; names fall back to Unknown.
package views

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/pkg/jalali"
)

// Unknown is displayed in place of a name that cannot be resolved.
const Unknown = "-"

// UnknownStudent is displayed in the assignments table for a submission whose
// student is missing.
const UnknownStudent = "نامشخص"

// NoCallDays is reported as days since last contact for students never called.
const NoCallDays = 30

// Weekly assignment slot values produced by Placeholders.AssignmentStatus.
const (
	SlotCompleted = "completed"
	SlotMissed    = "missed"
	SlotPending   = "pending"
)

// Placeholders produces display-only mock values for fields the dataset does
// not carry. Nothing returned here is real data; callers must not persist it
// or assert on it.
type Placeholders interface {
	// AssignmentStatus returns seven weekly slots.
	AssignmentStatus() []string
	// AverageScore returns a staff rating between 3.0 and 5.0.
	AverageScore() float64
	// MedalAwardDate returns a Jalali date in 1404.
	MedalAwardDate() string
	// DaysSinceContact returns a recency between 1 and 10 days.
	DaysSinceContact() int
}

// RandomPlaceholders draws placeholder values from a seeded source.
type RandomPlaceholders struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPlaceholders returns a generator seeded with seed.
func NewRandomPlaceholders(seed int64) *RandomPlaceholders {
	return &RandomPlaceholders{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlaceholders) intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// AssignmentStatus implements Placeholders.
func (p *RandomPlaceholders) AssignmentStatus() []string {
	slots := [...]string{SlotCompleted, SlotMissed, SlotPending}
	out := make([]string, 7)
	for i := range out {
		out[i] = slots[p.intn(len(slots))]
	}
	return out
}

// AverageScore implements Placeholders.
func (p *RandomPlaceholders) AverageScore() float64 {
	p.mu.Lock()
	value := 3 + p.rng.Float64()*2
	p.mu.Unlock()
	return math.Round(value*10) / 10
}

// MedalAwardDate implements Placeholders.
func (p *RandomPlaceholders) MedalAwardDate() string {
	return jalali.Date{Year: 1404, Month: p.intn(9) + 1, Day: p.intn(28) + 1}.String()
}

// DaysSinceContact implements Placeholders.
func (p *RandomPlaceholders) DaysSinceContact() int {
	return p.intn(10) + 1
}

// Views computes screen models. The zero value is not usable; call New.
type Views struct {
	placeholders Placeholders
	now          func() time.Time
	loc          *time.Location
}

// New constructs a view builder. A nil location means time.Local.
func New(placeholders Placeholders, loc *time.Location) *Views {
	if placeholders == nil {
		placeholders = NewRandomPlaceholders(time.Now().UnixNano())
	}
	if loc == nil {
		loc = time.Local
	}
	return &Views{placeholders: placeholders, now: time.Now, loc: loc}
}

// WithClock overrides the time source used for overdue and recency checks.
func (v *Views) WithClock(now func() time.Time) *Views {
	v.now = now
	return v
}

// today is the start of the current day in the configured location.
func (v *Views) today() time.Time {
	now := v.now().In(v.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
}

// studentRef carries the resolved display fields table rows borrow from a
// student. It consumes no placeholder values.
type studentRef struct {
	found        bool
	student      models.Student
	term         models.Term
	termFound    bool
	course       models.Course
	courseFound  bool
	termName     string
	courseName   string
	apollonyar   string
	telegramID   string
	group        string
	accessStatus string
}

func resolveStudent(ix store.Indices, student models.Student) studentRef {
	ref := studentRef{
		found:        true,
		student:      student,
		termName:     Unknown,
		courseName:   Unknown,
		apollonyar:   Unknown,
		telegramID:   Unknown,
		group:        Unknown,
		accessStatus: student.AccessStatus,
	}
	if termID, ok := student.PrimaryTermID(); ok {
		if term, ok := ix.Term(termID); ok {
			ref.term, ref.termFound = term, true
			ref.termName = orUnknown(term.Name)
			if course, ok := ix.Course(term.CourseID); ok {
				ref.course, ref.courseFound = course, true
				ref.courseName = orUnknown(course.Name)
			}
		}
	}
	if apollonyar, ok := ix.ApollonyarRef(student.ApollonyarID); ok {
		ref.apollonyar = orUnknown(apollonyar.Name)
		ref.telegramID = orUnknown(apollonyar.TelegramID)
	}
	if group, ok := ix.GroupRef(student.GroupID); ok {
		ref.group = orUnknown(group.Name)
	}
	return ref
}

func lookupStudent(ix store.Indices, studentID int) studentRef {
	student, ok := ix.Student(studentID)
	if !ok {
		return studentRef{
			termName:   Unknown,
			courseName: Unknown,
			apollonyar: Unknown,
			telegramID: Unknown,
			group:      Unknown,
		}
	}
	return resolveStudent(ix, student)
}

func (r studentRef) name() string {
	if !r.found {
		return Unknown
	}
	return r.student.Name
}

// termIDs lists the terms a student is enrolled in. Students without
// enrollments count under their legacy term.
func termIDs(student models.Student) []int {
	if len(student.Enrollments) > 0 {
		out := make([]int, len(student.Enrollments))
		for i, e := range student.Enrollments {
			out[i] = e.TermID
		}
		return out
	}
	if student.TermID != nil {
		return []int{*student.TermID}
	}
	return nil
}

func orUnknown(name string) string {
	if name == "" {
		return Unknown
	}
	return name
}
