package models

import "fmt"

// Dataset is the full CRM document the service is seeded from.
type Dataset struct {
	Students     []Student     `json:"students"`
	Apollonyars  []Apollonyar  `json:"apollonyars"`
	Terms        []Term        `json:"terms"`
	Courses      []Course      `json:"courses"`
	Assignments  []Assignment  `json:"assignments"`
	Calls        []Call        `json:"calls"`
	Installments []Installment `json:"installments"`
	Medals       []Medal       `json:"medals"`
	Groups       []Group       `json:"groups"`
	Transactions []Transaction `json:"transactions"`
}

// Normalize replaces every missing optional list with an empty one so that
// later code never has to nil-check collections or nested record lists.
func (d *Dataset) Normalize() {
	d.Students = nonNil(d.Students)
	d.Apollonyars = nonNil(d.Apollonyars)
	d.Terms = nonNil(d.Terms)
	d.Courses = nonNil(d.Courses)
	d.Assignments = nonNil(d.Assignments)
	d.Calls = nonNil(d.Calls)
	d.Installments = nonNil(d.Installments)
	d.Medals = nonNil(d.Medals)
	d.Groups = nonNil(d.Groups)
	d.Transactions = nonNil(d.Transactions)

	for i := range d.Students {
		s := &d.Students[i]
		s.Enrollments = nonNil(s.Enrollments)
		s.ChapterProgress = nonNil(s.ChapterProgress)
		s.EarnedMedalIDs = nonNil(s.EarnedMedalIDs)
		s.Notes = nonNil(s.Notes)
		s.ActionLogs = nonNil(s.ActionLogs)
	}
	for i := range d.Courses {
		d.Courses[i].AssignmentsDef = nonNil(d.Courses[i].AssignmentsDef)
		d.Courses[i].CallsDef = nonNil(d.Courses[i].CallsDef)
	}
	for i := range d.Assignments {
		d.Assignments[i].Submissions = nonNil(d.Assignments[i].Submissions)
	}
	for i := range d.Transactions {
		d.Transactions[i].Notes = nonNil(d.Transactions[i].Notes)
	}
}

// CheckUniqueIDs returns an error naming the first collection holding a duplicate id.
func (d Dataset) CheckUniqueIDs() error {
	checks := []struct {
		name string
		ids  []int
	}{
		{"students", idsOf(d.Students, func(v Student) int { return v.ID })},
		{"apollonyars", idsOf(d.Apollonyars, func(v Apollonyar) int { return v.ID })},
		{"terms", idsOf(d.Terms, func(v Term) int { return v.ID })},
		{"courses", idsOf(d.Courses, func(v Course) int { return v.ID })},
		{"assignments", idsOf(d.Assignments, func(v Assignment) int { return v.ID })},
		{"calls", idsOf(d.Calls, func(v Call) int { return v.ID })},
		{"installments", idsOf(d.Installments, func(v Installment) int { return v.ID })},
		{"medals", idsOf(d.Medals, func(v Medal) int { return v.ID })},
		{"groups", idsOf(d.Groups, func(v Group) int { return v.ID })},
	}
	for _, check := range checks {
		if id, dup := firstDuplicate(check.ids); dup {
			return fmt.Errorf("duplicate id %d in %s", id, check.name)
		}
	}

	seen := make(map[string]struct{}, len(d.Transactions))
	for _, tx := range d.Transactions {
		if _, ok := seen[tx.ID]; ok {
			return fmt.Errorf("duplicate id %q in transactions", tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Students:     cloneEach(d.Students, Student.Clone),
		Apollonyars:  cloneSlice(d.Apollonyars),
		Terms:        cloneSlice(d.Terms),
		Courses:      cloneEach(d.Courses, Course.Clone),
		Assignments:  cloneEach(d.Assignments, Assignment.Clone),
		Calls:        cloneEach(d.Calls, Call.Clone),
		Installments: cloneEach(d.Installments, Installment.Clone),
		Medals:       cloneSlice(d.Medals),
		Groups:       cloneSlice(d.Groups),
		Transactions: cloneEach(d.Transactions, Transaction.Clone),
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func cloneEach[T any](in []T, clone func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func idsOf[T any](in []T, id func(T) int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = id(v)
	}
	return out
}

func firstDuplicate(ids []int) (int, bool) {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}
