package store

import "github.com/noah-isme/rayan-crm-api/internal/models"

// Indices maps identifiers to records for the collections views join against.
// Build a fresh value per read; an index must never outlive the snapshot it
// was built from.
type Indices struct {
	courses     map[int]models.Course
	terms       map[int]models.Term
	apollonyars map[int]models.Apollonyar
	groups      map[int]models.Group
	students    map[int]models.Student
	medals      map[int]models.Medal
}

// BuildIndices indexes the collections of dataset by id.
func BuildIndices(dataset models.Dataset) Indices {
	return Indices{
		courses:     indexBy(dataset.Courses, func(v models.Course) int { return v.ID }),
		terms:       indexBy(dataset.Terms, func(v models.Term) int { return v.ID }),
		apollonyars: indexBy(dataset.Apollonyars, func(v models.Apollonyar) int { return v.ID }),
		groups:      indexBy(dataset.Groups, func(v models.Group) int { return v.ID }),
		students:    indexBy(dataset.Students, func(v models.Student) int { return v.ID }),
		medals:      indexBy(dataset.Medals, func(v models.Medal) int { return v.ID }),
	}
}

// Course looks up a course by id.
func (ix Indices) Course(id int) (models.Course, bool) {
	v, ok := ix.courses[id]
	return v, ok
}

// Term looks up a term by id.
func (ix Indices) Term(id int) (models.Term, bool) {
	v, ok := ix.terms[id]
	return v, ok
}

// Apollonyar looks up a staff member by id.
func (ix Indices) Apollonyar(id int) (models.Apollonyar, bool) {
	v, ok := ix.apollonyars[id]
	return v, ok
}

// Group looks up a group by id.
func (ix Indices) Group(id int) (models.Group, bool) {
	v, ok := ix.groups[id]
	return v, ok
}

// Student looks up a student by id.
func (ix Indices) Student(id int) (models.Student, bool) {
	v, ok := ix.students[id]
	return v, ok
}

// Medal looks up a medal by id.
func (ix Indices) Medal(id int) (models.Medal, bool) {
	v, ok := ix.medals[id]
	return v, ok
}

// ApollonyarRef resolves a nullable staff reference.
func (ix Indices) ApollonyarRef(id *int) (models.Apollonyar, bool) {
	if id == nil {
		return models.Apollonyar{}, false
	}
	return ix.Apollonyar(*id)
}

// GroupRef resolves a nullable group reference.
func (ix Indices) GroupRef(id *int) (models.Group, bool) {
	if id == nil {
		return models.Group{}, false
	}
	return ix.Group(*id)
}

func indexBy[T any](items []T, id func(T) int) map[int]T {
	out := make(map[int]T, len(items))
	for _, item := range items {
		out[id(item)] = item
	}
	return out
}
