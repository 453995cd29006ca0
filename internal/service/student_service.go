package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

// ErrStudentNotFound indicates a single-student read for an unknown id.
var ErrStudentNotFound = errors.New("student not found")

// StudentService exposes student reads and the student mutators.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentDetail, error)
	Get(ctx context.Context, id int) (dto.StudentDetail, error)
	Assignments(ctx context.Context, id int) ([]dto.AssignmentRow, error)
	ProfileAssignments(ctx context.Context, studentID, courseID int) ([]dto.ProfileAssignment, error)
	ProfileCalls(ctx context.Context, studentID, courseID int) ([]dto.ProfileCall, error)

	Create(ctx context.Context, actor ActivityActor, payload dto.StudentProfileRequest) (dto.StudentDetail, error)
	UpdateProfile(ctx context.Context, actor ActivityActor, id int, payload dto.StudentProfileRequest) (dto.MutationResult, error)
	Remove(ctx context.Context, actor ActivityActor, id int) (dto.MutationResult, error)
	AddNote(ctx context.Context, actor ActivityActor, id int, payload dto.NoteRequest) (dto.MutationResult, error)
	RemoveNote(ctx context.Context, actor ActivityActor, id int, noteID string) (dto.MutationResult, error)
	AddMedal(ctx context.Context, actor ActivityActor, id, medalID int) (dto.MutationResult, error)
	RemoveMedal(ctx context.Context, actor ActivityActor, id, medalID int) (dto.MutationResult, error)
	AddCourse(ctx context.Context, actor ActivityActor, id int, payload dto.EnrollmentRequest) (dto.MutationResult, error)
	RemoveCourse(ctx context.Context, actor ActivityActor, id, courseID int) (dto.MutationResult, error)
	AssignApollonyar(ctx context.Context, actor ActivityActor, payload dto.BulkApollonyarRequest) (dto.BulkAssignResult, error)
	AssignGroup(ctx context.Context, actor ActivityActor, payload dto.BulkGroupRequest) (dto.BulkAssignResult, error)
}

type studentService struct {
	crmBackend
	validator  *validator.Validate
	noteAuthor string
}

// NewStudentService constructs the student service. noteAuthor signs notes
// written through the panel.
func NewStudentService(backend Backend, validate *validator.Validate, noteAuthor string, logger zerolog.Logger) StudentService {
	return &studentService{
		crmBackend: newCRMBackend(backend, logger.With().Str("component", "student_service").Logger(), "student"),
		validator:  validate,
		noteAuthor: noteAuthor,
	}
}

// Student details carry placeholder values and are never cached.
func (s *studentService) List(ctx context.Context) ([]dto.StudentDetail, error) {
	return timedView("students", func() []dto.StudentDetail {
		return s.Views.StudentDetails(s.snapshot())
	}), nil
}

func (s *studentService) Get(ctx context.Context, id int) (dto.StudentDetail, error) {
	_, span := s.tracer.Start(ctx, "students.get")
	defer span.End()
	span.SetAttributes(attribute.Int("crm.student_id", id))

	detail, ok := s.Views.StudentByID(s.snapshot(), id)
	if !ok {
		span.SetStatus(codes.Error, ErrStudentNotFound.Error())
		return dto.StudentDetail{}, ErrStudentNotFound
	}
	return detail, nil
}

func (s *studentService) Assignments(ctx context.Context, id int) ([]dto.AssignmentRow, error) {
	snap := s.snapshot()
	if _, ok := store.BuildIndices(snap.Dataset).Student(id); !ok {
		return nil, ErrStudentNotFound
	}
	return s.Views.AssignmentsByStudent(snap, id), nil
}

func (s *studentService) ProfileAssignments(ctx context.Context, studentID, courseID int) ([]dto.ProfileAssignment, error) {
	return timedView("profile_assignments", func() []dto.ProfileAssignment {
		return s.Views.AssignmentsForProfile(s.snapshot(), studentID, courseID)
	}), nil
}

func (s *studentService) ProfileCalls(ctx context.Context, studentID, courseID int) ([]dto.ProfileCall, error) {
	return timedView("profile_calls", func() []dto.ProfileCall {
		return s.Views.CallsForProfile(s.snapshot(), studentID, courseID)
	}), nil
}

func (s *studentService) Create(ctx context.Context, actor ActivityActor, payload dto.StudentProfileRequest) (dto.StudentDetail, error) {
	payload = s.cleanProfile(payload)
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentDetail{}, err
	}

	var createdID int
	s.mutate(ctx, actor, mutation{action: store.ActionStudentCreated, entityType: "student"}, func() (store.Change, bool) {
		created, change := s.Store.AddStudent(payload.Profile())
		createdID = created.ID
		return change, true
	})

	detail, ok := s.Views.StudentByID(s.snapshot(), createdID)
	if !ok {
		return dto.StudentDetail{}, ErrStudentNotFound
	}
	s.logger.Info().Int("student_id", createdID).Msg("student created")
	return detail, nil
}

func (s *studentService) UpdateProfile(ctx context.Context, actor ActivityActor, id int, payload dto.StudentProfileRequest) (dto.MutationResult, error) {
	payload = s.cleanProfile(payload)
	if err := s.validator.Struct(payload); err != nil {
		return dto.MutationResult{}, err
	}

	applied := s.mutate(ctx, actor, studentMutation(store.ActionStudentUpdated, id, nil), func() (store.Change, bool) {
		return s.Store.UpdateStudentProfile(id, payload.Profile())
	})
	return s.result(applied, id), nil
}

func (s *studentService) Remove(ctx context.Context, actor ActivityActor, id int) (dto.MutationResult, error) {
	applied := s.mutate(ctx, actor, studentMutation(store.ActionStudentRemoved, id, nil), func() (store.Change, bool) {
		return s.Store.RemoveStudent(id)
	})
	return dto.MutationResult{Applied: applied}, nil
}

func (s *studentService) AddNote(ctx context.Context, actor ActivityActor, id int, payload dto.NoteRequest) (dto.MutationResult, error) {
	payload.Text = s.clean(payload.Text)
	if err := s.validator.Struct(payload); err != nil {
		return dto.MutationResult{}, err
	}

	applied := s.mutate(ctx, actor, studentMutation(store.ActionStudentNoteAdded, id, map[string]interface{}{"length": len([]rune(payload.Text))}), func() (store.Change, bool) {
		return s.Store.AddNoteToStudent(id, payload.Text, s.noteAuthor)
	})
	return s.result(applied, id), nil
}

func (s *studentService) RemoveNote(ctx context.Context, actor ActivityActor, id int, noteID string) (dto.MutationResult, error) {
	applied := s.mutate(ctx, actor, studentMutation(store.ActionStudentNoteRemoved, id, map[string]interface{}{"note_id": noteID}), func() (store.Change, bool) {
		return s.Store.RemoveNoteFromStudent(id, noteID)
	})
	return s.result(applied, id), nil
}

func (s *studentService) AddMedal(ctx context.Context, actor ActivityActor, id, medalID int) (dto.MutationResult, error) {
	applied := s.mutate(ctx, actor, studentMutation(store.ActionMedalAdded, id, map[string]interface{}{"medal_id": medalID}), func() (store.Change, bool) {
		return s.Store.AddMedalToStudent(id, medalID)
	})
	return s.result(applied, id), nil
}

func (s *studentService) RemoveMedal(ctx context.Context, actor ActivityActor, id, medalID int) (dto.MutationResult, error) {
	applied := s.mutate(ctx, actor, studentMutation(store.ActionMedalRemoved, id, map[string]interface{}{"medal_id": medalID}), func() (store.Change, bool) {
		return s.Store.RemoveMedalFromStudent(id, medalID)
	})
	return s.result(applied, id), nil
}

func (s *studentService) AddCourse(ctx context.Context, actor ActivityActor, id int, payload dto.EnrollmentRequest) (dto.MutationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MutationResult{}, err
	}

	metadata := map[string]interface{}{"course_id": payload.CourseID, "term_id": payload.TermID}
	applied := s.mutate(ctx, actor, studentMutation(store.ActionCourseAdded, id, metadata), func() (store.Change, bool) {
		return s.Store.AddCourseToStudent(id, payload.CourseID, payload.TermID)
	})
	return s.result(applied, id), nil
}

func (s *studentService) RemoveCourse(ctx context.Context, actor ActivityActor, id, courseID int) (dto.MutationResult, error) {
	applied := s.mutate(ctx, actor, studentMutation(store.ActionCourseRemoved, id, map[string]interface{}{"course_id": courseID}), func() (store.Change, bool) {
		return s.Store.RemoveCourseFromStudent(id, courseID)
	})
	return s.result(applied, id), nil
}

func (s *studentService) AssignApollonyar(ctx context.Context, actor ActivityActor, payload dto.BulkApollonyarRequest) (dto.BulkAssignResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BulkAssignResult{}, err
	}

	matched := 0
	m := mutation{
		action:     store.ActionApollonyarAssigned,
		entityType: "student",
		metadata:   map[string]interface{}{"student_ids": payload.StudentIDs, "apollonyar_id": payload.ApollonyarID},
	}
	applied := s.mutate(ctx, actor, m, func() (store.Change, bool) {
		var change store.Change
		matched, change = s.Store.AssignApollonyarToStudents(payload.StudentIDs, payload.ApollonyarID)
		return change, matched > 0
	})
	return dto.BulkAssignResult{Applied: applied, Matched: matched}, nil
}

func (s *studentService) AssignGroup(ctx context.Context, actor ActivityActor, payload dto.BulkGroupRequest) (dto.BulkAssignResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BulkAssignResult{}, err
	}

	matched := 0
	m := mutation{
		action:     store.ActionGroupAssigned,
		entityType: "student",
		metadata:   map[string]interface{}{"student_ids": payload.StudentIDs, "group_id": payload.GroupID},
	}
	applied := s.mutate(ctx, actor, m, func() (store.Change, bool) {
		var change store.Change
		matched, change = s.Store.AssignGroupToStudents(payload.StudentIDs, payload.GroupID)
		return change, matched > 0
	})
	return dto.BulkAssignResult{Applied: applied, Matched: matched}, nil
}

// result reports a student mutation together with the student as it reads now.
func (s *studentService) result(applied bool, id int) dto.MutationResult {
	result := dto.MutationResult{Applied: applied}
	if detail, ok := s.Views.StudentByID(s.snapshot(), id); ok {
		result.Student = &detail
	}
	return result
}

func (s *studentService) cleanProfile(payload dto.StudentProfileRequest) dto.StudentProfileRequest {
	payload.Name = s.clean(payload.Name)
	payload.Phone = s.clean(payload.Phone)
	payload.City = s.clean(payload.City)
	return payload
}

func studentMutation(action string, id int, metadata map[string]interface{}) mutation {
	return mutation{action: action, entityType: "student", entityID: strconv.Itoa(id), metadata: metadata}
}
