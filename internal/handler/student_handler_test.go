package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
)

func TestStudentHandlerListAndGet(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/v1/students", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, body.Success)
	students := decode[[]dto.StudentDetail](t, body.Data)
	require.Len(t, students, 2)
	require.Equal(t, "پایتون", students[0].Course)

	status, body = h.do(t, http.MethodGet, "/api/v1/students/2", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "رضا کریمی", decode[dto.StudentDetail](t, body.Data).Name)

	status, body = h.do(t, http.MethodGet, "/api/v1/students/404", nil)
	require.Equal(t, fiber.StatusNotFound, status)
	require.False(t, body.Success)

	status, _ = h.do(t, http.MethodGet, "/api/v1/students/abc", nil)
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestStudentHandlerCreate(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "نگار", "city": "شیراز"})
	require.Equal(t, fiber.StatusCreated, status)
	created := decode[dto.StudentDetail](t, body.Data)
	require.Equal(t, 3, created.ID)
	require.Equal(t, "شیراز", created.City)

	status, body = h.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": ""})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, body.Success)
}

func TestStudentHandlerMutationsReportApplied(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/api/v1/students/1/medals/1", nil)
	require.Equal(t, fiber.StatusOK, status)
	result := decode[dto.MutationResult](t, body.Data)
	require.True(t, result.Applied)
	require.Equal(t, []int{1}, result.Student.EarnedMedalIDs)

	status, body = h.do(t, http.MethodPost, "/api/v1/students/1/medals/1", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.False(t, decode[dto.MutationResult](t, body.Data).Applied)

	status, body = h.do(t, http.MethodDelete, "/api/v1/students/404", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.False(t, decode[dto.MutationResult](t, body.Data).Applied)

	status, body = h.do(t, http.MethodPost, "/api/v1/students/2/notes", map[string]string{"text": "پیگیری شود"})
	require.Equal(t, fiber.StatusOK, status)
	noted := decode[dto.MutationResult](t, body.Data)
	require.True(t, noted.Applied)
	require.Len(t, noted.Student.Notes, 1)

	status, body = h.do(t, http.MethodDelete, "/api/v1/students/2/notes/"+noted.Student.Notes[0].ID, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, decode[dto.MutationResult](t, body.Data).Applied)

	status, body = h.do(t, http.MethodPatch, "/api/v1/students/2", map[string]interface{}{"name": "رضا کریمی‌نژاد", "birthYear": 1380})
	require.Equal(t, fiber.StatusOK, status)
	updated := decode[dto.MutationResult](t, body.Data)
	require.True(t, updated.Applied)
	require.Equal(t, 1380, *updated.Student.BirthYear)

	require.Equal(t, uint64(4), h.store.Revision())
}

func TestStudentHandlerBulkAndEnrollments(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/api/v1/students/bulk/group", map[string]interface{}{"studentIds": []int{1, 2}, "groupId": 1})
	require.Equal(t, fiber.StatusOK, status)
	bulk := decode[dto.BulkAssignResult](t, body.Data)
	require.True(t, bulk.Applied)
	require.Equal(t, 2, bulk.Matched)

	status, _ = h.do(t, http.MethodPost, "/api/v1/students/bulk/apollonyar", map[string]interface{}{"studentIds": []int{}})
	require.Equal(t, fiber.StatusBadRequest, status)

	status, body = h.do(t, http.MethodDelete, "/api/v1/students/2/enrollments/1", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, decode[dto.MutationResult](t, body.Data).Applied)

	status, body = h.do(t, http.MethodPost, "/api/v1/students/2/enrollments", map[string]int{"courseId": 1, "termId": 1})
	require.Equal(t, fiber.StatusOK, status)
	enrolled := decode[dto.MutationResult](t, body.Data)
	require.True(t, enrolled.Applied)
	require.Len(t, enrolled.Student.EnrolledCourses, 1)
}

func TestStudentHandlerProfileViews(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/v1/students/1/courses/1/assignments", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, decode[[]dto.ProfileAssignment](t, body.Data), 1)

	status, body = h.do(t, http.MethodGet, "/api/v1/students/1/courses/1/calls", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, decode[[]dto.ProfileCall](t, body.Data), 1)

	status, body = h.do(t, http.MethodGet, "/api/v1/students/1/assignments", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Empty(t, decode[[]dto.AssignmentRow](t, body.Data))

	status, _ = h.do(t, http.MethodGet, "/api/v1/students/1/courses/x/calls", nil)
	require.Equal(t, fiber.StatusBadRequest, status)
}
