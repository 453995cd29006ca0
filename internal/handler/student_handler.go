package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/service"
	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// StudentHandler exposes student reads and mutations.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes under the /students group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/bulk/apollonyar", h.assignApollonyar)
	router.Post("/bulk/group", h.assignGroup)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.updateProfile)
	router.Delete("/:id", h.remove)
	router.Post("/:id/notes", h.addNote)
	router.Delete("/:id/notes/:noteId", h.removeNote)
	router.Post("/:id/medals/:medalId", h.addMedal)
	router.Delete("/:id/medals/:medalId", h.removeMedal)
	router.Post("/:id/enrollments", h.addCourse)
	router.Delete("/:id/enrollments/:courseId", h.removeCourse)
	router.Get("/:id/assignments", h.assignments)
	router.Get("/:id/courses/:courseId/assignments", h.profileAssignments)
	router.Get("/:id/courses/:courseId/calls", h.profileCalls)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.service.List(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list students")
	}
	return utils.SendSuccess(c, "students", students)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	student, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load student")
	}
	return utils.SendSuccess(c, "student", student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Create(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create student")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) updateProfile(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.StudentProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.UpdateProfile(requestContext(c), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update student")
	}
	return utils.SendSuccess(c, "student profile updated", result)
}

func (h *StudentHandler) remove(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	result, err := h.service.Remove(requestContext(c), activityActorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to remove student")
	}
	return utils.SendSuccess(c, "student removed", result)
}

func (h *StudentHandler) addNote(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.NoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AddNote(requestContext(c), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to add note")
	}
	return utils.SendSuccess(c, "note added", result)
}

func (h *StudentHandler) removeNote(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	noteID := strings.TrimSpace(c.Params("noteId"))
	if noteID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	result, err := h.service.RemoveNote(requestContext(c), activityActorFromContext(c), id, noteID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to remove note")
	}
	return utils.SendSuccess(c, "note removed", result)
}

func (h *StudentHandler) addMedal(c *fiber.Ctx) error {
	id, medalID, ok := h.studentAndMedal(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student or medal id")
	}

	result, err := h.service.AddMedal(requestContext(c), activityActorFromContext(c), id, medalID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to add medal")
	}
	return utils.SendSuccess(c, "medal added", result)
}

func (h *StudentHandler) removeMedal(c *fiber.Ctx) error {
	id, medalID, ok := h.studentAndMedal(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student or medal id")
	}

	result, err := h.service.RemoveMedal(requestContext(c), activityActorFromContext(c), id, medalID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to remove medal")
	}
	return utils.SendSuccess(c, "medal removed", result)
}

func (h *StudentHandler) studentAndMedal(c *fiber.Ctx) (int, int, bool) {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return 0, 0, false
	}
	medalID, err := parseIntParam(c, "medalId")
	if err != nil {
		return 0, 0, false
	}
	return id, medalID, true
}

func (h *StudentHandler) addCourse(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.EnrollmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AddCourse(requestContext(c), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to add course")
	}
	return utils.SendSuccess(c, "course added", result)
}

func (h *StudentHandler) removeCourse(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	courseID, err := parseIntParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	result, err := h.service.RemoveCourse(requestContext(c), activityActorFromContext(c), id, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to remove course")
	}
	return utils.SendSuccess(c, "course removed", result)
}

func (h *StudentHandler) assignApollonyar(c *fiber.Ctx) error {
	var payload dto.BulkApollonyarRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AssignApollonyar(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to assign apollonyar")
	}
	return utils.SendSuccess(c, "apollonyar assigned", result)
}

func (h *StudentHandler) assignGroup(c *fiber.Ctx) error {
	var payload dto.BulkGroupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AssignGroup(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to assign group")
	}
	return utils.SendSuccess(c, "group assigned", result)
}

func (h *StudentHandler) assignments(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	rows, err := h.service.Assignments(requestContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list assignments")
	}
	return utils.SendSuccess(c, "student assignments", rows)
}

func (h *StudentHandler) profileAssignments(c *fiber.Ctx) error {
	id, courseID, ok := h.studentAndCourse(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student or course id")
	}

	rows, err := h.service.ProfileAssignments(requestContext(c), id, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load course assignments")
	}
	return utils.SendSuccess(c, "course assignments", rows)
}

func (h *StudentHandler) profileCalls(c *fiber.Ctx) error {
	id, courseID, ok := h.studentAndCourse(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student or course id")
	}

	rows, err := h.service.ProfileCalls(requestContext(c), id, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load course calls")
	}
	return utils.SendSuccess(c, "course calls", rows)
}

func (h *StudentHandler) studentAndCourse(c *fiber.Ctx) (int, int, bool) {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return 0, 0, false
	}
	courseID, err := parseIntParam(c, "courseId")
	if err != nil {
		return 0, 0, false
	}
	return id, courseID, true
}
