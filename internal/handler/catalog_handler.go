package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/service"
	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// CatalogHandler serves the dashboard and the read-only table screens.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires the table routes on the API root.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Get("/assignments", h.assignments)
	router.Get("/calls", h.calls)
	router.Get("/groups", h.groups)
	router.Get("/courses", h.courses)
	router.Get("/terms", h.terms)
	router.Get("/apollonyars", h.apollonyars)
	router.Get("/medals", h.medals)
}

func (h *CatalogHandler) dashboard(c *fiber.Ctx) error {
	summary, err := h.service.Dashboard(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dashboard")
	}
	return utils.SendSuccess(c, "dashboard", summary)
}

func (h *CatalogHandler) assignments(c *fiber.Ctx) error {
	rows, err := h.service.Assignments(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list assignments")
	}
	return utils.SendSuccess(c, "assignments", rows)
}

func (h *CatalogHandler) calls(c *fiber.Ctx) error {
	rows, err := h.service.Calls(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list calls")
	}
	return utils.SendSuccess(c, "calls", rows)
}

func (h *CatalogHandler) groups(c *fiber.Ctx) error {
	rows, err := h.service.Groups(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list groups")
	}
	return utils.SendSuccess(c, "groups", rows)
}

func (h *CatalogHandler) courses(c *fiber.Ctx) error {
	rows, err := h.service.Courses(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list courses")
	}
	return utils.SendSuccess(c, "courses", rows)
}

func (h *CatalogHandler) terms(c *fiber.Ctx) error {
	rows, err := h.service.Terms(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list terms")
	}
	return utils.SendSuccess(c, "terms", rows)
}

func (h *CatalogHandler) apollonyars(c *fiber.Ctx) error {
	rows, err := h.service.Apollonyars(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list apollonyars")
	}
	return utils.SendSuccess(c, "apollonyars", rows)
}

func (h *CatalogHandler) medals(c *fiber.Ctx) error {
	rows, err := h.service.Medals(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list medals")
	}
	return utils.SendSuccess(c, "medals", rows)
}
