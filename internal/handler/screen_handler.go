package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rayan-crm-api/internal/screens"
	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// ScreenHandler publishes the panel's screen table.
type ScreenHandler struct{}

// NewScreenHandler constructs a screen handler.
func NewScreenHandler() *ScreenHandler {
	return &ScreenHandler{}
}

// Register wires screen routes under the /screens group.
func (h *ScreenHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/resolve", h.resolve)
}

func (h *ScreenHandler) list(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "screens", screens.All())
}

func (h *ScreenHandler) resolve(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "path required")
	}

	match, ok := screens.Resolve(path)
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "screen not found")
	}
	return utils.SendSuccess(c, "screen", match)
}
