package handler

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/service"
	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// DatasetHandler exposes the admin dataset reload.
type DatasetHandler struct {
	service service.DatasetService
	logger  zerolog.Logger
}

// NewDatasetHandler constructs a dataset handler.
func NewDatasetHandler(service service.DatasetService, logger zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{
		service: service,
		logger:  logger.With().Str("component", "dataset_handler").Logger(),
	}
}

// Register wires dataset routes.
func (h *DatasetHandler) Register(router fiber.Router) {
	router.Post("/dataset", h.reload)
}

// reload accepts the dataset either as the raw request body or as a
// multipart "file" field.
func (h *DatasetHandler) reload(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")

	body := c.Body()
	if file, err := c.FormFile("file"); err == nil {
		handle, openErr := file.Open()
		if openErr != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid upload")
		}
		defer handle.Close()

		response, reloadErr := h.service.Reload(requestContext(c), activityActorFromContext(c), token, handle)
		if reloadErr != nil {
			return h.reloadError(c, reloadErr)
		}
		return utils.SendSuccess(c, "dataset reloaded", response)
	}

	if len(body) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "dataset body required")
	}

	response, err := h.service.Reload(requestContext(c), activityActorFromContext(c), token, bytes.NewReader(body))
	if err != nil {
		return h.reloadError(c, err)
	}
	return utils.SendSuccess(c, "dataset reloaded", response)
}

func (h *DatasetHandler) reloadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "dataset reload disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case errors.Is(err, service.ErrDatasetTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrDatasetTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	default:
		requestLogger(h.logger, c).Warn().Err(err).Msg("dataset rejected")
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
}
