package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/service"
	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// FinanceHandler exposes installments, payments and transactions.
type FinanceHandler struct {
	service service.FinanceService
	logger  zerolog.Logger
}

// NewFinanceHandler constructs a finance handler.
func NewFinanceHandler(service service.FinanceService, logger zerolog.Logger) *FinanceHandler {
	return &FinanceHandler{
		service: service,
		logger:  logger.With().Str("component", "finance_handler").Logger(),
	}
}

// Register wires finance routes on the API root.
func (h *FinanceHandler) Register(router fiber.Router) {
	router.Get("/installments", h.installments)
	router.Get("/transactions", h.transactions)
	router.Patch("/transactions/:id/status", h.updateStatus)
	router.Post("/transactions/:id/notes", h.addNote)
	router.Get("/students/:id/payments", h.payments)
	router.Put("/students/:id/installments", h.replaceInstallments)
}

func (h *FinanceHandler) installments(c *fiber.Ctx) error {
	rows, err := h.service.Installments(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list installments")
	}
	return utils.SendSuccess(c, "installments", rows)
}

func (h *FinanceHandler) transactions(c *fiber.Ctx) error {
	rows, err := h.service.Transactions(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list transactions")
	}
	return utils.SendSuccess(c, "transactions", rows)
}

func (h *FinanceHandler) payments(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	payments, err := h.service.Payments(requestContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load payments")
	}
	return utils.SendSuccess(c, "payments", payments)
}

func (h *FinanceHandler) replaceInstallments(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.InstallmentsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.ReplaceInstallments(requestContext(c), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to replace installments")
	}
	return utils.SendSuccess(c, "installments replaced", result)
}

func (h *FinanceHandler) updateStatus(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid transaction id")
	}

	var payload dto.TransactionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.UpdateTransactionStatus(requestContext(c), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update transaction")
	}
	return utils.SendSuccess(c, "transaction status updated", result)
}

func (h *FinanceHandler) addNote(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid transaction id")
	}

	var payload dto.NoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AddTransactionNote(requestContext(c), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to add transaction note")
	}
	return utils.SendSuccess(c, "transaction note added", result)
}
