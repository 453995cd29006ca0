package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
)

func TestFinanceHandlerInstallments(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPut, "/api/v1/students/1/installments", map[string]interface{}{
		"installments": []map[string]interface{}{
			{"amount": 700, "dueDate": "1404/08/01"},
		},
		"totalCourseFee": 1200,
	})
	require.Equal(t, fiber.StatusOK, status)
	result := decode[dto.InstallmentsResult](t, body.Data)
	require.True(t, result.Applied)
	require.Len(t, result.Payments, 2)
	require.Equal(t, int64(700), result.Payments[0].Amount)

	status, body = h.do(t, http.MethodGet, "/api/v1/installments", nil)
	require.Equal(t, fiber.StatusOK, status)
	rows := decode[[]dto.InstallmentRow](t, body.Data)
	require.Len(t, rows, 2)
	require.Equal(t, "سارا احمدی", rows[1].StudentName)

	status, _ = h.do(t, http.MethodPut, "/api/v1/students/1/installments", map[string]interface{}{
		"installments": []map[string]interface{}{{"amount": -5, "dueDate": "1404/08/01"}},
	})
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestFinanceHandlerPayments(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/v1/students/1/payments", nil)
	require.Equal(t, fiber.StatusOK, status)
	payments := decode[[]dto.Payment](t, body.Data)
	require.Len(t, payments, 1)
	require.Equal(t, "نقدی (یکجا)", payments[0].Method)

	status, _ = h.do(t, http.MethodGet, "/api/v1/students/404/payments", nil)
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestFinanceHandlerTransactions(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPatch, "/api/v1/transactions/t1/status", map[string]string{"status": "تایید شده"})
	require.Equal(t, fiber.StatusOK, status)
	result := decode[dto.TransactionResult](t, body.Data)
	require.True(t, result.Applied)
	require.Equal(t, "تایید شده", result.Transaction.Status)

	status, body = h.do(t, http.MethodPost, "/api/v1/transactions/missing/notes", map[string]string{"text": "سلام"})
	require.Equal(t, fiber.StatusOK, status)
	require.False(t, decode[dto.TransactionResult](t, body.Data).Applied)

	status, _ = h.do(t, http.MethodPatch, "/api/v1/transactions/t1/status", map[string]string{"status": ""})
	require.Equal(t, fiber.StatusBadRequest, status)

	status, body = h.do(t, http.MethodGet, "/api/v1/transactions", nil)
	require.Equal(t, fiber.StatusOK, status)
	rows := decode[[]dto.TransactionRow](t, body.Data)
	require.Len(t, rows[0].Notes, 1)
}
