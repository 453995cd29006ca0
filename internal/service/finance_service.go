package service

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

// FinanceService covers installments, payment history and transactions.
type FinanceService interface {
	Installments(ctx context.Context) ([]dto.InstallmentRow, error)
	Transactions(ctx context.Context) ([]dto.TransactionRow, error)
	Payments(ctx context.Context, studentID int) ([]dto.Payment, error)

	ReplaceInstallments(ctx context.Context, actor ActivityActor, studentID int, payload dto.InstallmentsRequest) (dto.InstallmentsResult, error)
	UpdateTransactionStatus(ctx context.Context, actor ActivityActor, transactionID string, payload dto.TransactionStatusRequest) (dto.TransactionResult, error)
	AddTransactionNote(ctx context.Context, actor ActivityActor, transactionID string, payload dto.NoteRequest) (dto.TransactionResult, error)
}

type financeService struct {
	crmBackend
	validator *validator.Validate
	author    string
}

// NewFinanceService constructs the finance service. author signs the notes
// written on transactions.
func NewFinanceService(backend Backend, validate *validator.Validate, author string, logger zerolog.Logger) FinanceService {
	return &financeService{
		crmBackend: newCRMBackend(backend, logger.With().Str("component", "finance_service").Logger(), "finance"),
		validator:  validate,
		author:     author,
	}
}

func (s *financeService) Installments(ctx context.Context) ([]dto.InstallmentRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "installments", snap.Revision, func() []dto.InstallmentRow {
		return s.Views.Installments(snap)
	}), nil
}

func (s *financeService) Transactions(ctx context.Context) ([]dto.TransactionRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "transactions", snap.Revision, func() []dto.TransactionRow {
		return s.Views.Transactions(snap)
	}), nil
}

func (s *financeService) Payments(ctx context.Context, studentID int) ([]dto.Payment, error) {
	snap := s.snapshot()
	if _, ok := store.BuildIndices(snap.Dataset).Student(studentID); !ok {
		return nil, ErrStudentNotFound
	}
	return s.Views.PaymentsForStudent(snap, studentID), nil
}

func (s *financeService) ReplaceInstallments(ctx context.Context, actor ActivityActor, studentID int, payload dto.InstallmentsRequest) (dto.InstallmentsResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InstallmentsResult{}, err
	}

	metadata := map[string]interface{}{"installments": len(payload.Installments)}
	if payload.TotalCourseFee != nil {
		metadata["total_course_fee"] = *payload.TotalCourseFee
	}
	m := mutation{
		action:     store.ActionInstallmentsUpdated,
		entityType: "student",
		entityID:   strconv.Itoa(studentID),
		metadata:   metadata,
	}
	applied := s.mutate(ctx, actor, m, func() (store.Change, bool) {
		return s.Store.UpdateStudentInstallments(studentID, payload.Models(), payload.TotalCourseFee)
	})

	return dto.InstallmentsResult{
		Applied:  applied,
		Payments: s.Views.PaymentsForStudent(s.snapshot(), studentID),
	}, nil
}

func (s *financeService) UpdateTransactionStatus(ctx context.Context, actor ActivityActor, transactionID string, payload dto.TransactionStatusRequest) (dto.TransactionResult, error) {
	payload.Status = s.clean(payload.Status)
	if err := s.validator.Struct(payload); err != nil {
		return dto.TransactionResult{}, err
	}

	m := mutation{
		action:     store.ActionTransactionStatus,
		entityType: "transaction",
		entityID:   transactionID,
		metadata:   map[string]interface{}{"status": payload.Status},
	}
	applied := s.mutate(ctx, actor, m, func() (store.Change, bool) {
		return s.Store.UpdateTransactionStatus(transactionID, payload.Status, s.author)
	})
	return s.result(applied, transactionID), nil
}

func (s *financeService) AddTransactionNote(ctx context.Context, actor ActivityActor, transactionID string, payload dto.NoteRequest) (dto.TransactionResult, error) {
	payload.Text = s.clean(payload.Text)
	if err := s.validator.Struct(payload); err != nil {
		return dto.TransactionResult{}, err
	}

	m := mutation{
		action:     store.ActionTransactionNote,
		entityType: "transaction",
		entityID:   transactionID,
		metadata:   map[string]interface{}{"length": len([]rune(payload.Text))},
	}
	applied := s.mutate(ctx, actor, m, func() (store.Change, bool) {
		return s.Store.AddTransactionNote(transactionID, payload.Text, s.author)
	})
	return s.result(applied, transactionID), nil
}

func (s *financeService) result(applied bool, transactionID string) dto.TransactionResult {
	result := dto.TransactionResult{Applied: applied}
	for _, row := range s.Views.Transactions(s.snapshot()) {
		if row.ID == transactionID {
			row := row
			result.Transaction = &row
			break
		}
	}
	return result
}
