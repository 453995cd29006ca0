package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
)

// CatalogService serves the read-only table screens and the dashboard.
type CatalogService interface {
	Dashboard(ctx context.Context) (dto.Dashboard, error)
	Assignments(ctx context.Context) ([]dto.AssignmentRow, error)
	Calls(ctx context.Context) ([]dto.CallRow, error)
	Groups(ctx context.Context) ([]dto.GroupRow, error)
	Courses(ctx context.Context) ([]dto.CourseRow, error)
	Terms(ctx context.Context) ([]dto.TermRow, error)
	Apollonyars(ctx context.Context) ([]dto.ApollonyarRow, error)
	Medals(ctx context.Context) ([]dto.MedalRow, error)
}

type catalogService struct {
	crmBackend
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(backend Backend, logger zerolog.Logger) CatalogService {
	return &catalogService{
		crmBackend: newCRMBackend(backend, logger.With().Str("component", "catalog_service").Logger(), "catalog"),
	}
}

func (s *catalogService) Dashboard(ctx context.Context) (dto.Dashboard, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "dashboard", snap.Revision, func() dto.Dashboard {
		return s.Views.Dashboard(snap)
	}), nil
}

func (s *catalogService) Assignments(ctx context.Context) ([]dto.AssignmentRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "assignments", snap.Revision, func() []dto.AssignmentRow {
		return s.Views.Assignments(snap)
	}), nil
}

func (s *catalogService) Calls(ctx context.Context) ([]dto.CallRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "calls", snap.Revision, func() []dto.CallRow {
		return s.Views.Calls(snap)
	}), nil
}

func (s *catalogService) Groups(ctx context.Context) ([]dto.GroupRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "groups", snap.Revision, func() []dto.GroupRow {
		return s.Views.Groups(snap)
	}), nil
}

func (s *catalogService) Courses(ctx context.Context) ([]dto.CourseRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "courses", snap.Revision, func() []dto.CourseRow {
		return s.Views.Courses(snap)
	}), nil
}

func (s *catalogService) Terms(ctx context.Context) ([]dto.TermRow, error) {
	snap := s.snapshot()
	return cachedView(ctx, s.Cache, "terms", snap.Revision, func() []dto.TermRow {
		return s.Views.Terms(snap)
	}), nil
}

// Apollonyars and Medals carry placeholder values, so they are recomputed on
// every read.
func (s *catalogService) Apollonyars(ctx context.Context) ([]dto.ApollonyarRow, error) {
	return timedView("apollonyars", func() []dto.ApollonyarRow {
		return s.Views.Apollonyars(s.snapshot())
	}), nil
}

func (s *catalogService) Medals(ctx context.Context) ([]dto.MedalRow, error) {
	return timedView("medals", func() []dto.MedalRow {
		return s.Views.Medals(s.snapshot())
	}), nil
}
