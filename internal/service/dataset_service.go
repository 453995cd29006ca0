package service

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

var (
	// ErrSeedDisabled indicates dataset reloads are disabled by configuration.
	ErrSeedDisabled = errors.New("dataset reload is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrDatasetTypeNotAllowed indicates the upload is not a JSON document.
	ErrDatasetTypeNotAllowed = errors.New("dataset must be a JSON document")
	// ErrDatasetTooLarge indicates the upload exceeded the configured limit.
	ErrDatasetTooLarge = errors.New("dataset exceeds maximum allowed size")
)

// DatasetService swaps the in-memory dataset for an uploaded one.
type DatasetService interface {
	Reload(ctx context.Context, actor ActivityActor, token string, body io.Reader) (dto.DatasetReloadResponse, error)
}

type datasetService struct {
	crmBackend
	enabled bool
	token   string
	maxSize int64
}

// NewDatasetService constructs the dataset reload service.
func NewDatasetService(backend Backend, enabled bool, token string, maxSizeMB int, logger zerolog.Logger) DatasetService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &datasetService{
		crmBackend: newCRMBackend(backend, logger.With().Str("component", "dataset_service").Logger(), "dataset"),
		enabled:    enabled,
		token:      token,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
	}
}

// Reload validates the uploaded document and installs it. Errors wrapping a
// decode failure mean the document was rejected.
func (s *datasetService) Reload(ctx context.Context, actor ActivityActor, token string, body io.Reader) (dto.DatasetReloadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.reload")
	defer span.End()

	if !s.enabled {
		return dto.DatasetReloadResponse{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		span.SetStatus(codes.Error, "unauthorized")
		return dto.DatasetReloadResponse{}, ErrSeedUnauthorized
	}

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(body, s.maxSize+1)); err != nil {
		return dto.DatasetReloadResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrDatasetTooLarge)
		return dto.DatasetReloadResponse{}, ErrDatasetTooLarge
	}

	contentType := normalizeMime(mimetype.Detect(buf.Bytes()).String())
	span.SetAttributes(attribute.String("dataset.detected_mime", contentType))
	if contentType != "application/json" && contentType != "text/plain" {
		span.RecordError(ErrDatasetTypeNotAllowed)
		return dto.DatasetReloadResponse{}, ErrDatasetTypeNotAllowed
	}

	dataset, err := store.Decode(buf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid dataset")
		return dto.DatasetReloadResponse{}, err
	}

	var replaced store.Change
	s.mutate(ctx, actor, mutation{action: "dataset.replaced", entityType: "dataset", metadata: map[string]interface{}{
		"students": len(dataset.Students),
		"bytes":    buf.Len(),
	}}, func() (store.Change, bool) {
		replaced = s.Store.Replace(dataset)
		return replaced, true
	})

	response := dto.DatasetReloadResponse{
		Revision:     replaced.Revision,
		ContentType:  contentType,
		Students:     len(dataset.Students),
		Courses:      len(dataset.Courses),
		Terms:        len(dataset.Terms),
		Installments: len(dataset.Installments),
		Transactions: len(dataset.Transactions),
	}
	s.logger.Info().Uint64("revision", response.Revision).Int("students", response.Students).Msg("dataset reloaded")
	return response, nil
}

func (s *datasetService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func normalizeMime(value string) string {
	base, _, _ := strings.Cut(value, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
