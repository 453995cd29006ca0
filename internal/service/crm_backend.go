package service

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/rayan-crm-api/internal/observability"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/internal/views"
)

// Backend bundles what the CRM services share: the store, the view builder,
// the view cache and the audit trail.
type Backend struct {
	Store    *store.Store
	Views    *views.Views
	Cache    *ViewCache
	Activity ActivityRecorder
}

const maxCleanPasses = 4

type mutation struct {
	action     string
	entityType string
	entityID   string
	metadata   map[string]interface{}
}

type crmBackend struct {
	Backend
	logger    zerolog.Logger
	tracer    trace.Tracer
	sanitizer *bluemonday.Policy
}

func newCRMBackend(backend Backend, logger zerolog.Logger, tracerName string) crmBackend {
	return crmBackend{
		Backend:   backend,
		logger:    logger,
		tracer:    otel.Tracer("github.com/noah-isme/rayan-crm-api/internal/service/" + tracerName),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// mutate runs fn inside a span and records an activity entry when fn reports
// that the store changed. The entry carries the revision of the change fn
// applied, and takes its entity id from that change when m names none. Audit
// failures are logged and never fail the call.
func (b crmBackend) mutate(ctx context.Context, actor ActivityActor, m mutation, fn func() (store.Change, bool)) bool {
	attrs := []attribute.KeyValue{
		attribute.String("crm.action", m.action),
		attribute.String("crm.entity_type", m.entityType),
		attribute.String("crm.entity_id", m.entityID),
	}
	spanCtx, span := b.tracer.Start(ctx, "store."+m.action, trace.WithAttributes(attrs...))
	defer span.End()

	change, applied := fn()
	span.SetAttributes(attribute.Bool("crm.applied", applied))
	observability.StoreMutations().WithLabelValues(m.action, strconv.FormatBool(applied)).Inc()
	if !applied {
		b.logger.Debug().Str("action", m.action).Str("entity_id", m.entityID).Msg("mutation changed nothing")
		return false
	}

	if m.entityID == "" && len(change.EntityIDs) == 1 {
		m.entityID = change.EntityIDs[0]
		span.SetAttributes(attribute.String("crm.entity_id", m.entityID))
	}
	span.SetAttributes(attribute.Int64("crm.revision", int64(change.Revision)))

	if b.Activity != nil {
		_, err := b.Activity.Record(spanCtx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     m.action,
			EntityType: m.entityType,
			EntityID:   m.entityID,
			Revision:   change.Revision,
			Metadata:   m.metadata,
		})
		if err != nil {
			span.RecordError(err)
			b.logger.Warn().Err(err).Str("action", m.action).Msg("failed to record activity")
		}
	}
	return true
}

// clean strips markup from user supplied text. The sanitizer escapes what it
// keeps, so entities are decoded again and stored values stay plain text.
// Decoding can surface markup that was sent entity-encoded, hence the repeat
// until the value is stable.
func (b crmBackend) clean(value string) string {
	out := value
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(b.sanitizer.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

func (b crmBackend) snapshot() store.Snapshot {
	return b.Store.Snapshot()
}
