package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/observability"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

const (
	changeBufferSize     = 32
	changePublishTimeout = 2 * time.Second
)

// ChangeFeed fans applied store mutations out to local subscribers and,
// when configured, to other nodes. NATS is used when connected, Redis
// pub/sub otherwise.
type ChangeFeed interface {
	// Observe is registered as a store observer.
	Observe(change store.Change)
	Subscribe() (<-chan dto.ChangeEvent, func())
	Start(ctx context.Context)
}

type changeFeed struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	broker       *changeBroker
	nodeID       string
}

type changeBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.ChangeEvent]struct{}
}

// NewChangeFeed constructs the change feed. channelBase names the Redis
// channel; its NATS subject replaces colons with dots.
func NewChangeFeed(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) ChangeFeed {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase
		subject = strings.ReplaceAll(channelBase, ":", ".")
	}

	return &changeFeed{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "change_feed").Logger(),
		broker: &changeBroker{
			subscribers: make(map[chan dto.ChangeEvent]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

func (f *changeFeed) Start(ctx context.Context) {
	switch {
	case f.nats != nil && f.natsSubject != "":
		go f.consumeNATS(ctx)
	case f.redis != nil && f.redisChannel != "":
		go f.consumeRedis(ctx)
	}
}

func (f *changeFeed) Observe(change store.Change) {
	event := dto.ChangeEvent{
		Source:     f.nodeID,
		Revision:   change.Revision,
		Action:     change.Action,
		EntityType: change.EntityType,
		EntityIDs:  append([]string{}, change.EntityIDs...),
		At:         change.At,
	}

	observability.StoreRevision().Set(float64(change.Revision))
	observability.ChangeEvents().WithLabelValues("local").Inc()
	f.broker.broadcast(event)

	ctx, cancel := context.WithTimeout(context.Background(), changePublishTimeout)
	defer cancel()
	if err := f.publish(ctx, event); err != nil {
		f.logger.Warn().Err(err).Str("action", change.Action).Msg("failed to publish change to broker")
	}
}

func (f *changeFeed) Subscribe() (<-chan dto.ChangeEvent, func()) {
	channel := make(chan dto.ChangeEvent, changeBufferSize)

	f.broker.subscribe(channel)
	observability.ChangeClientsActive().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			f.broker.unsubscribe(channel)
			observability.ChangeClientsActive().Dec()
		})
	}

	return channel, cleanup
}

func (f *changeFeed) publish(ctx context.Context, event dto.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	switch {
	case f.nats != nil && f.natsSubject != "":
		return f.nats.Publish(f.natsSubject, payload)
	case f.redis != nil && f.redisChannel != "":
		return f.redis.Publish(ctx, f.redisChannel, payload).Err()
	}
	return nil
}

func (f *changeFeed) consumeRedis(ctx context.Context) {
	pubsub := f.redis.Subscribe(ctx, f.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			f.logger.Error().Err(err).Msg("change feed redis subscription closed")
			return
		}
		f.handleEvent([]byte(msg.Payload))
	}
}

func (f *changeFeed) consumeNATS(ctx context.Context) {
	sub, err := f.nats.Subscribe(f.natsSubject, func(msg *nats.Msg) {
		f.handleEvent(msg.Data)
	})
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to subscribe to nats change subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			f.logger.Warn().Err(err).Msg("failed to drain change nats subscription")
		}
	}()
}

// handleEvent delivers a change made on another node, marked as remote. Events
// this node published itself are dropped.
func (f *changeFeed) handleEvent(payload []byte) {
	var event dto.ChangeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		f.logger.Warn().Err(err).Msg("invalid change event payload")
		return
	}

	if event.Source == f.nodeID {
		return
	}
	event.Remote = true

	observability.ChangeEvents().WithLabelValues("remote").Inc()
	f.broker.broadcast(event)
}

func (b *changeBroker) subscribe(ch chan dto.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = struct{}{}
}

func (b *changeBroker) unsubscribe(ch chan dto.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

func (b *changeBroker) broadcast(event dto.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
