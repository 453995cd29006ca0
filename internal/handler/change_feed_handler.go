package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/service"
)

// ConnectedAction is the action of the first frame sent on a new change feed
// connection. Its revision is the store revision at connect time.
const ConnectedAction = "feed.connected"

const changeWriteTimeout = 5 * time.Second

// ChangeFeedHandler streams store changes over a websocket.
type ChangeFeedHandler struct {
	feed     service.ChangeFeed
	revision func() uint64
	logger   zerolog.Logger
}

// NewChangeFeedHandler constructs the change feed handler.
func NewChangeFeedHandler(feed service.ChangeFeed, revision func() uint64, logger zerolog.Logger) *ChangeFeedHandler {
	return &ChangeFeedHandler{
		feed:     feed,
		revision: revision,
		logger:   logger.With().Str("component", "change_feed_handler").Logger(),
	}
}

// Register binds the websocket upgrade under the /changes group.
func (h *ChangeFeedHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *ChangeFeedHandler) handleConnection(conn *websocket.Conn) {
	events, cancel := h.feed.Subscribe()
	defer cancel()

	logger := h.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Info().Msg("change feed connected")
	defer logger.Info().Msg("change feed disconnected")

	hello := dto.ChangeEvent{Action: ConnectedAction, At: time.Now().UTC()}
	if h.revision != nil {
		hello.Revision = h.revision()
	}
	if err := h.write(conn, hello); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, event); err != nil {
				logger.Debug().Err(err).Msg("change feed write failed")
				return
			}
		}
	}
}

func (h *ChangeFeedHandler) write(conn *websocket.Conn, event dto.ChangeEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(changeWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(event)
}
