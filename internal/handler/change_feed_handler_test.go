package handler_test

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/handler"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

func listen(t *testing.T, h *harness) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		if err := h.app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("listener stopped: %v", err)
		}
	}()
	t.Cleanup(func() { _ = h.app.Shutdown() })

	return "ws://" + listener.Addr().String()
}

func TestChangeFeedWebsocketStreamsMutations(t *testing.T) {
	h := newHarness(t)
	base := listen(t, h)

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}
	conn, resp, err := dialer.Dial(base+"/api/v1/changes/ws", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var hello dto.ChangeEvent
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, handler.ConnectedAction, hello.Action)
	require.Equal(t, uint64(0), hello.Revision)

	_, applied := h.store.AddMedalToStudent(2, 1)
	require.True(t, applied)

	var event dto.ChangeEvent
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, store.ActionMedalAdded, event.Action)
	require.Equal(t, uint64(1), event.Revision)
	require.Equal(t, []string{"2"}, event.EntityIDs)
	require.Equal(t, "student", event.EntityType)
}

func TestChangeFeedRequiresUpgrade(t *testing.T) {
	h := newHarness(t)

	resp, err := h.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/changes/ws", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
