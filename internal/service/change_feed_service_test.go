package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/store"
)

func receiveEvent(t *testing.T, events <-chan dto.ChangeEvent) dto.ChangeEvent {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
		return dto.ChangeEvent{}
	}
}

func TestChangeFeedLocalFanOut(t *testing.T) {
	feed := NewChangeFeed(nil, "", nil, testLogger())

	first, cancelFirst := feed.Subscribe()
	second, cancelSecond := feed.Subscribe()
	defer cancelSecond()

	at := time.Date(2025, time.September, 23, 9, 0, 0, 0, time.UTC)
	feed.Observe(store.Change{Revision: 3, Action: store.ActionStudentRemoved, EntityType: "student", EntityIDs: []string{"4"}, At: at})

	event := receiveEvent(t, first)
	require.Equal(t, uint64(3), event.Revision)
	require.Equal(t, []string{"4"}, event.EntityIDs)
	require.Equal(t, at, event.At)
	require.Equal(t, event, receiveEvent(t, second))

	cancelFirst()
	cancelFirst()
	_, open := <-first
	require.False(t, open)
}

func TestChangeFeedSlowSubscriberDoesNotBlock(t *testing.T) {
	feed := NewChangeFeed(nil, "", nil, testLogger())
	events, cancel := feed.Subscribe()
	defer cancel()

	for i := 0; i < changeBufferSize*2; i++ {
		feed.Observe(store.Change{Revision: uint64(i + 1), Action: "noop"})
	}
	require.Len(t, events, changeBufferSize)
}

func TestChangeFeedRedisDeliversRemoteEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	newClient := func() *redis.Client {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	origin := NewChangeFeed(newClient(), "rayan:changes", nil, testLogger())
	remote := NewChangeFeed(newClient(), "rayan:changes", nil, testLogger())
	origin.Start(ctx)
	remote.Start(ctx)

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub("rayan:changes")["rayan:changes"] == 2
	}, 2*time.Second, 10*time.Millisecond)

	originEvents, cancelOrigin := origin.Subscribe()
	defer cancelOrigin()
	remoteEvents, cancelRemote := remote.Subscribe()
	defer cancelRemote()

	origin.Observe(store.Change{Revision: 1, Action: store.ActionMedalAdded, EntityType: "student", EntityIDs: []string{"1"}})

	relayed := receiveEvent(t, remoteEvents)
	require.Equal(t, store.ActionMedalAdded, relayed.Action)
	require.True(t, relayed.Remote)
	require.Equal(t, uint64(1), relayed.Revision)
	require.NotEmpty(t, relayed.Source)

	local := receiveEvent(t, originEvents)
	require.Equal(t, uint64(1), local.Revision)
	require.False(t, local.Remote)
	require.Equal(t, relayed.Source, local.Source)

	select {
	case event := <-originEvents:
		t.Fatalf("origin received its own event twice: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}
