package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T) (*ViewCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCache(client, time.Minute, testLogger()), mr
}

func keysFor(mr *miniredis.Miniredis, view string) []string {
	var out []string
	for _, key := range mr.Keys() {
		if strings.Contains(key, ":"+view+":") {
			out = append(out, key)
		}
	}
	return out
}

func TestCachedViewKeysFollowRevision(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	backend := newTestBackend(cache)
	catalog := NewCatalogService(backend.Backend, testLogger())
	students := NewStudentService(backend.Backend, testValidator(), "علی رضایی", testLogger())

	courses, err := catalog.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, 2, courses[0].TotalStudents)

	keys := keysFor(mr, "courses")
	require.Len(t, keys, 1)
	require.True(t, strings.HasSuffix(keys[0], ":r0"))
	require.True(t, strings.HasPrefix(keys[0], "crm:view:"))

	_, err = students.Remove(context.Background(), ActivityActor{ID: 1, Role: "admin"}, 2)
	require.NoError(t, err)

	courses, err = catalog.Courses(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, courses[0].TotalStudents)
	require.Len(t, keysFor(mr, "courses"), 2)
}

func TestCachedViewServesStoredValue(t *testing.T) {
	cache, mr := newMiniredisCache(t)

	calls := 0
	compute := func() []string {
		calls++
		return []string{"a", "b"}
	}

	first := cachedView(context.Background(), cache, "letters", 4, compute)
	second := cachedView(context.Background(), cache, "letters", 4, compute)
	require.Equal(t, []string{"a", "b"}, first)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	_ = cachedView(context.Background(), cache, "letters", 4, compute)
	require.Equal(t, 2, calls)
}

func TestCachedViewWithoutRedisComputes(t *testing.T) {
	calls := 0
	compute := func() int {
		calls++
		return 42
	}

	require.Equal(t, 42, cachedView(context.Background(), nil, "answer", 1, compute))
	require.Equal(t, 42, cachedView(context.Background(), NewViewCache(nil, 0, testLogger()), "answer", 1, compute))
	require.Equal(t, 2, calls)
}

func TestCachedViewSurvivesRedisOutage(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	mr.Close()

	value := cachedView(context.Background(), cache, "outage", 1, func() string { return "fresh" })
	require.Equal(t, "fresh", value)
}
