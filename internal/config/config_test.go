package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Rayan CRM API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "data/db.json", cfg.DatasetPath)
	require.Equal(t, 30*time.Second, cfg.ViewCacheTTL)
	require.Equal(t, "rayan:changes", cfg.ChangesChannel)
	require.Equal(t, "علی رضایی", cfg.NoteAuthor)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.False(t, cfg.SeedEnabled)
	require.NotZero(t, cfg.PlaceholderSeed)
	require.Equal(t, "*", cfg.AllowOrigins)
	require.False(t, cfg.AccessLog)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RAYAN_APP_PORT", ":9090")
	t.Setenv("RAYAN_VIEW_CACHE_TTL", "5s")
	t.Setenv("RAYAN_SEED_ENABLED", "true")
	t.Setenv("RAYAN_SEED_TOKEN", "secret")
	t.Setenv("RAYAN_PLACEHOLDERS_SEED", "42")
	t.Setenv("RAYAN_HTTP_ACCESS_LOG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 5*time.Second, cfg.ViewCacheTTL)
	require.True(t, cfg.SeedEnabled)
	require.Equal(t, int64(42), cfg.PlaceholderSeed)
	require.True(t, cfg.AccessLog)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RAYAN_VIEW_CACHE_TTL", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("RAYAN_VIEW_CACHE_TTL", "")
	t.Setenv("RAYAN_SEED_ENABLED", "true")
	_, err = Load()
	require.Error(t, err)
}

func TestLocationFallsBackToLocal(t *testing.T) {
	require.Equal(t, time.Local, Config{Timezone: "Mars/Olympus"}.Location())
	require.Equal(t, time.UTC, Config{Timezone: "UTC"}.Location())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
