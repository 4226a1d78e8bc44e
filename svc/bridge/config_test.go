package bridge_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shokoauto/notifybridge/pkg/config"
	"github.com/shokoauto/notifybridge/svc/bridge"
)

func TestConfigLocale(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  bridge.Config
		want string
	}{
		{"discord language wins", bridge.Config{Language: "fr", FallbackLanguage: "de"}, "fr"},
		{"falls back to LANGUAGE", bridge.Config{FallbackLanguage: "de"}, "de"},
		{"defaults to en", bridge.Config{}, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.Locale())
		})
	}
}

func TestConfigTimeouts(t *testing.T) {
	t.Parallel()
	cfg := bridge.Config{StatusTimeout: time.Second, MissingTimeout: 2 * time.Second, SearchTimeout: 3 * time.Second}
	got := cfg.Timeouts()
	assert.Equal(t, time.Second, got.Status)
	assert.Equal(t, 2*time.Second, got.Missing)
	assert.Equal(t, 3*time.Second, got.Search)
	assert.Positive(t, got.Health)
}

func TestLocaleFromFile(t *testing.T) {
	t.Setenv("DISCORD_LANGUAGE", "")
	t.Setenv("LANGUAGE", "de")
	path := filepath.Join(t.TempDir(), ".env")

	got, err := bridge.LocaleFromFile(path)
	require.NoError(t, err, "a missing file leaves the process environment")
	assert.Equal(t, "de", got)

	require.NoError(t, os.WriteFile(path, []byte("DISCORD_LANGUAGE=fr\n"), 0o600))
	got, err = bridge.LocaleFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fr", got)

	require.NoError(t, os.WriteFile(path, []byte("LANGUAGE=es\n"), 0o600))
	got, err = bridge.LocaleFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "es", got, "file values override the process environment")
}

func TestLocaleFromFileUnreadable(t *testing.T) {
	t.Parallel()
	_, err := bridge.LocaleFromFile(t.TempDir())
	assert.ErrorIs(t, err, config.ErrEnvFile)
}

func TestLoadConfigFromEnv(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)
	t.Setenv("DISCORD_BOT_TOKEN", "secret")
	t.Setenv("DISCORD_ALLOWED_USER_IDS", "1, 2")
	t.Setenv("SEARCH_TIMEOUT", "2m")

	var cfg bridge.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "secret", cfg.BotToken)
	assert.Len(t, cfg.AllowedUserIDs, 2)
	assert.Equal(t, "http://localhost:8765", cfg.APIURL)
	assert.Equal(t, "127.0.0.1:8766", cfg.ListenAddr)
	assert.Equal(t, 2*time.Minute, cfg.SearchTimeout)
	assert.Equal(t, 1<<20, cfg.MaxFrameBytes)
	assert.Equal(t, 5, cfg.BreakerFailures)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "notifybridge:notifications", cfg.Redis.Channel)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)
	t.Setenv("DISCORD_BOT_TOKEN", "")

	var cfg bridge.Config
	require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
}
