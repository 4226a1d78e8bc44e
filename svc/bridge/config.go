package bridge

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/shokoauto/notifybridge/pkg/config"
	"github.com/shokoauto/notifybridge/pkg/controlapi"
	"github.com/shokoauto/notifybridge/pkg/redisfeed"
)

// Config is the process configuration, read from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`

	BotToken       string   `env:"DISCORD_BOT_TOKEN,required,notEmpty" validate:"required"`
	AllowedUserIDs []string `env:"DISCORD_ALLOWED_USER_IDS" envSeparator:","`
	ChannelID      string   `env:"DISCORD_CHANNEL_ID"`

	Language         string `env:"DISCORD_LANGUAGE"`
	FallbackLanguage string `env:"LANGUAGE"`
	LocalesDir       string `env:"LOCALES_DIR"` // empty uses the bundled catalogs

	APIURL         string        `env:"INTERNAL_API_URL" envDefault:"http://localhost:8765" validate:"required,url"`
	StatusTimeout  time.Duration `env:"STATUS_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	MissingTimeout time.Duration `env:"MISSING_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	SearchTimeout  time.Duration `env:"SEARCH_TIMEOUT" envDefault:"300s" validate:"gt=0"`

	BreakerFailures int           `env:"API_BREAKER_FAILURES" envDefault:"5" validate:"gte=0"` // 0 disables the breaker
	BreakerRecovery time.Duration `env:"API_BREAKER_RECOVERY" envDefault:"30s" validate:"gt=0"`

	ListenAddr    string `env:"NOTIFY_LISTEN_ADDR" envDefault:"127.0.0.1:8766" validate:"required,hostname_port"`
	MaxFrameBytes int    `env:"NOTIFY_MAX_FRAME_BYTES" envDefault:"1048576" validate:"gt=0"`

	OpsAddr string `env:"OPS_ADDR" validate:"omitempty,hostname_port"` // empty disables the ops server

	SendTimeout     time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	Redis redisfeed.Config
}

// Locale returns DISCORD_LANGUAGE, then LANGUAGE, then "en".
func (c Config) Locale() string {
	switch {
	case c.Language != "":
		return c.Language
	case c.FallbackLanguage != "":
		return c.FallbackLanguage
	}
	return "en"
}

// Timeouts returns the per-endpoint control API timeouts.
func (c Config) Timeouts() controlapi.Timeouts {
	t := controlapi.DefaultTimeouts()
	t.Status = c.StatusTimeout
	t.Missing = c.MissingTimeout
	t.Search = c.SearchTimeout
	return t
}

type languageEnv struct {
	Language         string `env:"DISCORD_LANGUAGE"`
	FallbackLanguage string `env:"LANGUAGE"`
}

// DefaultEnvFile is the env file read when no --env-file is given.
const DefaultEnvFile = ".env"

// LocaleFromFile reads the language variables from the env file at path,
// falling back to the process environment for variables the file does not
// set. The file is read on every call so edits apply without a restart.
// A missing file leaves only the process environment.
func LocaleFromFile(path string) (string, error) {
	vars := env.ToMap(os.Environ())
	fileVars, err := godotenv.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", errors.Join(config.ErrEnvFile, err)
	default:
		maps.Copy(vars, fileVars)
	}

	l, err := env.ParseAsWithOptions[languageEnv](env.Options{Environment: vars})
	if err != nil {
		return "", err
	}
	return Config{Language: l.Language, FallbackLanguage: l.FallbackLanguage}.Locale(), nil
}
