// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`, and
// validates the parsed struct with `github.com/go-playground/validator/v10`:
//
//   - The default `.env` in the working directory is read once when present;
//     LoadFile reads additional files named on the command line.
//   - Load parses the environment into any struct using `env` tags, then
//     applies the struct's `validate` tags.
//   - Each loaded configuration type is cached for the lifetime of the
//     process; ResetCache clears the cache in tests.
//
// # Usage
//
//	type Config struct {
//		ListenAddr   string        `env:"NOTIFY_LISTEN_ADDR" envDefault:"127.0.0.1:8766"`
//		StatusTimeout time.Duration `env:"STATUS_TIMEOUT" envDefault:"5s" validate:"gt=0"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// # Errors
//
// ErrParsingConfig wraps env parsing failures such as a missing `required`
// variable; ErrInvalidConfig wraps validation failures. Both are joined with
// the underlying error so callers can match with errors.Is.
package config
