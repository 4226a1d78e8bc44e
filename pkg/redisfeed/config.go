package redisfeed

import "time"

// Config describes the optional Redis pub/sub ingress.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                                   // ConnectionURL in the format "redis://:password@localhost:6379/0". Empty disables the feed.
	Channel        string        `env:"REDIS_CHANNEL" envDefault:"notifybridge:notifications"`      // Channel is the pub/sub channel carrying one JSON record per message.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1"`       // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`                       // RetryInterval is the delay between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" validate:"gt=0"`     // ConnectTimeout bounds the whole connection phase.
}

// Enabled reports whether a connection URL was configured.
func (c Config) Enabled() bool { return c.ConnectionURL != "" }
