package config

import (
	"time"
)

type DB struct {
	Url            string `envconfig:"URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"infra/migrations"`
	AutoMigrate    bool   `envconfig:"AUTO_MIGRATE" default:"true"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
	// PasswordCost is the bcrypt cost for new password hashes.
	PasswordCost int `envconfig:"PASSWORD_COST" default:"12"`
}

type Redis struct {
	URL       string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" default:"eaglebank:"`
	LockTTL   time.Duration `envconfig:"LOCK_TTL" default:"10s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Kafka struct {
	Brokers       string `envconfig:"BROKERS"`
	TopicPrefix   string `envconfig:"TOPIC_PREFIX" default:"eaglebank.events"`
	GroupID       string `envconfig:"GROUP_ID" default:"eaglebank"`
	SASLUsername  string `envconfig:"SASL_USERNAME"`
	SASLPassword  string `envconfig:"SASL_PASSWORD"`
	TLSEnabled    bool   `envconfig:"TLS_ENABLED" default:"false"`
	TLSSkipVerify bool   `envconfig:"TLS_SKIP_VERIFY" default:"false"`
}

// EventBus selects where domain events go. Driver is one of memory, kafka or
// redis.
type EventBus struct {
	Driver       string `envconfig:"DRIVER" default:"memory"`
	RedisURL     string `envconfig:"REDIS_URL"`
	StreamPrefix string `envconfig:"STREAM_PREFIX" default:"eaglebank.events"`
	Kafka        *Kafka `envconfig:"KAFKA"`
}

// Lock selects the per-account lock. Driver is memory or redis.
type Lock struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
}

// Ledger tunes the money movement path.
type Ledger struct {
	// MaxRetries bounds how often a deposit or withdrawal is retried after
	// losing an optimistic concurrency race.
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
	// AccountNumberAttempts bounds account number generation on collision.
	AccountNumberAttempts int `envconfig:"ACCOUNT_NUMBER_ATTEMPTS" default:"5"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[eaglebank]"`
	HTTPAccess bool   `envconfig:"HTTP_ACCESS" default:"true"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Redis     *Redis     `envconfig:"REDIS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	Lock      *Lock      `envconfig:"LOCK"`
	Ledger    *Ledger    `envconfig:"LEDGER"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (a *App) IsProduction() bool {
	return a.Env == "production"
}
