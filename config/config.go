package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Cache    Cache    `envconfig:"CACHE"`
	DB       DB       `envconfig:"DB"`
	Dialogue Dialogue `envconfig:"DIALOGUE"`
	Advisor  Advisor  `envconfig:"ADVISOR"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name     string `envconfig:"NAME"     default:"kiosk"`
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
	// APIKey guards the tenant routes. Empty leaves them open.
	APIKey      string      `envconfig:"API_KEY"`
	CORS        CORS        `envconfig:"CORS"`
	RateLimiter RateLimiter `envconfig:"RATE_LIMITER"`
	Validation  struct {
		// Strict rejects malformed turn requests with 400 instead of dropping the bad fields.
		Strict bool `envconfig:"STRICT"`
	} `envconfig:"VALIDATION"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type Cache struct {
	Redis struct {
		Primary Redis `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	// TTL applies to tenant, room and booking read caches, in seconds.
	TTL int `envconfig:"TTL" default:"300"`
}

type Redis struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type DB struct {
	Postgres struct {
		MaxRetry       int          `envconfig:"MAX_RETRY"       default:"3"`
		RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MigrationTable string       `envconfig:"MIGRATION_TABLE"`
		AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
		Prefix         string       `envconfig:"PREFIX"`
		Read           PostgresNode `envconfig:"READ"`
		Write          PostgresNode `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
}

// PostgresNode is one side of the read/write split. Both may point at the same server.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

type Dialogue struct {
	DefaultSessionID  string `envconfig:"DEFAULT_SESSION_ID"  default:"default"`
	HistoryTurns      int    `envconfig:"HISTORY_TURNS"       default:"10"`
	SessionTTLSeconds int    `envconfig:"SESSION_TTL_SECONDS" default:"1800"`
	StoreDriver       string `envconfig:"STORE_DRIVER"        default:"redis"`
	Lock              struct {
		TTLSeconds  int `envconfig:"TTL_SECONDS"  default:"30"`
		WaitSeconds int `envconfig:"WAIT_SECONDS" default:"10"`
	} `envconfig:"LOCK"`
}

type Advisor struct {
	APIKey         string `envconfig:"API_KEY"`
	Model          string `envconfig:"MODEL"           default:"gemini-1.5-flash"`
	TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"15"`
	Breaker        struct {
		MaxRequests     uint32  `envconfig:"MAX_REQUESTS"     default:"3"`
		IntervalSeconds int     `envconfig:"INTERVAL_SECONDS" default:"60"`
		TimeoutSeconds  int     `envconfig:"TIMEOUT_SECONDS"  default:"30"`
		MinRequests     uint32  `envconfig:"MIN_REQUESTS"     default:"5"`
		FailureRatio    float64 `envconfig:"FAILURE_RATIO"    default:"0.6"`
	} `envconfig:"BREAKER"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
}

var loaded = sync.OnceValue(load)

// Get loads .env once, then the process environment, and returns the shared configuration.
func Get() *Config {
	return loaded()
}

func load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to process environment variables")
	}

	log.Info().Str("env", cfg.Server.Env).Msg("Service configuration initialized")

	return cfg
}
