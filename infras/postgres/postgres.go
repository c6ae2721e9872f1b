package postgres

//nolint:revive
import (
	"fmt"
	"kiosk/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
)

// Connection splits reads onto the replica. Writes and every transaction use Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the read and write pools used by the tenant, room and booking repositories.
func New(cfg *config.Config) *Connection {
	conn := &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}

	if conn.Read == nil || conn.Write == nil {
		log.Fatal().Int("maxRetry", cfg.DB.Postgres.MaxRetry).Msg("Database unreachable after retries")
	}

	return conn
}

func (c *Connection) Close() error {
	if err := c.Read.Close(); err != nil {
		return fmt.Errorf("failed to close read connection: %w", err)
	}

	if err := c.Write.Close(); err != nil {
		return fmt.Errorf("failed to close write connection: %w", err)
	}

	return nil
}

// URL builds the DSN for node, applying the configured database prefix. Extra query values are merged in.
func URL(cfg *config.Config, node config.PostgresNode, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", node.SSLMode)

	if node.Timezone != "" {
		query.Set("timezone", node.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     cfg.DB.Postgres.Prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// connect retries MaxRetry times, RetryWaitTime seconds apart, and returns nil when every attempt fails.
func connect(cfg *config.Config, role string, node config.PostgresNode) *sqlx.DB {
	dsn := URL(cfg, node, nil)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	logger := log.With().
		Str("name", role).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("dbName", cfg.DB.Postgres.Prefix+node.Name).
		Logger()

	for attempt := 1; attempt <= max(cfg.DB.Postgres.MaxRetry, 1); attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	return nil
}
