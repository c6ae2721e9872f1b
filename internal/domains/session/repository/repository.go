package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"kiosk/config"
	"kiosk/internal/domains/session/model"
	"kiosk/shared/cache"
	"kiosk/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"

	lockBackoffStart = 25 * time.Millisecond
	lockBackoffMax   = 250 * time.Millisecond
)

// ErrSessionBusy is returned when another turn holds the session for longer than the lock wait.
var ErrSessionBusy = failure.ConflictWithCode("session is busy with another turn", failure.CodeSessionBusy)

// Session stores dialogue sessions by tenant-scoped key.
type Session interface {
	// Get reports false when the session does not exist or has expired.
	Get(ctx context.Context, key string) (model.Session, bool, error)
	Save(ctx context.Context, key string, session model.Session) error
	Delete(ctx context.Context, key string) error
	// Lock blocks until the caller owns the session or the wait elapses.
	Lock(ctx context.Context, key string) (release func(), err error)
}

type Options struct {
	TTL      time.Duration
	LockTTL  time.Duration
	LockWait time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TTL:      time.Duration(cfg.Dialogue.SessionTTLSeconds) * time.Second,
		LockTTL:  time.Duration(cfg.Dialogue.Lock.TTLSeconds) * time.Second,
		LockWait: time.Duration(cfg.Dialogue.Lock.WaitSeconds) * time.Second,
	}
}

// New picks the store named by DIALOGUE_STORE_DRIVER.
func New(cfg *config.Config, redisCache cache.RedisCache) Session {
	opts := OptionsFromConfig(cfg)

	if cfg.Dialogue.StoreDriver == DriverMemory {
		log.Info().Dur("ttl", opts.TTL).Msg("Using in-memory session store")

		return NewMemory(opts)
	}

	log.Info().Dur("ttl", opts.TTL).Msg("Using Redis session store")

	return NewRedis(redisCache, opts)
}

// acquire retries try with capped exponential backoff until it succeeds or wait elapses.
func acquire(ctx context.Context, wait time.Duration, try func() (bool, error)) error {
	deadline := time.Now().Add(wait)
	backoff := lockBackoffStart

	for {
		ok, err := try()
		if err != nil {
			return err
		}

		if ok {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrSessionBusy
		}

		timer := time.NewTimer(min(backoff, remaining))

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err() //nolint:wrapcheck
		case <-timer.C:
		}

		backoff = min(backoff*2, lockBackoffMax)
	}
}
