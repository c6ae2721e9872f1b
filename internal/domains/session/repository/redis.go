package repository

import (
	"context"
	"errors"
	"fmt"
	"kiosk/internal/domains/session/model"
	"kiosk/shared/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type redisStore struct {
	cache cache.RedisCache
	opts  Options
}

func NewRedis(redisCache cache.RedisCache, opts Options) Session {
	return &redisStore{
		cache: redisCache,
		opts:  opts,
	}
}

func (r *redisStore) Get(ctx context.Context, key string) (model.Session, bool, error) {
	var session model.Session

	err := r.cache.Get(ctx, key, &session)
	if errors.Is(err, cache.Nil) {
		return session, false, nil
	}

	if err != nil {
		return session, false, fmt.Errorf("failed to load session: %w", err)
	}

	return session, true, nil
}

func (r *redisStore) Save(ctx context.Context, key string, session model.Session) error {
	if err := r.cache.Save(ctx, key, session, int(r.opts.TTL.Seconds())); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	if err := r.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (r *redisStore) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := model.LockKey(key)
	token := uuid.NewString()

	err := acquire(ctx, r.opts.LockWait, func() (bool, error) {
		return r.cache.SetNX(ctx, lockKey, token, r.opts.LockTTL) //nolint:wrapcheck
	})
	if err != nil {
		return nil, err
	}

	release := func() {
		c := context.WithoutCancel(ctx)

		released, err := r.cache.DeleteIfEqual(c, lockKey, token)
		if err != nil {
			log.Error().Err(err).Str("key", lockKey).Msg("failed to release session lock")

			return
		}

		if !released {
			log.Warn().Str("key", lockKey).Msg("session lock expired before release")
		}
	}

	return release, nil
}
