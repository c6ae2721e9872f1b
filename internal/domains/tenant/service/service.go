package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"kiosk/config"
	"kiosk/infras/otel"
	"kiosk/internal/domains/tenant/model"
	"kiosk/internal/domains/tenant/repository"
	"kiosk/shared"
	"kiosk/shared/cache"
	"kiosk/shared/constant"
	"kiosk/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetTenant = "tenant:get"

type Tenant interface {
	// GetBySlug resolves an active tenant, failing with TENANT_NOT_FOUND otherwise.
	GetBySlug(ctx context.Context, slug string) (model.Tenant, error)
}

type serviceImpl struct {
	repo  repository.Tenant
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Tenant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Tenant {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetBySlug(ctx context.Context, slug string) (res model.Tenant, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTenantBySlug")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if slug == constant.Empty {
		return res, failure.NotFoundWithCode("tenant not found", failure.CodeTenantNotFound) //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetTenant, slug)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for tenant")

		return res, nil
	}

	res, err = s.repo.Get(ctx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldSlug:   slug,
		model.FieldActive: true,
	}))
	if err != nil {
		log.Error().Err(err).Str("tenant", slug).Msg("failed to get tenant")

		return res, fmt.Errorf("failed to get tenant: %w", err)
	}

	if res.ID == constant.Empty {
		return res, failure.NotFoundWithCode("tenant not found", failure.CodeTenantNotFound) //nolint:wrapcheck
	}

	go func(tenant model.Tenant) {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, tenant, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tenant to cache")
		}
	}(res)

	return res, nil
}
