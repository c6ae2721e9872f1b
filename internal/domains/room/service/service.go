package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"kiosk/config"
	"kiosk/infras/otel"
	"kiosk/internal/domains/room/model"
	"kiosk/internal/domains/room/model/dto"
	"kiosk/internal/domains/room/repository"
	"kiosk/shared"
	"kiosk/shared/cache"
	"kiosk/shared/constant"
	gDto "kiosk/shared/dto"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheInventory = "room:inventory"

type Room interface {
	// Inventory lists the active room types of a tenant, cheapest first.
	Inventory(ctx context.Context, tenantID string) ([]model.Room, error)
	GetAll(ctx context.Context, tenantID string) (dto.GetRoomsResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Inventory(ctx context.Context, tenantID string) (res []model.Room, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Inventory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheInventory, tenantID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for room inventory")

		return res, nil
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldNightlyRate, SortDir: gDto.SortDirAsc}
	filter := shared.FilterByFields(model.TableName, map[string]any{
		model.FieldTenantID: tenantID,
		model.FieldActive:   true,
	})

	res, err = s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("tenantID", tenantID).Msg("failed to get room inventory")

		return nil, fmt.Errorf("failed to get room inventory: %w", err)
	}

	go func(rooms []model.Room) {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, rooms, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room inventory to cache")
		}
	}(res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, tenantID string) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rooms, err := s.Inventory(ctx, tenantID)
	if err != nil {
		return res, err
	}

	res.FromModels(rooms)

	return res, nil
}

// Resolve matches what the guest asked for against the inventory: exact code first,
// then a name match, then the room family keyword.
func Resolve(rooms []model.Room, requested string) (model.Room, bool) {
	wanted := strings.ToLower(strings.TrimSpace(requested))
	if wanted == "" {
		return model.Room{}, false
	}

	for _, room := range rooms {
		if strings.EqualFold(room.Code, wanted) {
			return room, true
		}
	}

	for _, room := range rooms {
		name := strings.ToLower(room.Name)
		if name != "" && (strings.Contains(name, wanted) || strings.Contains(wanted, name)) {
			return room, true
		}
	}

	for _, family := range model.Families {
		if !strings.Contains(wanted, family) {
			continue
		}

		for _, room := range rooms {
			if strings.EqualFold(room.Family, family) {
				return room, true
			}
		}
	}

	return model.Room{}, false
}
