//go:build wireinject
// +build wireinject

package di

import (
	"kiosk/config"
	"kiosk/infras/gemini"
	"kiosk/infras/otel"
	"kiosk/infras/postgres"
	"kiosk/infras/redis"
	"kiosk/shared/cache"
	"kiosk/transport/http"
	"kiosk/transport/http/middleware"
	"kiosk/transport/http/router"

	bookingRepository "kiosk/internal/domains/booking/repository"
	bookingService "kiosk/internal/domains/booking/service"
	dialogueModel "kiosk/internal/domains/dialogue/model"
	dialogueOrchestrator "kiosk/internal/domains/dialogue/orchestrator"
	dialogueService "kiosk/internal/domains/dialogue/service"
	roomRepository "kiosk/internal/domains/room/repository"
	roomService "kiosk/internal/domains/room/service"
	sessionRepository "kiosk/internal/domains/session/repository"
	tenantRepository "kiosk/internal/domains/tenant/repository"
	tenantService "kiosk/internal/domains/tenant/service"

	bookingHandler "kiosk/internal/handlers/booking"
	dialogueHandler "kiosk/internal/handlers/dialogue"
	roomHandler "kiosk/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	gemini.New,
	wire.Bind(new(dialogueModel.Advisor), new(*gemini.Client)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
	middleware.NewTenantMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var tenantDomain = wire.NewSet(
	tenantRepository.New,
	tenantService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var dialogueDomain = wire.NewSet(
	sessionRepository.New,
	dialogueOrchestrator.New,
	dialogueService.New,
)

var domains = wire.NewSet(
	tenantDomain,
	roomDomain,
	bookingDomain,
	dialogueDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	dialogueHandler.New,
	roomHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
