package router

import (
	"kiosk/internal/handlers/booking"
	"kiosk/internal/handlers/dialogue"
	"kiosk/internal/handlers/room"
	"kiosk/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Dialogue dialogue.Handler
	Room     room.Handler
	Booking  booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Auth           middleware.Auth
	Tenant         middleware.Tenant
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1/tenants/{tenant}", func(routerGroup chi.Router) {
		routerGroup.Use(r.Auth.APIKey)
		routerGroup.Use(r.Tenant.Resolve)

		r.DomainHandlers.Dialogue.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, auth middleware.Auth, tenant middleware.Tenant) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Auth:           auth,
		Tenant:         tenant,
	}
}
