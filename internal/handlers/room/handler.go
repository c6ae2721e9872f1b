package room

import (
	"kiosk/infras/otel"
	"kiosk/internal/domains/room/service"
	tenantModel "kiosk/internal/domains/tenant/model"
	"kiosk/shared/constant"
	"kiosk/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRooms)
	})
}

// GetRooms lists the room types the kiosk can offer.
// @Summary Get the room inventory
// @Description Retrieve the active room types of the tenant, cheapest first.
// @Tags Room
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/rooms [get]
// @Security ApiKeyAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	tenant, err := tenantModel.Require(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	rooms, err := handler.service.GetAll(ctx, tenant.ID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tenant", tenant.Slug).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}
