package dialogue

import (
	"kiosk/infras/otel"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/dialogue/model/dto"
	"kiosk/internal/domains/dialogue/service"
	tenantModel "kiosk/internal/domains/tenant/model"
	"kiosk/shared/constant"
	"kiosk/shared/validator"
	"kiosk/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dialogue
	otel    otel.Otel
}

func New(service service.Dialogue, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dialogue", func(routerGroup chi.Router) {
		routerGroup.Post("/turns", handler.Turn)
		routerGroup.Delete("/sessions/{sessionId}", handler.EndSession)
	})
}

// Turn processes one guest utterance.
// @Summary Process a dialogue turn
// @Description Interpret the transcript, merge the slots and persist the booking once it is complete.
// @Tags Dialogue
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param request body dto.TurnRequest true "Turn Request"
// @Success 200 {object} dto.TurnResponse
// @Failure 400 {object} response.TurnError
// @Failure 404 {object} response.TurnError
// @Failure 409 {object} response.TurnError
// @Failure 500 {object} response.TurnError
// @Router /v1/tenants/{tenant}/dialogue/turns [post]
// @Security ApiKeyAuth
func (handler *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Turn")
	defer scope.End()

	tenant, err := tenantModel.Require(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithTurnError(w, err, model.FallbackSpeech)

		return
	}

	req := dto.TurnRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode turn request")

		response.WithTurnError(w, err, model.FallbackSpeech)

		return
	}

	res, err := handler.service.Turn(ctx, tenant, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tenant", tenant.Slug).Msg("failed to process turn")

		response.WithTurnError(w, err, model.FallbackSpeech)

		return
	}

	scope.SetAttributes(map[string]any{
		"dialogue.intent":      string(res.Intent),
		"dialogue.is_complete": res.IsComplete,
	})

	response.WithPayload(w, http.StatusOK, res)
}

// EndSession forgets a kiosk session.
// @Summary End a dialogue session
// @Tags Dialogue
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Data[dto.EndSessionResponse]
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/dialogue/sessions/{sessionId} [delete]
// @Security ApiKeyAuth
func (handler *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EndSession")
	defer scope.End()

	tenant, err := tenantModel.Require(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	sessionID := chi.URLParam(r, constant.RequestParamSessionID)

	res, err := handler.service.EndSession(ctx, tenant, sessionID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("session", sessionID).Msg("failed to end session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Session ended")

	response.WithJSON(w, http.StatusOK, res)
}
