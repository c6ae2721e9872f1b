package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kiosk/config"
	"kiosk/infras/otel"
	bookingDto "kiosk/internal/domains/booking/model/dto"
	bookingService "kiosk/internal/domains/booking/service"
	"kiosk/internal/domains/dialogue/fusion"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/dialogue/model/dto"
	"kiosk/internal/domains/dialogue/normalizer"
	"kiosk/internal/domains/dialogue/orchestrator"
	roomService "kiosk/internal/domains/room/service"
	sessionModel "kiosk/internal/domains/session/model"
	sessionRepository "kiosk/internal/domains/session/repository"
	tenantModel "kiosk/internal/domains/tenant/model"
	"kiosk/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultSessionID = "default"

type Dialogue interface {
	// Turn processes one guest utterance. Model failures are answered with the fallback suggestion, not an error.
	Turn(ctx context.Context, tenant tenantModel.Tenant, req dto.TurnRequest) (dto.TurnResponse, error)
	// EndSession discards everything the kiosk remembers about a conversation.
	EndSession(ctx context.Context, tenant tenantModel.Tenant, sessionID string) (dto.EndSessionResponse, error)
}

type serviceImpl struct {
	sessions     sessionRepository.Session
	orchestrator orchestrator.Orchestrator
	rooms        roomService.Room
	bookings     bookingService.Booking
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	sessions sessionRepository.Session,
	orch orchestrator.Orchestrator,
	rooms roomService.Room,
	bookings bookingService.Booking,
	cfg *config.Config,
	otel otel.Otel,
) Dialogue {
	return &serviceImpl{
		sessions:     sessions,
		orchestrator: orch,
		rooms:        rooms,
		bookings:     bookings,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) Turn(ctx context.Context, tenant tenantModel.Tenant, req dto.TurnRequest) (res dto.TurnResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Turn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Sanitize(s.cfg.App.Validation.Strict); err != nil {
		return res, err
	}

	sessionID := s.sessionID(req.SessionID)
	key := sessionModel.Key(tenant.Slug, sessionID)

	scope.SetAttributes(map[string]any{"tenant.id": tenant.ID, "session.id": sessionID})

	logger := log.With().Str("tenantID", tenant.ID).Str("sessionID", sessionID).Logger()

	release, err := s.sessions.Lock(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to acquire session lock")

		return res, fmt.Errorf("failed to lock session: %w", err)
	}
	defer release()

	if req.Resets() {
		if err = s.sessions.Delete(ctx, key); err != nil {
			logger.Error().Err(err).Msg("failed to wipe session")

			return res, fmt.Errorf("failed to wipe session: %w", err)
		}

		logger.Info().Str("currentState", req.CurrentState).Msg("session wiped on kiosk reset")
	}

	session, err := s.load(ctx, key, sessionID, tenant.ID, req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load session")

		return res, err
	}

	if strings.TrimSpace(req.Transcript) == constant.Empty {
		res.FromSuggestion(model.Suggestion{Intent: model.IntentUnknown})
		res.FromState(session.Slots, session.BookingID)

		return res, nil
	}

	active := req.Slot()
	expected := req.Expected()
	normalized := normalizer.Normalize(req.Transcript, expected, active)

	rooms, err := s.rooms.Inventory(ctx, tenant.ID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load room inventory")

		return res, fmt.Errorf("failed to load room inventory: %w", err)
	}

	suggestion, err := s.orchestrator.Run(ctx, orchestrator.Input{
		Tenant:           tenant,
		Rooms:            rooms,
		Session:          session,
		Transcript:       normalized,
		ActiveSlot:       active,
		ExpectedType:     expected,
		LastSystemPrompt: req.LastSystemPrompt,
	})
	if err != nil {
		if !errors.Is(err, orchestrator.ErrNoSuggestion) {
			return res, fmt.Errorf("failed to run orchestrator: %w", err)
		}

		logger.Warn().Err(err).Msg("answering with fallback")

		res.FromSuggestion(model.Fallback())
		res.FromState(session.Slots, session.BookingID)

		return res, nil
	}

	reconciled := fusion.Reconcile(suggestion, req.Transcript, active, expected)
	merged := fusion.Merge(session, reconciled, req.Transcript)

	if shouldPersist(reconciled, merged.Slots) {
		result, err := s.bookings.Persist(ctx, bookingDto.PersistRequest{
			TenantID:  tenant.ID,
			SessionID: sessionID,
			BookingID: merged.BookingID,
			Slots:     merged.Slots,
			Intent:    reconciled.Intent,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("booking not persisted, keeping only the utterance")

			session.Append(model.RoleUser, strings.TrimSpace(req.Transcript))

			if saveErr := s.sessions.Save(ctx, key, session); saveErr != nil {
				logger.Error().Err(saveErr).Msg("failed to save session after persistence failure")
			}

			return res, err
		}

		if !result.Skipped {
			bookingID := result.BookingID
			merged.BookingID = &bookingID
		}
	}

	if err = s.sessions.Save(ctx, key, merged); err != nil {
		logger.Error().Err(err).Msg("failed to save session")

		return res, fmt.Errorf("failed to save session: %w", err)
	}

	res.FromSuggestion(reconciled)
	res.FromState(merged.Slots, merged.BookingID)

	if len(res.MissingSlots) == 0 {
		res.IsComplete = true
	}

	return res, nil
}

// load returns the stored session, seeded with the caller's history and slot snapshot.
func (s *serviceImpl) load(ctx context.Context, key, sessionID, tenantID string, req dto.TurnRequest) (sessionModel.Session, error) {
	session, found, err := s.sessions.Get(ctx, key)
	if err != nil {
		return session, fmt.Errorf("failed to get session: %w", err)
	}

	if !found {
		session = sessionModel.New(sessionID, tenantID)
	}

	if session.Slots == nil {
		session.Slots = model.Values{}
	}

	if len(session.History) == 0 && len(req.ConversationHistory) > 0 {
		session.History = append([]model.Turn{}, req.ConversationHistory...)
	}

	if len(req.FilledSlots) > 0 {
		session = fusion.Merge(session, model.Suggestion{ExtractedSlots: req.FilledSlots}, constant.Empty)
	}

	return session, nil
}

// shouldPersist never fires on cancellation, which leaves stored bookings alone.
func shouldPersist(suggestion model.Suggestion, slots model.Values) bool {
	if suggestion.Intent == model.IntentCancelBooking {
		return false
	}

	return suggestion.IsComplete ||
		suggestion.Intent == model.IntentConfirmBooking ||
		len(slots.Missing()) == 0
}

func (s *serviceImpl) sessionID(requested string) string {
	if id := strings.TrimSpace(requested); id != constant.Empty {
		return id
	}

	if s.cfg.Dialogue.DefaultSessionID != constant.Empty {
		return s.cfg.Dialogue.DefaultSessionID
	}

	return defaultSessionID
}

func (s *serviceImpl) EndSession(ctx context.Context, tenant tenantModel.Tenant, sessionID string) (res dto.EndSessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EndSession")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	sessionID = s.sessionID(sessionID)
	key := sessionModel.Key(tenant.Slug, sessionID)

	release, err := s.sessions.Lock(ctx, key)
	if err != nil {
		return res, fmt.Errorf("failed to lock session: %w", err)
	}
	defer release()

	if err = s.sessions.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("tenantID", tenant.ID).Str("sessionID", sessionID).Msg("failed to delete session")

		return res, fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info().Str("tenantID", tenant.ID).Str("sessionID", sessionID).Msg("session ended")

	return dto.EndSessionResponse{SessionID: sessionID, Cleared: true}, nil
}
