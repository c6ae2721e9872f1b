// Package orchestrator asks the conversational model for exactly one suggestion per turn.
package orchestrator

//go:generate go run go.uber.org/mock/mockgen -source=./orchestrator.go -destination=../mocks/orchestrator_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kiosk/config"
	"kiosk/infras/otel"
	"kiosk/internal/domains/dialogue/model"
	roomModel "kiosk/internal/domains/room/model"
	sessionModel "kiosk/internal/domains/session/model"
	tenantModel "kiosk/internal/domains/tenant/model"
	"kiosk/shared/constant"
	"kiosk/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const (
	breakerName = "advisor"

	defaultTimeout      = 15 * time.Second
	defaultHistoryTurns = 10
)

// ErrNoSuggestion means the model gave nothing usable this turn. The caller answers with the fallback.
var ErrNoSuggestion = errors.New("no usable suggestion from advisor")

// Input is the per-turn context handed to the model.
type Input struct {
	Tenant           tenantModel.Tenant
	Rooms            []roomModel.Room
	Session          sessionModel.Session
	Transcript       string
	ActiveSlot       model.Slot
	ExpectedType     model.ExpectedType
	LastSystemPrompt string
}

type Orchestrator interface {
	Run(ctx context.Context, in Input) (model.Suggestion, error)
}

type orchestratorImpl struct {
	advisor model.Advisor
	breaker *gobreaker.CircuitBreaker
	cfg     *config.Config
	otel    otel.Otel
	now     func() time.Time
}

func New(advisor model.Advisor, cfg *config.Config, otel otel.Otel) Orchestrator {
	return &orchestratorImpl{
		advisor: advisor,
		breaker: newBreaker(cfg),
		cfg:     cfg,
		otel:    otel,
		now:     timezone.Now,
	}
}

func newBreaker(cfg *config.Config) *gobreaker.CircuitBreaker {
	settings := cfg.Advisor.Breaker

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: settings.MaxRequests,
		Interval:    time.Duration(settings.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(settings.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

func (o *orchestratorImpl) Run(ctx context.Context, in Input) (suggestion model.Suggestion, err error) {
	ctx, scope := o.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Orchestrate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	historyTurns := o.cfg.Dialogue.HistoryTurns
	if historyTurns <= 0 {
		historyTurns = defaultHistoryTurns
	}

	prompt := model.Prompt{
		System:  BuildSystemPrompt(in, o.now()),
		History: in.Session.Recent(historyTurns),
		Message: in.Transcript,
	}

	raw, err := o.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.timeout())
		defer cancel()

		return o.advisor.Advise(callCtx, prompt)
	})
	if err != nil {
		log.Warn().Err(err).Str("tenantID", in.Tenant.ID).Msg("advisor call failed")

		return suggestion, fmt.Errorf("%w: %w", ErrNoSuggestion, err)
	}

	text, _ := raw.(string)

	suggestion, err = Parse(text)
	if err != nil {
		log.Warn().Err(err).Str("tenantID", in.Tenant.ID).Msg("discarding advisor output")

		return model.Suggestion{}, fmt.Errorf("%w: %w", ErrNoSuggestion, err)
	}

	scope.SetAttribute("dialogue.intent", string(suggestion.Intent))

	return suggestion, nil
}

func (o *orchestratorImpl) timeout() time.Duration {
	if o.cfg.Advisor.TimeoutSeconds <= 0 {
		return defaultTimeout
	}

	return time.Duration(o.cfg.Advisor.TimeoutSeconds) * time.Second
}
