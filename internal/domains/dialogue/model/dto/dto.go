package dto

import (
	"fmt"
	"kiosk/internal/domains/dialogue/fusion"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/shared/constant"
	"kiosk/shared/failure"
	"kiosk/shared/validator"
	"strings"

	"github.com/rs/zerolog/log"
)

// Limits mirror the validate tags below.
const (
	maxTranscriptLength = 2000
	maxSessionIDLength  = 128
)

// Screens on which the kiosk is back at its start, so the previous guest's data must go.
var resetStates = []string{"idle", "welcome"}

type TurnRequest struct {
	Transcript          string         `json:"transcript"          validate:"max=2000"`
	CurrentState        string         `json:"currentState"`
	SessionID           string         `json:"sessionId"           validate:"max=128"`
	ActiveSlot          string         `json:"activeSlot"`
	ExpectedType        string         `json:"expectedType"        validate:"omitempty,oneof=number date string"`
	LastSystemPrompt    string         `json:"lastSystemPrompt"`
	FilledSlots         map[string]any `json:"filledSlots"`
	ConversationHistory []model.Turn   `json:"conversationHistory" validate:"omitempty,dive"`
}

// Resets reports whether the caller is back on the idle or welcome screen.
func (r TurnRequest) Resets() bool {
	state := strings.TrimSpace(r.CurrentState)

	for _, reset := range resetStates {
		if strings.EqualFold(state, reset) {
			return true
		}
	}

	return false
}

func (r TurnRequest) Slot() model.Slot {
	slot, _ := model.ParseSlot(r.ActiveSlot)

	return slot
}

// Expected falls back to the active slot's own type when the caller did not say.
func (r TurnRequest) Expected() model.ExpectedType {
	if expected := model.ExpectedType(r.ExpectedType); expected.Valid() {
		return expected
	}

	return r.Slot().ExpectedType()
}

// Sanitize rejects malformed fields when strict, otherwise drops them with a warning.
func (r *TurnRequest) Sanitize(strict bool) error {
	problems := []string{}

	if err := validator.ValidateStruct(r); err != nil {
		if strict {
			return err
		}

		problems = append(problems, err.Error())

		if runes := []rune(r.Transcript); len(runes) > maxTranscriptLength {
			r.Transcript = string(runes[:maxTranscriptLength])
		}

		if len([]rune(r.SessionID)) > maxSessionIDLength {
			r.SessionID = constant.Empty
		}

		if !model.ExpectedType(r.ExpectedType).Valid() {
			r.ExpectedType = constant.Empty
		}
	}

	if r.ActiveSlot != constant.Empty {
		if _, ok := model.ParseSlot(r.ActiveSlot); !ok {
			problems = append(problems, fmt.Sprintf("unknown activeSlot %q", r.ActiveSlot))
			r.ActiveSlot = constant.Empty
		}
	}

	for key, value := range r.FilledSlots {
		slot, ok := model.ParseSlot(key)
		if ok && (value == nil || fusion.Valid(slot, value)) {
			continue
		}

		problems = append(problems, fmt.Sprintf("invalid filledSlots.%s", key))
		delete(r.FilledSlots, key)
	}

	history := make([]model.Turn, 0, len(r.ConversationHistory))

	for _, turn := range r.ConversationHistory {
		if (turn.Role != model.RoleUser && turn.Role != model.RoleAssistant) || strings.TrimSpace(turn.Text) == constant.Empty {
			problems = append(problems, "invalid conversationHistory entry")

			continue
		}

		history = append(history, turn)
	}

	r.ConversationHistory = history

	if len(problems) == 0 {
		return nil
	}

	if strict {
		return failure.BadRequestFromString(problems[0]) //nolint:wrapcheck
	}

	log.Warn().Strs("problems", problems).Msg("dropping malformed turn request fields")

	return nil
}

type TurnResponse struct {
	Speech             string         `json:"speech"`
	Intent             model.Intent   `json:"intent"`
	Confidence         float64        `json:"confidence"`
	ExtractedSlots     map[string]any `json:"extractedSlots"`
	ExtractedValue     any            `json:"extractedValue"`
	NextSlotToAsk      string         `json:"nextSlotToAsk,omitempty"`
	IsComplete         bool           `json:"isComplete"`
	AccumulatedSlots   map[string]any `json:"accumulatedSlots"`
	MissingSlots       []string       `json:"missingSlots"`
	PersistedBookingID *string        `json:"persistedBookingId"`
}

// FromSuggestion fills the model-facing part of the response.
func (r *TurnResponse) FromSuggestion(suggestion model.Suggestion) {
	r.Speech = suggestion.Speech
	r.Intent = suggestion.Intent
	r.Confidence = suggestion.ConfidenceValue()
	r.ExtractedSlots = suggestion.ExtractedSlots
	r.ExtractedValue = suggestion.ExtractedValue
	r.NextSlotToAsk = suggestion.NextSlotToAsk
	r.IsComplete = suggestion.IsComplete

	if r.ExtractedSlots == nil {
		r.ExtractedSlots = map[string]any{}
	}
}

// FromState fills the session-facing part of the response.
func (r *TurnResponse) FromState(slots model.Values, bookingID *string) {
	r.AccumulatedSlots = make(map[string]any, len(slots))
	for slot, value := range slots {
		r.AccumulatedSlots[slot.String()] = value
	}

	missing := slots.Missing()
	r.MissingSlots = make([]string, len(missing))

	for i, slot := range missing {
		r.MissingSlots[i] = slot.String()
	}

	r.PersistedBookingID = bookingID
}

type EndSessionResponse struct {
	SessionID string `json:"sessionId"`
	Cleared   bool   `json:"cleared"`
}
