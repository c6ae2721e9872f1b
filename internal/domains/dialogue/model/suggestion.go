package model

//go:generate go run go.uber.org/mock/mockgen -source=./suggestion.go -destination=../mocks/advisor_mock.go -package=mocks

import "context"

const FallbackSpeech = "I'm sorry, I didn't quite catch that. Could you say it again?"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in the conversation history.
type Turn struct {
	Role Role   `json:"role" validate:"required,oneof=user assistant"`
	Text string `json:"text"`
}

// Suggestion is the structured reply the advisory model is asked to produce.
// It is only trusted once it has passed schema validation.
type Suggestion struct {
	Speech         string         `json:"speech"                   validate:"required"`
	Intent         Intent         `json:"intent"                   validate:"required"`
	Confidence     *float64       `json:"confidence"               validate:"required,gte=0,lte=1"`
	ExtractedSlots map[string]any `json:"extractedSlots,omitempty"`
	ExtractedValue any            `json:"extractedValue,omitempty"`
	NextSlotToAsk  string         `json:"nextSlotToAsk,omitempty"`
	IsComplete     bool           `json:"isComplete,omitempty"`
}

func (s Suggestion) ConfidenceValue() float64 {
	if s.Confidence == nil {
		return 0
	}

	return *s.Confidence
}

// Fallback is what the kiosk says when the model produced nothing usable.
func Fallback() Suggestion {
	zero := 0.0

	return Suggestion{
		Speech:     FallbackSpeech,
		Intent:     IntentUnknown,
		Confidence: &zero,
	}
}

// Prompt is everything the advisory model sees for one turn.
type Prompt struct {
	System  string
	History []Turn
	Message string
}

// Advisor is the conversational model. Its output is untrusted free text.
type Advisor interface {
	Advise(ctx context.Context, prompt Prompt) (string, error)
}
