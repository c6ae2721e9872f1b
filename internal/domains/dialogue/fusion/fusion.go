// Package fusion reconciles what the model extracted with what the kiosk can verify on its own.
package fusion

import (
	"kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/dialogue/normalizer"
	sessionModel "kiosk/internal/domains/session/model"
	"kiosk/shared/constant"
	"kiosk/shared/timezone"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// CoercedConfidence is the floor applied when the intent is pinned to the active slot.
const CoercedConfidence = 0.8

var isoDatePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

// Reconcile fills the active slot when the model left it empty and pins the intent to the
// active slot unless the guest is changing the subject. transcript is the raw utterance.
// The input suggestion is not modified.
func Reconcile(suggestion model.Suggestion, transcript string, active model.Slot, expected model.ExpectedType) model.Suggestion {
	out := suggestion

	out.ExtractedSlots = make(map[string]any, len(suggestion.ExtractedSlots)+1)
	for key, value := range suggestion.ExtractedSlots {
		out.ExtractedSlots[key] = value
	}

	if !active.Valid() {
		return out
	}

	changing := model.HasTopicChangeCue(transcript)

	if !Valid(active, out.ExtractedSlots[active.String()]) {
		value, ok := suggestion.ExtractedValue, Valid(active, suggestion.ExtractedValue)

		// A guest steering away is not answering the question, so the utterance is not mined for it.
		if !ok && !changing {
			value, ok = fromTranscript(transcript, active, expected)
		}

		if ok {
			out.ExtractedSlots[active.String()] = value
			out.ExtractedValue = value

			log.Debug().Str("slot", active.String()).Interface("value", value).Msg("active slot filled by fallback extraction")
		}
	}

	if !out.Intent.SlotFilling() && !changing {
		log.Debug().
			Str("from", string(out.Intent)).
			Str("to", string(active.Intent())).
			Msg("intent coerced to active slot")

		confidence := max(out.ConfidenceValue(), CoercedConfidence)
		out.Intent = active.Intent()
		out.Confidence = &confidence
	}

	return out
}

func fromTranscript(transcript string, active model.Slot, expected model.ExpectedType) (any, bool) {
	if !expected.Valid() {
		expected = active.ExpectedType()
	}

	switch expected {
	case model.ExpectedNumber:
		value, ok := normalizer.ParseNumber(transcript)
		if !ok {
			return nil, false
		}

		value = normalizer.CorrectDuplication(value, active)

		return value, Valid(active, value)
	case model.ExpectedDate:
		date := isoDatePattern.FindString(transcript)

		return date, Valid(active, date)
	default:
		text := strings.TrimSpace(transcript)

		return text, Valid(active, text)
	}
}

// Valid reports whether value satisfies the constraint of slot.
func Valid(slot model.Slot, value any) bool {
	values := model.Values{slot: value}
	if !values.Filled(slot) {
		return false
	}

	switch slot {
	case model.SlotAdults:
		n, ok := values.Int(slot)

		return ok && n >= model.MinAdults && n <= model.MaxAdults
	case model.SlotChildren:
		n, ok := values.Int(slot)

		return ok && n >= 0 && n <= model.MaxChildren
	case model.SlotNights:
		n, ok := values.Int(slot)

		return ok && n > 0
	case model.SlotTotalPrice:
		price, ok := values.Float(slot)

		return ok && price >= 0
	case model.SlotCheckInDate, model.SlotCheckOutDate:
		_, ok := values.Date(slot)

		return ok
	default:
		return slot.Valid()
	}
}

// Merge applies a reconciled suggestion to a copy of the session. Values that are missing or fail
// their slot constraint never overwrite what the session already holds.
func Merge(session sessionModel.Session, suggestion model.Suggestion, utterance string) sessionModel.Session {
	out := session
	out.Slots = session.Slots.Clone()
	out.History = append(make([]model.Turn, 0, len(session.History)+2), session.History...)

	for key, value := range suggestion.ExtractedSlots {
		slot, ok := model.ParseSlot(key)
		if !ok {
			log.Warn().Str("slot", key).Msg("dropping unknown extracted slot")

			continue
		}

		if !Valid(slot, value) {
			if value != nil {
				log.Warn().Str("slot", key).Interface("value", value).Msg("dropping invalid extracted value")
			}

			continue
		}

		out.Slots[slot] = canonical(slot, value)
	}

	if checkIn, ok := out.Slots.Date(model.SlotCheckInDate); ok {
		if checkOut, ok := out.Slots.Date(model.SlotCheckOutDate); ok && !checkOut.After(checkIn) {
			log.Warn().
				Str("checkIn", checkIn.Format(constant.ISODateFormat)).
				Str("checkOut", checkOut.Format(constant.ISODateFormat)).
				Msg("check-out is not after check-in")
		}
	}

	if text := strings.TrimSpace(utterance); text != constant.Empty {
		out.Append(model.RoleUser, text)
	}

	if reply := strings.TrimSpace(suggestion.Speech); reply != constant.Empty {
		out.Append(model.RoleAssistant, reply)
	}

	out.UpdatedAt = timezone.Now()

	return out
}

// canonical stores numbers as numbers and text trimmed.
func canonical(slot model.Slot, value any) any {
	values := model.Values{slot: value}

	switch slot.ExpectedType() {
	case model.ExpectedNumber:
		if slot == model.SlotTotalPrice {
			price, _ := values.Float(slot)

			return price
		}

		n, _ := values.Int(slot)

		return n
	case model.ExpectedDate:
		date, _ := values.Date(slot)

		return date.Format(constant.ISODateFormat)
	default:
		return values.Text(slot)
	}
}
