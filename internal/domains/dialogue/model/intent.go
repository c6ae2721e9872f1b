package model

import "strings"

type Intent string

const (
	IntentBookRoom       Intent = "BOOK_ROOM"
	IntentSelectRoom     Intent = "SELECT_ROOM"
	IntentProvideGuests  Intent = "PROVIDE_GUESTS"
	IntentProvideDates   Intent = "PROVIDE_DATES"
	IntentProvideName    Intent = "PROVIDE_NAME"
	IntentConfirmBooking Intent = "CONFIRM_BOOKING"
	IntentModifyBooking  Intent = "MODIFY_BOOKING"
	IntentCancelBooking  Intent = "CANCEL_BOOKING"
	IntentGeneralQuery   Intent = "GENERAL_QUERY"
	IntentGreeting       Intent = "GREETING"
	IntentHelp           Intent = "HELP"
	IntentUnknown        Intent = "UNKNOWN"
)

// IntentOneOf is the validator list of every known intent.
const IntentOneOf = "BOOK_ROOM SELECT_ROOM PROVIDE_GUESTS PROVIDE_DATES PROVIDE_NAME CONFIRM_BOOKING " +
	"MODIFY_BOOKING CANCEL_BOOKING GENERAL_QUERY GREETING HELP UNKNOWN"

var slotFillingIntents = map[Intent]struct{}{
	IntentBookRoom:       {},
	IntentSelectRoom:     {},
	IntentProvideGuests:  {},
	IntentProvideDates:   {},
	IntentProvideName:    {},
	IntentConfirmBooking: {},
	IntentModifyBooking:  {},
}

// SlotFilling reports whether the intent moves the booking form forward.
func (i Intent) SlotFilling() bool {
	_, ok := slotFillingIntents[i]

	return ok
}

func (i Intent) Valid() bool {
	return strings.Contains(" "+IntentOneOf+" ", " "+string(i)+" ")
}

var topicChangeCues = []string{
	"cancel",
	"go back",
	"never mind",
	"nevermind",
	"start over",
	"modify",
	"change",
}

// HasTopicChangeCue reports whether the guest is steering away from the slot being collected.
func HasTopicChangeCue(transcript string) bool {
	lower := strings.ToLower(transcript)

	for _, cue := range topicChangeCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}

	return false
}
