package model

import (
	"fmt"
	"kiosk/shared/constant"
	"math"
	"strconv"
	"strings"
	"time"
)

// Slot names one piece of booking information collected during a conversation.
type Slot string

const (
	SlotRoomType     Slot = "roomType"
	SlotAdults       Slot = "adults"
	SlotChildren     Slot = "children"
	SlotCheckInDate  Slot = "checkInDate"
	SlotCheckOutDate Slot = "checkOutDate"
	SlotGuestName    Slot = "guestName"
	SlotNights       Slot = "nights"
	SlotTotalPrice   Slot = "totalPrice"
)

// ExpectedType is the value shape the kiosk expects for the slot it is asking about.
type ExpectedType string

const (
	ExpectedNumber ExpectedType = "number"
	ExpectedDate   ExpectedType = "date"
	ExpectedString ExpectedType = "string"
)

const (
	MaxAdults   = 4
	MaxChildren = 3
	MinAdults   = 1
)

type slotSpec struct {
	expected ExpectedType
	bound    int
	intent   Intent
	required bool
}

var slotSpecs = map[Slot]slotSpec{
	SlotRoomType:     {expected: ExpectedString, intent: IntentSelectRoom, required: true},
	SlotAdults:       {expected: ExpectedNumber, bound: MaxAdults, intent: IntentProvideGuests, required: true},
	SlotChildren:     {expected: ExpectedNumber, bound: MaxChildren, intent: IntentProvideGuests},
	SlotCheckInDate:  {expected: ExpectedDate, intent: IntentProvideDates, required: true},
	SlotCheckOutDate: {expected: ExpectedDate, intent: IntentProvideDates, required: true},
	SlotGuestName:    {expected: ExpectedString, intent: IntentProvideName, required: true},
	SlotNights:       {expected: ExpectedNumber, intent: IntentProvideDates},
	SlotTotalPrice:   {expected: ExpectedNumber, intent: IntentSelectRoom},
}

// RequiredSlots is ordered the way the kiosk walks a guest through a booking.
var RequiredSlots = []Slot{
	SlotRoomType,
	SlotAdults,
	SlotCheckInDate,
	SlotCheckOutDate,
	SlotGuestName,
}

func (s Slot) Valid() bool {
	_, ok := slotSpecs[s]

	return ok
}

func (s Slot) String() string {
	return string(s)
}

// ExpectedType returns the natural value type of the slot.
func (s Slot) ExpectedType() ExpectedType {
	return slotSpecs[s].expected
}

// Bound is the largest plausible count for a numeric slot, zero when unbounded.
func (s Slot) Bound() int {
	return slotSpecs[s].bound
}

// Intent is the canonical intent a guest expresses when answering this slot.
func (s Slot) Intent() Intent {
	if spec, ok := slotSpecs[s]; ok {
		return spec.intent
	}

	return IntentUnknown
}

func (s Slot) Required() bool {
	return slotSpecs[s].required
}

func ParseSlot(raw string) (Slot, bool) {
	slot := Slot(strings.TrimSpace(raw))

	return slot, slot.Valid()
}

func (e ExpectedType) Valid() bool {
	switch e {
	case ExpectedNumber, ExpectedDate, ExpectedString:
		return true
	default:
		return false
	}
}

// Values holds the slot state of a session. Values decoded from JSON keep their JSON types.
type Values map[Slot]any

// Filled reports whether slot holds a non-blank value.
func (v Values) Filled(slot Slot) bool {
	value, ok := v[slot]
	if !ok || value == nil {
		return false
	}

	return strings.TrimSpace(fmt.Sprint(value)) != ""
}

// Missing lists the required slots that are not filled, in collection order.
func (v Values) Missing() []Slot {
	missing := []Slot{}

	for _, slot := range RequiredSlots {
		if !v.Filled(slot) {
			missing = append(missing, slot)
		}
	}

	return missing
}

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for slot, value := range v {
		out[slot] = value
	}

	return out
}

// Text returns the slot value as trimmed text.
func (v Values) Text(slot Slot) string {
	if !v.Filled(slot) {
		return ""
	}

	return strings.TrimSpace(fmt.Sprint(v[slot]))
}

// Float reads a numeric slot whether it arrived as a JSON number or as text.
func (v Values) Float(slot Slot) (float64, bool) {
	if !v.Filled(slot) {
		return 0, false
	}

	switch value := v[slot].(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		parsed, err := strconv.ParseFloat(v.Text(slot), 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	}
}

// Int is Float restricted to whole numbers.
func (v Values) Int(slot Slot) (int, bool) {
	value, ok := v.Float(slot)
	if !ok || value != math.Trunc(value) {
		return 0, false
	}

	return int(value), true
}

// Date parses a YYYY-MM-DD slot.
func (v Values) Date(slot Slot) (time.Time, bool) {
	parsed, err := time.Parse(constant.ISODateFormat, v.Text(slot))
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}
