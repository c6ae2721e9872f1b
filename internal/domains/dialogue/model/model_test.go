package model_test

import (
	"kiosk/internal/domains/dialogue/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_Filled(t *testing.T) {
	values := model.Values{
		model.SlotRoomType:  "deluxe",
		model.SlotAdults:    float64(2),
		model.SlotGuestName: "   ",
		model.SlotChildren:  nil,
	}

	assert.True(t, values.Filled(model.SlotRoomType))
	assert.True(t, values.Filled(model.SlotAdults))
	assert.False(t, values.Filled(model.SlotGuestName))
	assert.False(t, values.Filled(model.SlotChildren))
	assert.False(t, values.Filled(model.SlotCheckInDate))
}

func TestValues_Missing(t *testing.T) {
	values := model.Values{
		model.SlotRoomType: "deluxe",
		model.SlotAdults:   2,
	}

	assert.Equal(t, []model.Slot{model.SlotCheckInDate, model.SlotCheckOutDate, model.SlotGuestName}, values.Missing())

	values[model.SlotCheckInDate] = "2026-10-20"
	values[model.SlotCheckOutDate] = "2026-10-22"
	values[model.SlotGuestName] = "John Smith"

	assert.Empty(t, values.Missing())
}

func TestSlot_Metadata(t *testing.T) {
	tests := []struct {
		slot     model.Slot
		expected model.ExpectedType
		bound    int
		intent   model.Intent
	}{
		{model.SlotAdults, model.ExpectedNumber, 4, model.IntentProvideGuests},
		{model.SlotChildren, model.ExpectedNumber, 3, model.IntentProvideGuests},
		{model.SlotCheckInDate, model.ExpectedDate, 0, model.IntentProvideDates},
		{model.SlotGuestName, model.ExpectedString, 0, model.IntentProvideName},
		{model.SlotRoomType, model.ExpectedString, 0, model.IntentSelectRoom},
	}

	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.slot.ExpectedType())
			assert.Equal(t, tt.bound, tt.slot.Bound())
			assert.Equal(t, tt.intent, tt.slot.Intent())
		})
	}

	assert.Equal(t, model.IntentUnknown, model.Slot("petName").Intent())
}

func TestIntent_SlotFilling(t *testing.T) {
	assert.True(t, model.IntentProvideName.SlotFilling())
	assert.True(t, model.IntentConfirmBooking.SlotFilling())
	assert.False(t, model.IntentGeneralQuery.SlotFilling())
	assert.False(t, model.IntentCancelBooking.SlotFilling())

	assert.True(t, model.IntentHelp.Valid())
	assert.False(t, model.Intent("BOOK").Valid())
}

func TestHasTopicChangeCue(t *testing.T) {
	assert.True(t, model.HasTopicChangeCue("Actually, never mind"))
	assert.True(t, model.HasTopicChangeCue("I want to CHANGE the dates"))
	assert.False(t, model.HasTopicChangeCue("John Smith"))
}

func TestValues_TypedAccessors(t *testing.T) {
	values := model.Values{
		model.SlotAdults:      float64(2),
		model.SlotChildren:    "1",
		model.SlotNights:      2.5,
		model.SlotTotalPrice:  "three hundred",
		model.SlotCheckInDate: "2026-10-20",
		model.SlotGuestName:   "John Smith",
	}

	adults, ok := values.Int(model.SlotAdults)
	assert.True(t, ok)
	assert.Equal(t, 2, adults)

	children, ok := values.Int(model.SlotChildren)
	assert.True(t, ok)
	assert.Equal(t, 1, children)

	_, ok = values.Int(model.SlotNights)
	assert.False(t, ok)

	_, ok = values.Float(model.SlotTotalPrice)
	assert.False(t, ok)

	checkIn, ok := values.Date(model.SlotCheckInDate)
	assert.True(t, ok)
	assert.Equal(t, 20, checkIn.Day())

	_, ok = values.Date(model.SlotGuestName)
	assert.False(t, ok)
}
