package normalizer_test

import (
	"kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/dialogue/normalizer"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		expected   model.ExpectedType
		active     model.Slot
		want       string
	}{
		{"string passthrough", "two adults", model.ExpectedString, model.SlotGuestName, "two adults"},
		{"date passthrough", "the twentieth", model.ExpectedDate, model.SlotCheckInDate, "the twentieth"},
		{"digits", "we are 3", model.ExpectedNumber, model.SlotAdults, "3"},
		{"word with filler", "two adults", model.ExpectedNumber, model.SlotAdults, "2"},
		{"teens", "nineteen", model.ExpectedNumber, model.SlotNights, "19"},
		{"tens additive", "twenty one", model.ExpectedNumber, model.SlotNights, "21"},
		{"hyphenated", "thirty-five", model.ExpectedNumber, model.SlotNights, "35"},
		{"hundred", "a hundred and five", model.ExpectedNumber, model.SlotTotalPrice, "105"},
		{"thousand", "two thousand three hundred", model.ExpectedNumber, model.SlotTotalPrice, "2300"},
		{"word inside sentence", "the big one please", model.ExpectedNumber, model.SlotAdults, "1"},
		{"nothing numeric", "hello there", model.ExpectedNumber, model.SlotAdults, "hello there"},
		{"empty", "", model.ExpectedNumber, model.SlotAdults, ""},
		{"duplicated five for adults", "55", model.ExpectedNumber, model.SlotAdults, "5"},
		{"duplicated three for adults", "33", model.ExpectedNumber, model.SlotAdults, "3"},
		{"duplicated five over children bound", "55", model.ExpectedNumber, model.SlotChildren, "55"},
		{"duplicated two for children", "22", model.ExpectedNumber, model.SlotChildren, "2"},
		{"within bound untouched", "4", model.ExpectedNumber, model.SlotAdults, "4"},
		{"unbounded slot untouched", "44", model.ExpectedNumber, model.SlotNights, "44"},
		{"not a multiple of eleven", "45", model.ExpectedNumber, model.SlotAdults, "45"},
		{"first of two counts", "two adults and one child", model.ExpectedNumber, model.SlotAdults, "2"},
		{"first of two digit counts", "2 adults and 1 child", model.ExpectedNumber, model.SlotAdults, "2"},
		{"adjacent units", "one two", model.ExpectedNumber, model.SlotAdults, "1"},
		{"tens then teen", "twenty fifteen", model.ExpectedNumber, model.SlotNights, "20"},
		{"negative answer", "no", model.ExpectedNumber, model.SlotChildren, "no"},
		{"go back", "no, go back", model.ExpectedNumber, model.SlotAdults, "no, go back"},
		{"never mind", "oh never mind, start over", model.ExpectedNumber, model.SlotAdults, "oh never mind, start over"},
		{"change with a number", "change it to three nights", model.ExpectedNumber, model.SlotAdults, "change it to three nights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizer.Normalize(tt.transcript, tt.expected, tt.active))
		})
	}
}

func TestParseNumber(t *testing.T) {
	words := []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}

	for want, word := range words {
		got, ok := normalizer.ParseNumber(word)

		assert.True(t, ok, word)
		assert.Equal(t, want, got, word)
	}

	for _, text := range []string{"adults and children", "no", "oh", "none"} {
		_, ok := normalizer.ParseNumber(text)
		assert.False(t, ok, text)
	}
}

func TestCorrectDuplication(t *testing.T) {
	assert.Equal(t, 5, normalizer.CorrectDuplication(55, model.SlotAdults))
	assert.Equal(t, 3, normalizer.CorrectDuplication(33, model.SlotAdults))
	assert.Equal(t, 55, normalizer.CorrectDuplication(55, model.SlotChildren))
	assert.Equal(t, 110, normalizer.CorrectDuplication(110, model.SlotAdults))
	assert.Equal(t, 4, normalizer.CorrectDuplication(44, model.SlotChildren))
	assert.Equal(t, 66, normalizer.CorrectDuplication(66, model.SlotAdults))
	assert.Equal(t, 55, normalizer.CorrectDuplication(55, model.SlotGuestName))
}
