// Package normalizer cleans up speech-to-text transcripts before they reach the model.
// Its output is advisory: when nothing can be parsed the transcript is passed through untouched.
package normalizer

import (
	"kiosk/internal/domains/dialogue/model"
	"regexp"
	"strconv"
	"strings"
)

const (
	duplicationFactor = 11
	duplicationMin    = 10
	duplicationMax    = 99
	duplicationSlack  = 1 // corrected value may overshoot the bound by one; slot validation rejects it later
)

var (
	digitsPattern = regexp.MustCompile(`\d+`)
	tokenSplitter = regexp.MustCompile(`[\s\-,.!?;:]+`)
)

var units = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var multipliers = map[string]int{
	"hundred":  100,
	"thousand": 1000,
}

// Normalize rewrites a numeric answer to its decimal form. Non-numeric expectations and
// utterances steering away from the active slot pass through.
func Normalize(transcript string, expected model.ExpectedType, active model.Slot) string {
	if expected != model.ExpectedNumber || model.HasTopicChangeCue(transcript) {
		return transcript
	}

	value, ok := ParseNumber(transcript)
	if !ok {
		return transcript
	}

	return strconv.Itoa(CorrectDuplication(value, active))
}

// ParseNumber reads the first digit run, or failing that a spelled-out number.
func ParseNumber(text string) (int, bool) {
	if digits := digitsPattern.FindString(text); digits != "" {
		value, err := strconv.Atoi(digits)
		if err == nil {
			return value, true
		}
	}

	return parseWords(text)
}

type wordKind int

const (
	wordNone wordKind = iota
	wordUnit
	wordTens
	wordScale
)

// parseWords reads the first spelled-out number. A number ends at the first word that cannot
// extend it, so "two adults and one child" is 2 and "one two" is 1.
func parseWords(text string) (int, bool) {
	var total, current int

	last := wordNone

	for _, token := range tokenSplitter.Split(strings.ToLower(text), -1) {
		if token == "" {
			continue
		}

		if value, ok := units[token]; ok {
			if last == wordUnit || (last == wordTens && value >= 10) {
				break
			}

			current += value
			last = wordUnit

			continue
		}

		if value, ok := tens[token]; ok {
			if last == wordUnit || last == wordTens {
				break
			}

			current += value
			last = wordTens

			continue
		}

		if factor, ok := multipliers[token]; ok {
			if factor == multipliers["hundred"] {
				current = max(current, 1) * factor
			} else {
				total += max(current, 1) * factor
				current = 0
			}

			last = wordScale

			continue
		}

		// "one hundred and five" keeps going; any other word after a number ends it.
		if last == wordNone || (last == wordScale && token == "and") {
			continue
		}

		break
	}

	return total + current, last != wordNone
}

// CorrectDuplication undoes the recognizer echo that turns "five" into "55" for bounded counts.
func CorrectDuplication(value int, active model.Slot) int {
	bound := active.Bound()
	if bound == 0 || value <= bound {
		return value
	}

	if value < duplicationMin || value > duplicationMax || value%duplicationFactor != 0 {
		return value
	}

	if corrected := value / duplicationFactor; corrected <= bound+duplicationSlack {
		return corrected
	}

	return value
}
