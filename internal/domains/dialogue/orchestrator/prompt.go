package orchestrator

import (
	"fmt"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/shared/constant"
	"kiosk/shared/timezone"
	"sort"
	"strings"
	"time"
)

const instructions = `You are the voice concierge of a hotel self-service kiosk. Help the guest book a room one question at a time.
Answer with a single JSON object and nothing else:
{"speech": string, "intent": string, "confidence": number 0-1, "extractedSlots": object, "extractedValue": any, "nextSlotToAsk": string, "isComplete": boolean}
intent is one of: %s.
Slots: roomType, adults (1-%d), children (0-%d), checkInDate and checkOutDate (YYYY-MM-DD), guestName, nights, totalPrice.
Only put values the guest actually said into extractedSlots. Keep speech short and friendly.`

// BuildSystemPrompt assembles everything the model needs to know about the tenant and the conversation.
func BuildSystemPrompt(in Input, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, instructions, strings.ReplaceAll(model.IntentOneOf, " ", ", "), model.MaxAdults, model.MaxChildren)
	b.WriteString("\n\n")

	writeSituation(&b, in, now)
	writeInventory(&b, in)
	writeSlots(&b, in)

	if in.LastSystemPrompt != constant.Empty {
		fmt.Fprintf(&b, "\nThe kiosk last said: %q\n", in.LastSystemPrompt)
	}

	if in.ActiveSlot.Valid() {
		writeActiveSlot(&b, in)
	}

	return b.String()
}

func writeSituation(b *strings.Builder, in Input, now time.Time) {
	local := now.In(timezone.LocationOrDefault(in.Tenant.Timezone))

	fmt.Fprintf(b, "Hotel: %s\n", in.Tenant.Name)
	fmt.Fprintf(b, "Local time: %s (%s)\n", local.Format("Monday 2006-01-02 15:04"), local.Location())

	if in.Tenant.CheckInTime != constant.Empty || in.Tenant.CheckOutTime != constant.Empty {
		fmt.Fprintf(b, "Check-in from %s, check-out by %s\n", in.Tenant.CheckInTime, in.Tenant.CheckOutTime)
	}

	fmt.Fprintf(b, "Guest limits: %d-%d adults and up to %d children per room\n", model.MinAdults, model.MaxAdults, model.MaxChildren)
}

func writeInventory(b *strings.Builder, in Input) {
	b.WriteString("\nRooms:\n")

	if len(in.Rooms) == 0 {
		b.WriteString("- none available\n")

		return
	}

	for _, room := range in.Rooms {
		fmt.Fprintf(b, "- %s (%s, code %s): %.2f %s per night", room.Name, room.Family, room.Code, room.NightlyRate, in.Tenant.Currency)

		if room.Description != constant.Empty {
			fmt.Fprintf(b, ", %s", room.Description)
		}

		b.WriteString("\n")
	}
}

func writeSlots(b *strings.Builder, in Input) {
	slots := in.Session.Slots

	filled := make([]string, 0, len(slots))
	for slot := range slots {
		if slots.Filled(slot) {
			filled = append(filled, fmt.Sprintf("%s=%s", slot, slots.Text(slot)))
		}
	}

	sort.Strings(filled)

	b.WriteString("\nCollected so far: ")

	if len(filled) == 0 {
		b.WriteString("nothing")
	} else {
		b.WriteString(strings.Join(filled, ", "))
	}

	missing := slots.Missing()
	names := make([]string, len(missing))

	for i, slot := range missing {
		names[i] = slot.String()
	}

	b.WriteString("\nStill needed: ")

	if len(names) == 0 {
		b.WriteString("nothing, ask the guest to confirm")
	} else {
		b.WriteString(strings.Join(names, ", "))
	}

	b.WriteString("\n")
}

func writeActiveSlot(b *strings.Builder, in Input) {
	expected := in.ExpectedType
	if !expected.Valid() {
		expected = in.ActiveSlot.ExpectedType()
	}

	fmt.Fprintf(b, "\nThe kiosk is asking for %s (expected %s). ", in.ActiveSlot, expected)
	fmt.Fprintf(b, "Treat the reply as an answer to that question and use intent %s unless the guest clearly changes the subject.\n", in.ActiveSlot.Intent())
	fmt.Fprintf(b, "While this question is open the acceptable intents are %s; use %s or %s only when the guest asks to stop or change the booking.\n",
		strings.Join(answerIntents(in.ActiveSlot), ", "), model.IntentCancelBooking, model.IntentModifyBooking)
}

// answerIntents lists the active slot's intent first, then the other
// intents that fill the booking form.
func answerIntents(active model.Slot) []string {
	out := []string{string(active.Intent())}
	for _, intent := range []model.Intent{
		model.IntentBookRoom,
		model.IntentSelectRoom,
		model.IntentProvideGuests,
		model.IntentProvideDates,
		model.IntentProvideName,
		model.IntentConfirmBooking,
	} {
		if intent != active.Intent() {
			out = append(out, string(intent))
		}
	}
	return out
}
