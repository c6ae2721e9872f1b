package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kiosk/config"
	"kiosk/infras/otel/mocks"
	dialogueMocks "kiosk/internal/domains/dialogue/mocks"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/dialogue/orchestrator"
	roomModel "kiosk/internal/domains/room/model"
	sessionModel "kiosk/internal/domains/session/model"
	tenantModel "kiosk/internal/domains/tenant/model"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Dialogue.HistoryTurns = 2
	cfg.Advisor.TimeoutSeconds = 5
	cfg.Advisor.Breaker.MaxRequests = 1
	cfg.Advisor.Breaker.IntervalSeconds = 60
	cfg.Advisor.Breaker.TimeoutSeconds = 60
	cfg.Advisor.Breaker.MinRequests = 2
	cfg.Advisor.Breaker.FailureRatio = 0.5

	return cfg
}

func testInput() orchestrator.Input {
	session := sessionModel.New("kiosk-1", "tenant-1")
	session.Slots[model.SlotRoomType] = "deluxe"
	session.Append(model.RoleUser, "hi")
	session.Append(model.RoleAssistant, "Welcome!")
	session.Append(model.RoleUser, "a deluxe room")
	session.Append(model.RoleAssistant, "How many adults?")

	return orchestrator.Input{
		Tenant: tenantModel.Tenant{
			ID:           "tenant-1",
			Name:         "Harbor View",
			Timezone:     "Asia/Jakarta",
			CheckInTime:  "14:00",
			CheckOutTime: "12:00",
			Currency:     "USD",
		},
		Rooms: []roomModel.Room{
			{Code: "DLX", Name: "Deluxe King", Family: roomModel.FamilyDeluxe, NightlyRate: 150},
		},
		Session:          session,
		Transcript:       "2",
		ActiveSlot:       model.SlotAdults,
		ExpectedType:     model.ExpectedNumber,
		LastSystemPrompt: "How many adults?",
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"prose around", `Sure! {"speech":"hi"} hope that helps {"x":1}`, `{"speech":"hi"}`, true},
		{"braces in strings", `{"speech":"use } and { freely \" ok"}`, `{"speech":"use } and { freely \" ok"}`, true},
		{"unbalanced", `{"speech":"hi"`, "", false},
		{"no object", "I cannot help with that.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := orchestrator.ExtractJSON(tt.raw)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"speech":"How many adults?","intent":"SELECT_ROOM","confidence":0.9,"extractedSlots":{"roomType":"deluxe"},"nextSlotToAsk":"adults"}`, false},
		{"missing speech", `{"intent":"GREETING","confidence":0.9}`, true},
		{"missing confidence", `{"speech":"hi","intent":"GREETING"}`, true},
		{"zero confidence allowed", `{"speech":"hi","intent":"GREETING","confidence":0}`, false},
		{"confidence out of range", `{"speech":"hi","intent":"GREETING","confidence":1.5}`, true},
		{"unknown intent", `{"speech":"hi","intent":"BOOK","confidence":0.5}`, true},
		{"unknown next slot", `{"speech":"hi","intent":"GREETING","confidence":0.5,"nextSlotToAsk":"petName"}`, true},
		{"wrong type", `{"speech":"hi","intent":"GREETING","confidence":"high"}`, true},
		{"no json", `hello`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestion, err := orchestrator.Parse(tt.raw)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, suggestion.Speech)
		})
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	now := time.Date(2026, 10, 16, 3, 0, 0, 0, time.UTC)

	prompt := orchestrator.BuildSystemPrompt(testInput(), now)

	assert.Contains(t, prompt, "Hotel: Harbor View")
	assert.Contains(t, prompt, "Friday 2026-10-16 10:00 (Asia/Jakarta)")
	assert.Contains(t, prompt, "Check-in from 14:00, check-out by 12:00")
	assert.Contains(t, prompt, "Deluxe King (deluxe, code DLX): 150.00 USD per night")
	assert.Contains(t, prompt, "Collected so far: roomType=deluxe")
	assert.Contains(t, prompt, "Still needed: adults, checkInDate, checkOutDate, guestName")
	assert.Contains(t, prompt, `The kiosk last said: "How many adults?"`)
	assert.Contains(t, prompt, "asking for adults (expected number)")
	assert.Contains(t, prompt, "use intent PROVIDE_GUESTS")
	assert.Contains(t, prompt, "acceptable intents are PROVIDE_GUESTS, BOOK_ROOM, SELECT_ROOM, PROVIDE_DATES, PROVIDE_NAME, CONFIRM_BOOKING;")
	assert.Contains(t, prompt, "use CANCEL_BOOKING or MODIFY_BOOKING only when the guest asks to stop or change the booking")
}

func TestOrchestrator_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdvisor := dialogueMocks.NewMockAdvisor(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "single call with bounded history",
			setupMock: func() {
				mockAdvisor.EXPECT().
					Advise(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, prompt model.Prompt) (string, error) {
						_, hasDeadline := ctx.Deadline()
						assert.True(t, hasDeadline)
						assert.Len(t, prompt.History, 2)
						assert.Equal(t, "2", prompt.Message)
						assert.True(t, strings.HasPrefix(prompt.System, "You are the voice concierge"))

						return "```json\n{\"speech\":\"Two adults, got it.\",\"intent\":\"PROVIDE_GUESTS\",\"confidence\":0.92,\"extractedSlots\":{\"adults\":2}}\n```", nil
					}).
					Times(1)
			},
		},
		{
			name: "schema failure",
			setupMock: func() {
				mockAdvisor.EXPECT().
					Advise(gomock.Any(), gomock.Any()).
					Return(`{"speech":"","intent":"PROVIDE_GUESTS","confidence":0.9}`, nil)
			},
			wantErr: true,
		},
		{
			name: "timeout",
			setupMock: func() {
				mockAdvisor.EXPECT().
					Advise(gomock.Any(), gomock.Any()).
					Return("", context.DeadlineExceeded)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := orchestrator.New(mockAdvisor, testConfig(), mocks.NewOtel())

			tt.setupMock()

			suggestion, err := orch.Run(context.Background(), testInput())

			if tt.wantErr {
				assert.ErrorIs(t, err, orchestrator.ErrNoSuggestion)
				assert.Empty(t, suggestion.Speech)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.IntentProvideGuests, suggestion.Intent)
			assert.InDelta(t, 0.92, suggestion.ConfidenceValue(), 0.0001)
		})
	}
}

func TestOrchestrator_BreakerOpens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdvisor := dialogueMocks.NewMockAdvisor(ctrl)
	orch := orchestrator.New(mockAdvisor, testConfig(), mocks.NewOtel())

	mockAdvisor.EXPECT().
		Advise(gomock.Any(), gomock.Any()).
		Return("", errors.New("upstream unavailable")).
		Times(2)

	for range 2 {
		_, err := orch.Run(context.Background(), testInput())
		assert.ErrorIs(t, err, orchestrator.ErrNoSuggestion)
	}

	_, err := orch.Run(context.Background(), testInput())
	assert.ErrorIs(t, err, orchestrator.ErrNoSuggestion)
}
