package dialogue_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kiosk/infras/otel/mocks"
	dialogueMocks "kiosk/internal/domains/dialogue/mocks"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/dialogue/model/dto"
	tenantModel "kiosk/internal/domains/tenant/model"
	"kiosk/internal/handlers/dialogue"
	"kiosk/shared/failure"
)

func newRouter(svc *dialogueMocks.MockDialogue, withTenant bool) http.Handler {
	handler := dialogue.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1/tenants/{tenant}", func(r chi.Router) {
		if withTenant {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					tenant := tenantModel.Tenant{ID: "tenant-1", Slug: chi.URLParam(r, "tenant")}
					next.ServeHTTP(w, r.WithContext(tenantModel.WithContext(r.Context(), tenant)))
				})
			})
		}

		handler.Router(r)
	})

	return router
}

func TestHandler_Turn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := dialogueMocks.NewMockDialogue(ctrl)
	router := newRouter(svc, true)

	tests := []struct {
		name       string
		body       string
		setupMock  func()
		wantStatus int
		assertBody func(t *testing.T, body map[string]any)
	}{
		{
			name: "turn answered at top level",
			body: `{"transcript":"two adults","sessionId":"kiosk-1","activeSlot":"adults"}`,
			setupMock: func() {
				svc.EXPECT().
					Turn(gomock.Any(), tenantModel.Tenant{ID: "tenant-1", Slug: "grand"}, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ tenantModel.Tenant, req dto.TurnRequest) (dto.TurnResponse, error) {
						assert.Equal(t, "two adults", req.Transcript)
						assert.Equal(t, "kiosk-1", req.SessionID)

						return dto.TurnResponse{
							Speech:           "Which dates?",
							Intent:           model.IntentProvideGuests,
							Confidence:       0.9,
							ExtractedSlots:   map[string]any{"adults": 2},
							AccumulatedSlots: map[string]any{"adults": 2},
							MissingSlots:     []string{"roomType"},
						}, nil
					})
			},
			wantStatus: http.StatusOK,
			assertBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Which dates?", body["speech"])
				assert.Equal(t, string(model.IntentProvideGuests), body["intent"])
				assert.Nil(t, body["persistedBookingId"])
				assert.NotContains(t, body, "data")
			},
		},
		{
			name:       "malformed body",
			body:       `{"transcript":`,
			setupMock:  func() {},
			wantStatus: http.StatusBadRequest,
			assertBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, model.FallbackSpeech, body["speech"])
				assert.Equal(t, failure.CodeValidation, body["code"])
			},
		},
		{
			name: "booking conflict",
			body: `{"transcript":"yes please"}`,
			setupMock: func() {
				svc.EXPECT().Turn(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(dto.TurnResponse{}, failure.ConflictWithCode("the room is already booked for those dates", failure.CodeBookingDateConflict))
			},
			wantStatus: http.StatusConflict,
			assertBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "the room is already booked for those dates", body["error"])
				assert.Equal(t, failure.CodeBookingDateConflict, body["code"])
			},
		},
		{
			name: "internal error never leaks its text",
			body: `{"transcript":"yes please"}`,
			setupMock: func() {
				svc.EXPECT().Turn(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(dto.TurnResponse{}, errors.New("pq: connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			assertBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, http.StatusText(http.StatusInternalServerError), body["error"])
				assert.Equal(t, model.FallbackSpeech, body["speech"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/v1/tenants/grand/dialogue/turns", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			tt.assertBody(t, body)
		})
	}
}

func TestHandler_TurnWithoutTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := newRouter(dialogueMocks.NewMockDialogue(ctrl), false)

	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/grand/dialogue/turns", strings.NewReader(`{"transcript":"hi"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), failure.CodeTenantNotFound)
}

func TestHandler_EndSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := dialogueMocks.NewMockDialogue(ctrl)
	router := newRouter(svc, true)

	svc.EXPECT().
		EndSession(gomock.Any(), gomock.Any(), "kiosk-1").
		Return(dto.EndSessionResponse{SessionID: "kiosk-1", Cleared: true}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/tenants/grand/dialogue/sessions/kiosk-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.EndSessionResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Cleared)
	assert.Equal(t, "kiosk-1", body.Data.SessionID)
}
