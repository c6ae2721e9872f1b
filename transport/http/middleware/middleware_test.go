package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kiosk/config"
	"kiosk/infras/otel/mocks"
	tenantMocks "kiosk/internal/domains/tenant/mocks"
	tenantModel "kiosk/internal/domains/tenant/model"
	cacheMocks "kiosk/shared/cache/mocks"
	"kiosk/shared/failure"
	"kiosk/transport/http/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth_APIKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "open when no key is configured", wantStatus: http.StatusNoContent},
		{name: "missing key", configured: "secret", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", configured: "secret", header: "guess", wantStatus: http.StatusForbidden},
		{name: "matching key", configured: "secret", header: "secret", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.App.APIKey = tt.configured

			handler := middleware.NewAuthMiddleware(mocks.NewOtel(), cfg).APIKey(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTenant_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := tenantMocks.NewMockTenantService(ctrl)
	resolver := middleware.NewTenantMiddleware(svc, mocks.NewOtel())

	var seen tenantModel.Tenant

	router := chi.NewRouter()
	router.With(resolver.Resolve).Get("/v1/tenants/{tenant}/rooms", func(w http.ResponseWriter, r *http.Request) {
		seen, _ = tenantModel.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	svc.EXPECT().GetBySlug(gomock.Any(), "grand").Return(tenantModel.Tenant{ID: "tenant-1", Slug: "grand"}, nil)
	svc.EXPECT().GetBySlug(gomock.Any(), "gone").
		Return(tenantModel.Tenant{}, failure.NotFoundWithCode("tenant not found", failure.CodeTenantNotFound))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants/grand/rooms", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tenant-1", seen.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants/gone/rooms", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), failure.CodeTenantNotFound)
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache).RateLimit()(okHandler())

	tests := []struct {
		name       string
		setupMock  func()
		wantStatus int
	}{
		{
			name: "first request opens the window",
			setupMock: func() {
				mockCache.EXPECT().Incr(gomock.Any(), gomock.Any(), time.Minute).Return(int64(1), nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "last request inside the limit",
			setupMock: func() {
				mockCache.EXPECT().Incr(gomock.Any(), gomock.Any(), time.Minute).Return(int64(2), nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "over the limit",
			setupMock: func() {
				mockCache.EXPECT().Incr(gomock.Any(), gomock.Any(), time.Minute).Return(int64(3), nil)
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "cache outage lets the request through",
			setupMock: func() {
				mockCache.EXPECT().Incr(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tenants/grand/dialogue/turns", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
