package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kiosk/config"
	"kiosk/infras/otel/mocks"
	tenantMocks "kiosk/internal/domains/tenant/mocks"
	"kiosk/internal/domains/tenant/model"
	"kiosk/internal/domains/tenant/service"
	cacheMocks "kiosk/shared/cache/mocks"
	"kiosk/shared/failure"
)

func TestTenantService_GetBySlug(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := tenantMocks.NewMockTenant(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 3600).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		slug      string
		setupMock func()
		wantID    string
		wantCode  int
	}{
		{
			name: "cache hit",
			slug: "grand-hotel",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "tenant:get:grand-hotel", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						tenant, _ := value.(*model.Tenant)
						tenant.ID = "tenant-1"

						return nil
					})
			},
			wantID: "tenant-1",
		},
		{
			name: "cache miss loads from repository",
			slug: "grand-hotel",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Tenant{ID: "tenant-1", Slug: "grand-hotel", Active: true}, nil)
			},
			wantID: "tenant-1",
		},
		{
			name: "unknown tenant",
			slug: "nowhere",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Tenant{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "empty slug",
			slug:      "",
			setupMock: func() {},
			wantCode:  http.StatusNotFound,
		},
		{
			name: "repository error",
			slug: "grand-hotel",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Tenant{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			tenant, err := svc.GetBySlug(context.Background(), tt.slug)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusNotFound {
					assert.Equal(t, failure.CodeTenantNotFound, failure.GetErrorCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, tenant.ID)
		})
	}
}
