package dto_test

import (
	"kiosk/shared/constant"
	"kiosk/shared/dto"
	"kiosk/shared/model"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: createdAt.Add(time.Hour),
		CreatedBy:  constant.SystemUser,
		ModifiedBy: constant.SystemUser,
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEqual(t, metadata.CreatedAt, metadata.ModifiedAt)
	assert.Equal(t, constant.SystemUser, metadata.CreatedBy)
	assert.Equal(t, constant.SystemUser, metadata.ModifiedBy)
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "empty group",
			group:     dto.FilterGroup{},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name: "operator defaults to AND",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "tenant_id", Value: "t-1", Operator: dto.FilterOperatorEq, Table: "room_bookings"},
				dto.Filter{ArgName: "exclude_id_0", Field: "id", Value: "b-1", Operator: dto.FilterOperatorNotEq, Table: "room_bookings"},
			}},
			wantWhere: "(room_bookings.tenant_id = :tenant_id AND room_bookings.id != :exclude_id_0)",
			wantArgs:  map[string]any{"tenant_id": "t-1", "exclude_id_0": "b-1"},
		},
		{
			name: "nested group and unknown operator",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Value: "CONFIRMED", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "guest_name", Value: "x", Operator: "like"},
					dto.FilterGroup{Filters: []any{
						dto.Filter{Field: "nights", Value: 2, Operator: dto.FilterOperatorGreaterEq},
						dto.Filter{ArgName: "max_nights", Field: "nights", Value: 7, Operator: dto.FilterOperatorLessEq},
					}},
				},
			},
			wantWhere: "(status = :status OR (nights >= :nights AND nights <= :max_nights))",
			wantArgs:  map[string]any{"status": "CONFIRMED", "nights": 2, "max_nights": 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=check_in_date&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in_date", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
		{
			name:         "malformed values fall back",
			query:        "page=-1&limit=abc&sort_dir=sideways",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "limit is capped",
			query:        "limit=5000",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.MaxValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/tenants/grand/bookings?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.expected, params)
		})
	}
}
