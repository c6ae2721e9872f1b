package shared_test

import (
	"kiosk/shared"
	"kiosk/shared/constant"
	"kiosk/shared/dto"
	"reflect"
	"testing"
	"time"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{
			name:     "prefix only",
			prefix:   "room:gets",
			expected: "room:gets",
		},
		{
			name:     "prefix with parts",
			prefix:   "session",
			parts:    []string{"grand-hotel", "kiosk-1"},
			expected: "session:grand-hotel:kiosk-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.BuildCacheKey(tt.prefix, tt.parts...); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestTouch(t *testing.T) {
	fields := shared.Touch(map[string]any{"status": "CONFIRMED"}, "kiosk")

	if _, ok := fields[constant.FieldModifiedAt].(time.Time); !ok {
		t.Error("expected modified_at to be a time.Time")
	}

	if fields[constant.FieldModifiedBy] != "kiosk" {
		t.Errorf("expected modified_by to be kiosk, got %v", fields[constant.FieldModifiedBy])
	}

	if fields["status"] != "CONFIRMED" {
		t.Errorf("expected status to be kept, got %v", fields["status"])
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("123", "id", "room_bookings")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "123",
				Operator: dto.FilterOperatorEq,
				Table:    "room_bookings",
			},
		},
	}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %+v, got %+v", expected, result)
	}
}

func TestFilterByFields(t *testing.T) {
	group := shared.FilterByFields("room_bookings", map[string]any{
		"tenant_id": "t-1",
		"id":        "b-1",
	})

	where, args := group.GetWhereClause()

	expectedWhere := "(room_bookings.id = :id AND room_bookings.tenant_id = :tenant_id)"
	if where != expectedWhere {
		t.Errorf("expected %s, got %s", expectedWhere, where)
	}

	if args["id"] != "b-1" || args["tenant_id"] != "t-1" {
		t.Errorf("unexpected args %+v", args)
	}
}
