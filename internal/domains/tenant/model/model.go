package model

import (
	"context"
	"kiosk/shared/constant"
	"kiosk/shared/failure"
	"kiosk/shared/model"
)

const (
	TableName  = "tenants"
	EntityName = "tenant"

	FieldID     = "id"
	FieldSlug   = "slug"
	FieldActive = "active"
)

// Tenant is a hotel property running kiosks.
type Tenant struct {
	ID           string `db:"id"             json:"id"`
	Slug         string `db:"slug"           json:"slug"`
	Name         string `db:"name"           json:"name"`
	Timezone     string `db:"timezone"       json:"timezone"`
	CheckInTime  string `db:"check_in_time"  json:"checkInTime"`
	CheckOutTime string `db:"check_out_time" json:"checkOutTime"`
	Currency     string `db:"currency"       json:"currency"`
	Active       bool   `db:"active"         json:"active"`
	model.Metadata
}

// WithContext stores the tenant resolved for the current request.
func WithContext(ctx context.Context, tenant Tenant) context.Context {
	return context.WithValue(ctx, constant.ContextKeyTenant, tenant)
}

func FromContext(ctx context.Context) (Tenant, bool) {
	tenant, ok := ctx.Value(constant.ContextKeyTenant).(Tenant)

	return tenant, ok
}

// Require is FromContext for handlers mounted under the tenant resolver. A miss is a TENANT_NOT_FOUND failure.
func Require(ctx context.Context) (Tenant, error) {
	tenant, ok := FromContext(ctx)
	if !ok {
		return Tenant{}, failure.NotFoundWithCode("tenant not found", failure.CodeTenantNotFound)
	}

	return tenant, nil
}
