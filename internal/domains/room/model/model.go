package model

import "kiosk/shared/model"

const (
	TableName  = "room_types"
	EntityName = "room"

	FieldID          = "id"
	FieldTenantID    = "tenant_id"
	FieldCode        = "code"
	FieldActive      = "active"
	FieldNightlyRate = "nightly_rate"
)

// Families are the room categories a guest can name without knowing the exact product.
const (
	FamilyStandard     = "standard"
	FamilyDeluxe       = "deluxe"
	FamilyPresidential = "presidential"
)

var Families = []string{FamilyStandard, FamilyDeluxe, FamilyPresidential}

// Room is a bookable room type of a tenant.
type Room struct {
	ID          string  `db:"id"           json:"id"`
	TenantID    string  `db:"tenant_id"    json:"tenantId"`
	Code        string  `db:"code"         json:"code"`
	Name        string  `db:"name"         json:"name"`
	Family      string  `db:"family"       json:"family"`
	Description string  `db:"description"  json:"description"`
	NightlyRate float64 `db:"nightly_rate" json:"nightlyRate"`
	Capacity    int     `db:"capacity"     json:"capacity"`
	Active      bool    `db:"active"       json:"active"`
	model.Metadata
}
