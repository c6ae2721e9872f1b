package model

import (
	"crypto/sha256"
	"encoding/hex"
	"kiosk/shared/model"
	"strings"
	"time"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldTenantID       = "tenant_id"
	FieldRoomTypeID     = "room_type_id"
	FieldGuestName      = "guest_name"
	FieldCheckInDate    = "check_in_date"
	FieldCheckOutDate   = "check_out_date"
	FieldAdults         = "adults"
	FieldChildren       = "children"
	FieldNights         = "nights"
	FieldTotalPrice     = "total_price"
	FieldStatus         = "status"
	FieldIdempotencyKey = "idempotency_key"
	FieldSessionID      = "session_id"
)

const (
	StatusDraft     = "DRAFT"
	StatusConfirmed = "CONFIRMED"
)

type Booking struct {
	ID             string    `db:"id"`
	TenantID       string    `db:"tenant_id"`
	RoomTypeID     string    `db:"room_type_id"`
	SessionID      string    `db:"session_id"`
	GuestName      string    `db:"guest_name"`
	CheckInDate    time.Time `db:"check_in_date"`
	CheckOutDate   time.Time `db:"check_out_date"`
	Adults         int       `db:"adults"`
	Children       int       `db:"children"`
	Nights         int       `db:"nights"`
	TotalPrice     float64   `db:"total_price"`
	Status         string    `db:"status"`
	IdempotencyKey string    `db:"idempotency_key"`
	model.Metadata
}

// Overlaps treats stays as half-open ranges, so a check-out day can be the next check-in day.
func (b Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && checkIn.Before(b.CheckOutDate)
}

// IdempotencyKey fingerprints a booking request so a retried turn maps to the same row.
func IdempotencyKey(tenantID, sessionID, roomTypeID, checkIn, checkOut, guestName string) string {
	name := strings.Join(strings.Fields(strings.ToLower(guestName)), " ")
	sum := sha256.Sum256([]byte(strings.Join([]string{tenantID, sessionID, roomTypeID, checkIn, checkOut, name}, "|")))

	return hex.EncodeToString(sum[:])
}
