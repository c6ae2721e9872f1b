package dto

import (
	"kiosk/internal/domains/booking/model"
	dialogue "kiosk/internal/domains/dialogue/model"
	"kiosk/shared/constant"
	gDto "kiosk/shared/dto"
)

// PersistRequest carries the reconciled slot state of one turn to the transactor.
type PersistRequest struct {
	TenantID  string
	SessionID string
	BookingID *string
	Slots     dialogue.Values
	Intent    dialogue.Intent
}

// PersistResult is empty when the slots were not yet bookable.
type PersistResult struct {
	BookingID string
	Status    string
	Skipped   bool
	Reason    string
}

func Skipped(reason string) PersistResult {
	return PersistResult{Skipped: true, Reason: reason}
}

type BookingResponse struct {
	ID           string  `json:"id"`
	RoomTypeID   string  `json:"room_type_id"`
	GuestName    string  `json:"guest_name"`
	CheckInDate  string  `json:"check_in_date"`
	CheckOutDate string  `json:"check_out_date"`
	Adults       int     `json:"adults"`
	Children     int     `json:"children"`
	Nights       int     `json:"nights"`
	TotalPrice   float64 `json:"total_price"`
	Status       string  `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomTypeID = model.RoomTypeID
	r.GuestName = model.GuestName
	r.CheckInDate = model.CheckInDate.Format(constant.ISODateFormat)
	r.CheckOutDate = model.CheckOutDate.Format(constant.ISODateFormat)
	r.Adults = model.Adults
	r.Children = model.Children
	r.Nights = model.Nights
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalData int               `json:"total_data"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, total int, params gDto.QueryParams) {
	r.TotalData = total
	r.Page = params.Page
	r.Limit = params.Limit

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
