package dto

import (
	"kiosk/internal/domains/room/model"
	gDto "kiosk/shared/dto"
)

type RoomResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Family      string  `json:"family"`
	Description string  `json:"description"`
	NightlyRate float64 `json:"nightly_rate"`
	Capacity    int     `json:"capacity"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Code = model.Code
	r.Name = model.Name
	r.Family = model.Family
	r.Description = model.Description
	r.NightlyRate = model.NightlyRate
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room) {
	r.TotalData = len(models)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
