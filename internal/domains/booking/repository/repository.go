package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"kiosk/infras/otel"
	"kiosk/infras/postgres"
	"kiosk/internal/domains/booking/model"
	roomModel "kiosk/internal/domains/room/model"
	"kiosk/shared"
	"kiosk/shared/constant"
	gDto "kiosk/shared/dto"
	gRepo "kiosk/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
	// LockRoom takes a row lock on the room type, serialising bookings for it. It reports false if the room is gone.
	LockRoom(ctx context.Context, tx *sqlx.Tx, tenantID, roomTypeID string) (bool, error)
	// ConfirmedForRoom lists confirmed bookings of a room, leaving out the given ids and idempotency key.
	ConfirmedForRoom(ctx context.Context, tx *sqlx.Tx, tenantID, roomTypeID, excludeKey string, excludeIDs ...string) ([]model.Booking, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	rooms gRepo.Repository[roomModel.Room]
	otel  otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		rooms:      gRepo.NewRepository[roomModel.Room](roomModel.EntityName, roomModel.TableName, roomModel.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) LockRoom(ctx context.Context, tx *sqlx.Tx, tenantID, roomTypeID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockRoom")
	defer scope.End()

	room, err := r.rooms.GetForUpdateTx(ctx, tx, shared.FilterByFields(roomModel.TableName, map[string]any{
		roomModel.FieldID:       roomTypeID,
		roomModel.FieldTenantID: tenantID,
	}), roomModel.FieldID)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to lock room type: %w", err)
	}

	return room.ID != constant.Empty, nil
}

func (r *repositoryImpl) ConfirmedForRoom(ctx context.Context, tx *sqlx.Tx, tenantID, roomTypeID, excludeKey string, excludeIDs ...string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ConfirmedForRoom")
	defer scope.End()

	filter := shared.FilterByFields(model.TableName, map[string]any{
		model.FieldTenantID:   tenantID,
		model.FieldRoomTypeID: roomTypeID,
		model.FieldStatus:     model.StatusConfirmed,
	})

	for i, id := range excludeIDs {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  fmt.Sprintf("exclude_id_%d", i),
			Field:    model.FieldID,
			Value:    id,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	if excludeKey != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_key",
			Field:    model.FieldIdempotencyKey,
			Value:    excludeKey,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	bookings, err := r.GetAllTx(ctx, tx, gDto.QueryParams{}, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to scan confirmed bookings: %w", err)
	}

	return bookings, nil
}
