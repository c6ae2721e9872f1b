package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kiosk/config"
	"kiosk/infras/otel"
	"kiosk/internal/domains/booking/model"
	"kiosk/internal/domains/booking/model/dto"
	"kiosk/internal/domains/booking/repository"
	dialogue "kiosk/internal/domains/dialogue/model"
	roomModel "kiosk/internal/domains/room/model"
	roomService "kiosk/internal/domains/room/service"
	"kiosk/shared"
	"kiosk/shared/cache"
	"kiosk/shared/constant"
	gDto "kiosk/shared/dto"
	"kiosk/shared/failure"
	gModel "kiosk/shared/model"
	"kiosk/shared/timezone"
	"slices"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const cacheGetBooking = "booking:get"

const (
	reasonRoomUnresolved = "room type could not be resolved"
	reasonInvalidDates   = "stay dates are missing or check-out is not after check-in"
	reasonInvalidAdults  = "adult count is missing or out of range"
	reasonInvalidKids    = "child count is out of range"
	reasonMissingGuest   = "guest name is missing"
)

var sortableColumns = []string{constant.FieldCreatedAt, model.FieldCheckInDate, model.FieldCheckOutDate, model.FieldTotalPrice}

var (
	errDuplicateKey  = errors.New("booking with the same idempotency key was inserted concurrently")
	errWinnerMissing = errors.New("booking with the same idempotency key could not be read back")
)

type Booking interface {
	// Persist writes the booking described by the session slots exactly once.
	// Incomplete slot state is skipped without error.
	Persist(ctx context.Context, req dto.PersistRequest) (dto.PersistResult, error)
	Get(ctx context.Context, tenantID, id string) (dto.BookingResponse, error)
	// GetAll pages through the bookings of a tenant, optionally narrowed to one kiosk session.
	GetAll(ctx context.Context, tenantID, sessionID string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo  repository.Booking
	rooms roomService.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Booking, rooms roomService.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:  repo,
		rooms: rooms,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Persist(ctx context.Context, req dto.PersistRequest) (res dto.PersistResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Persist")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rooms, err := s.rooms.Inventory(ctx, req.TenantID)
	if err != nil {
		return res, fmt.Errorf("failed to load room inventory: %w", err)
	}

	booking, reason := s.draft(rooms, req)
	if reason != constant.Empty {
		log.Warn().Str("tenantID", req.TenantID).Str("sessionID", req.SessionID).Str("reason", reason).Msg("booking not persisted")

		return dto.Skipped(reason), nil
	}

	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.write(ctx, tx, req.BookingID, &booking)
	})

	if errors.Is(err, errDuplicateKey) {
		booking.ID, booking.Status, err = s.reread(ctx, booking)
	}

	if err != nil {
		if !failure.IsConflict(err) {
			log.Error().Err(err).Str("tenantID", req.TenantID).Str("sessionID", req.SessionID).Msg("failed to persist booking")
		}

		return res, err
	}

	scope.SetAttribute("booking.id", booking.ID)

	go func(id string) {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, req.TenantID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}
	}(booking.ID)

	return dto.PersistResult{BookingID: booking.ID, Status: booking.Status}, nil
}

// reread returns the row that won a concurrent insert. It reads on the write node, which the replica may trail.
func (s *serviceImpl) reread(ctx context.Context, booking model.Booking) (id, status string, err error) {
	var existing model.Booking

	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var getErr error

		existing, getErr = s.repo.GetTx(ctx, tx, byIdempotencyKey(booking.TenantID, booking.IdempotencyKey))

		return getErr
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to reread booking after duplicate insert: %w", err)
	}

	if existing.ID == constant.Empty {
		return "", "", errWinnerMissing
	}

	return existing.ID, existing.Status, nil
}

// draft derives the booking row from slots, or explains why the slots are not bookable yet.
func (s *serviceImpl) draft(rooms []roomModel.Room, req dto.PersistRequest) (model.Booking, string) {
	slots := req.Slots

	room, ok := roomService.Resolve(rooms, slots.Text(dialogue.SlotRoomType))
	if !ok {
		return model.Booking{}, reasonRoomUnresolved
	}

	checkIn, okIn := slots.Date(dialogue.SlotCheckInDate)
	checkOut, okOut := slots.Date(dialogue.SlotCheckOutDate)

	if !okIn || !okOut || !checkOut.After(checkIn) {
		return model.Booking{}, reasonInvalidDates
	}

	adults, ok := slots.Int(dialogue.SlotAdults)
	if !ok || adults < dialogue.MinAdults || adults > dialogue.MaxAdults {
		return model.Booking{}, reasonInvalidAdults
	}

	children := 0
	if slots.Filled(dialogue.SlotChildren) {
		children, ok = slots.Int(dialogue.SlotChildren)
		if !ok || children < 0 || children > dialogue.MaxChildren {
			return model.Booking{}, reasonInvalidKids
		}
	}

	guestName := slots.Text(dialogue.SlotGuestName)
	if guestName == constant.Empty {
		return model.Booking{}, reasonMissingGuest
	}

	nights, ok := slots.Int(dialogue.SlotNights)
	if !ok || nights <= 0 {
		nights = max(int(checkOut.Sub(checkIn).Hours()/constant.HoursPerDay), 1)
	}

	totalPrice, ok := slots.Float(dialogue.SlotTotalPrice)
	if !ok || totalPrice < 0 {
		totalPrice = room.NightlyRate * float64(nights)
	}

	status := model.StatusDraft
	if req.Intent == dialogue.IntentConfirmBooking {
		status = model.StatusConfirmed
	}

	now := timezone.Now()

	return model.Booking{
		TenantID:     req.TenantID,
		RoomTypeID:   room.ID,
		SessionID:    req.SessionID,
		GuestName:    guestName,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Adults:       adults,
		Children:     children,
		Nights:       nights,
		TotalPrice:   totalPrice,
		Status:       status,
		IdempotencyKey: model.IdempotencyKey(
			req.TenantID,
			req.SessionID,
			room.ID,
			checkIn.Format(constant.ISODateFormat),
			checkOut.Format(constant.ISODateFormat),
			guestName,
		),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  constant.SystemUser,
			ModifiedBy: constant.SystemUser,
		},
	}, constant.Empty
}

// write runs under the room row lock. It fills in booking.ID and booking.Status with what was stored.
func (s *serviceImpl) write(ctx context.Context, tx *sqlx.Tx, bookingID *string, booking *model.Booking) error {
	found, err := s.repo.LockRoom(ctx, tx, booking.TenantID, booking.RoomTypeID)
	if err != nil {
		return fmt.Errorf("failed to lock room type: %w", err)
	}

	if !found {
		return failure.NotFound("room type not found") //nolint:wrapcheck
	}

	excludeIDs := []string{}
	if bookingID != nil && *bookingID != constant.Empty {
		excludeIDs = append(excludeIDs, *bookingID)
	}

	confirmed, err := s.repo.ConfirmedForRoom(ctx, tx, booking.TenantID, booking.RoomTypeID, booking.IdempotencyKey, excludeIDs...)
	if err != nil {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	for _, existing := range confirmed {
		if existing.Overlaps(booking.CheckInDate, booking.CheckOutDate) {
			log.Warn().
				Str("tenantID", booking.TenantID).
				Str("roomTypeID", booking.RoomTypeID).
				Str("conflictsWith", existing.ID).
				Msg("booking dates conflict with a confirmed booking")

			return failure.ConflictWithCode("the room is already booked for those dates", failure.CodeBookingDateConflict) //nolint:wrapcheck
		}
	}

	if len(excludeIDs) > 0 {
		return s.updateOwned(ctx, tx, excludeIDs[0], booking)
	}

	current, err := s.repo.GetTx(ctx, tx, byIdempotencyKey(booking.TenantID, booking.IdempotencyKey))
	if err != nil {
		return fmt.Errorf("failed to look up booking by idempotency key: %w", err)
	}

	if current.ID != constant.Empty {
		return s.reuse(ctx, tx, current, booking)
	}

	booking.ID = uuid.NewString()

	if err := s.repo.InsertTx(ctx, tx, *booking); err != nil {
		if isUniqueViolation(err) {
			return errDuplicateKey
		}

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	log.Info().Str("bookingID", booking.ID).Str("status", booking.Status).Msg("booking created")

	return nil
}

// updateOwned rewrites the session's booking in place. A confirmed booking is never downgraded.
func (s *serviceImpl) updateOwned(ctx context.Context, tx *sqlx.Tx, id string, booking *model.Booking) error {
	current, err := s.repo.GetTx(ctx, tx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldID:       id,
		model.FieldTenantID: booking.TenantID,
	}))
	if err != nil {
		return fmt.Errorf("failed to get session booking: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if current.Status == model.StatusConfirmed {
		booking.Status = model.StatusConfirmed
	}

	fields := shared.Touch(map[string]any{
		model.FieldRoomTypeID:   booking.RoomTypeID,
		model.FieldGuestName:    booking.GuestName,
		model.FieldCheckInDate:  booking.CheckInDate,
		model.FieldCheckOutDate: booking.CheckOutDate,
		model.FieldAdults:       booking.Adults,
		model.FieldChildren:     booking.Children,
		model.FieldNights:       booking.Nights,
		model.FieldTotalPrice:   booking.TotalPrice,
		model.FieldStatus:       booking.Status,
	}, constant.SystemUser)

	if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(current.ID, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	booking.ID = current.ID

	return nil
}

// reuse returns the row a previous attempt of the same request created, confirming it if asked to.
func (s *serviceImpl) reuse(ctx context.Context, tx *sqlx.Tx, current model.Booking, booking *model.Booking) error {
	booking.ID = current.ID

	if current.Status == model.StatusConfirmed || booking.Status != model.StatusConfirmed {
		booking.Status = current.Status

		return nil
	}

	fields := shared.Touch(map[string]any{model.FieldStatus: model.StatusConfirmed}, constant.SystemUser)

	if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(current.ID, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, tenantID, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, tenantID, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldID:       id,
		model.FieldTenantID: tenantID,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	res.FromModel(booking)

	go func(res dto.BookingResponse) {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}(res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, tenantID, sessionID string, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	// SortBy is interpolated into the query, so only known columns pass.
	if !slices.Contains(sortableColumns, params.SortBy) {
		params.SortBy = constant.FieldCreatedAt
	}

	if params.SortDir != gDto.SortDirAsc {
		params.SortDir = gDto.SortDirDesc
	}

	params.SortBy = model.TableName + "." + params.SortBy

	fields := map[string]any{model.FieldTenantID: tenantID}
	if sessionID != constant.Empty {
		fields[model.FieldSessionID] = sessionID
	}

	filter := shared.FilterByFields(model.TableName, fields)

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("tenantID", tenantID).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("tenantID", tenantID).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	res.FromModels(bookings, total, params)

	return res, nil
}

func byIdempotencyKey(tenantID, key string) gDto.FilterGroup {
	return shared.FilterByFields(model.TableName, map[string]any{
		model.FieldTenantID:       tenantID,
		model.FieldIdempotencyKey: key,
	})
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
