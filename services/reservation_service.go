package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexeyDemidow/restaurant-api-service/database"
	"github.com/AlexeyDemidow/restaurant-api-service/kds"
	"github.com/AlexeyDemidow/restaurant-api-service/models"
	"github.com/AlexeyDemidow/restaurant-api-service/utils"
	"github.com/sirupsen/logrus"
)

var (
	ErrConflict        = errors.New("table is already booked for this time")
	ErrInvalidDuration = errors.New("duration_minutes must be a positive integer")
)

// ConflictError is returned when a requested interval intersects existing
// reservations on the same table. It matches ErrConflict with errors.Is.
type ConflictError struct {
	TableID   uint
	Conflicts []models.Reservation
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error()
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

type ReserveRequest struct {
	CustomerName    string
	TableID         uint
	StartTime       time.Time
	DurationMinutes int
}

// ReservationService enforces that reservations on one table never overlap.
type ReservationService struct {
	store     *database.Store
	locker    Locker
	publisher Publisher
	log       logrus.FieldLogger
}

type Option func(*ReservationService)

// WithLocker replaces the default in-process per-table lock.
func WithLocker(l Locker) Option {
	return func(s *ReservationService) { s.locker = l }
}

func WithPublisher(p Publisher) Option {
	return func(s *ReservationService) { s.publisher = p }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *ReservationService) { s.log = log }
}

func NewReservationService(store *database.Store, opts ...Option) *ReservationService {
	s := &ReservationService{
		store:     store,
		locker:    NewKeyedMutex(),
		publisher: noopPublisher{},
		log:       utils.InfoLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAndReserve books the table if the interval is free. The overlap check
// and the insert run under the table's lock and inside one transaction, so
// of two concurrent overlapping requests exactly one succeeds.
func (s *ReservationService) CheckAndReserve(ctx context.Context, req ReserveRequest) (models.Reservation, error) {
	if req.DurationMinutes <= 0 {
		return models.Reservation{}, ErrInvalidDuration
	}

	reservation := models.Reservation{
		CustomerName:    req.CustomerName,
		TableID:         req.TableID,
		ReservationTime: utils.WallClock(req.StartTime),
		DurationMinutes: req.DurationMinutes,
	}
	start, end := reservation.ReservationTime, reservation.EndTime()

	unlock, err := s.locker.Lock(ctx, tableLockKey(req.TableID))
	if err != nil {
		return models.Reservation{}, fmt.Errorf("lock table %d: %w", req.TableID, err)
	}
	defer unlock()

	err = s.store.WithTx(ctx, func(tx *database.Store) error {
		if _, err := tx.LockTable(ctx, req.TableID); err != nil {
			return err
		}

		conflicts, err := tx.FindOverlapping(ctx, req.TableID, start, end)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{TableID: req.TableID, Conflicts: conflicts}
		}

		return tx.CreateReservation(ctx, &reservation)
	})
	if err != nil {
		return models.Reservation{}, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"table_id":       reservation.TableID,
		"start":          utils.FormatWallClock(start),
		"end":            utils.FormatWallClock(end),
	}).Info("reservation created")
	s.publish(ctx, kds.EventReservationCreate, reservation)

	return reservation, nil
}

// CancelReservation deletes a reservation, freeing its interval.
func (s *ReservationService) CancelReservation(ctx context.Context, id uint) (models.Reservation, error) {
	deleted, err := s.store.DeleteReservation(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}

	s.log.WithField("reservation_id", id).Info("reservation deleted")
	s.publish(ctx, kds.EventReservationDelete, deleted)
	return deleted, nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	return s.store.ListReservations(ctx)
}

// TableSchedule -> reservations of one existing table, earliest first
func (s *ReservationService) TableSchedule(ctx context.Context, tableID uint) ([]models.Reservation, error) {
	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	return s.store.ListTableReservations(ctx, tableID)
}

func (s *ReservationService) CreateTable(ctx context.Context, name string, seats int, location string) (models.Table, error) {
	table, err := s.store.CreateTable(ctx, name, seats, location)
	if err != nil {
		return models.Table{}, err
	}

	s.log.WithFields(logrus.Fields{"table_id": table.ID, "seats": table.Seats}).Info("table created")
	s.publish(ctx, kds.EventTableCreate, table)
	return table, nil
}

func (s *ReservationService) ListTables(ctx context.Context) ([]models.Table, error) {
	return s.store.ListTables(ctx)
}

// DeleteTable holds the table lock so no reservation can slip in between
// the emptiness check and the delete.
func (s *ReservationService) DeleteTable(ctx context.Context, id uint) error {
	unlock, err := s.locker.Lock(ctx, tableLockKey(id))
	if err != nil {
		return fmt.Errorf("lock table %d: %w", id, err)
	}
	defer unlock()

	if err := s.store.DeleteTable(ctx, id); err != nil {
		return err
	}

	s.log.WithField("table_id", id).Info("table deleted")
	s.publish(ctx, kds.EventTableDelete, map[string]uint{"id": id})
	return nil
}

func (s *ReservationService) publish(ctx context.Context, event string, data interface{}) {
	if err := s.publisher.Publish(ctx, kds.Message{Event: event, Data: data}); err != nil {
		s.log.WithField("event", event).Warnf("publish failed: %v", err)
	}
}
