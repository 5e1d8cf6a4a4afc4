package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexeyDemidow/restaurant-api-service/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTableNotFound        = errors.New("table not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrTableHasReservations = errors.New("table still has reservations")
	ErrInvalidSeats         = errors.New("seats must be a positive integer")
)

// Store owns durable state for tables and reservations. A Store returned by
// WithTx is bound to that transaction; every call on it joins the same unit
// of work.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables and reservations tables if they are missing.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.Table{}, &models.Reservation{})
}

// WithTx runs fn inside one transaction. Any error or panic from fn rolls
// the transaction back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CreateTable -> insert a new table, names are not unique
func (s *Store) CreateTable(ctx context.Context, name string, seats int, location string) (models.Table, error) {
	if seats <= 0 {
		return models.Table{}, ErrInvalidSeats
	}
	table := models.Table{Name: name, Seats: seats, Location: location}
	if err := s.db.WithContext(ctx).Create(&table).Error; err != nil {
		return models.Table{}, fmt.Errorf("create table: %w", err)
	}
	return table, nil
}

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	if err := s.db.WithContext(ctx).Order("id").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *Store) GetTable(ctx context.Context, id uint) (models.Table, error) {
	return s.firstTable(s.db.WithContext(ctx), id)
}

// LockTable loads the table row with SELECT ... FOR UPDATE so concurrent
// writers on the same table queue up behind the current transaction.
// SQLite has no row locks and relies on its single-writer transactions.
func (s *Store) LockTable(ctx context.Context, id uint) (models.Table, error) {
	return s.firstTable(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *Store) firstTable(q *gorm.DB, id uint) (models.Table, error) {
	var table models.Table
	if err := q.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Table{}, fmt.Errorf("table %d: %w", id, ErrTableNotFound)
		}
		return models.Table{}, fmt.Errorf("get table %d: %w", id, err)
	}
	return table, nil
}

// DeleteTable refuses to remove a table that still has reservations.
func (s *Store) DeleteTable(ctx context.Context, id uint) error {
	return s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.LockTable(ctx, id); err != nil {
			return err
		}

		var count int64
		if err := tx.db.WithContext(ctx).Model(&models.Reservation{}).Where("table_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count reservations of table %d: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("table %d has %d reservation(s): %w", id, count, ErrTableHasReservations)
		}

		if err := tx.db.WithContext(ctx).Delete(&models.Table{}, id).Error; err != nil {
			return fmt.Errorf("delete table %d: %w", id, err)
		}
		return nil
	})
}

func (s *Store) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := s.db.WithContext(ctx).Order("id").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// ListTableReservations -> schedule of one table ordered by start time
func (s *Store) ListTableReservations(ctx context.Context, tableID uint) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := s.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Order("reservation_time, id").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations of table %d: %w", tableID, err)
	}
	return reservations, nil
}

// CreateReservation persists r and fills in its id. It does not check for
// overlaps; callers run FindOverlapping in the same transaction first.
func (s *Store) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// DeleteReservation removes the reservation and returns what was deleted.
func (s *Store) DeleteReservation(ctx context.Context, id uint) (models.Reservation, error) {
	var deleted models.Reservation
	err := s.WithTx(ctx, func(tx *Store) error {
		if err := tx.db.WithContext(ctx).First(&deleted, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", id, ErrReservationNotFound)
			}
			return fmt.Errorf("get reservation %d: %w", id, err)
		}
		if err := tx.db.WithContext(ctx).Delete(&models.Reservation{}, id).Error; err != nil {
			return fmt.Errorf("delete reservation %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return deleted, nil
}

// FindOverlapping returns the reservations on tableID that intersect
// [start, end). The query narrows candidates to those starting before end;
// the end-time side is checked in Go so it does not depend on the dialect's
// interval arithmetic.
func (s *Store) FindOverlapping(ctx context.Context, tableID uint, start, end time.Time) ([]models.Reservation, error) {
	var candidates []models.Reservation
	err := s.db.WithContext(ctx).
		Where("table_id = ? AND reservation_time < ?", tableID, end).
		Order("reservation_time, id").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("find overlapping reservations on table %d: %w", tableID, err)
	}

	overlapping := candidates[:0]
	for _, r := range candidates {
		if r.Overlaps(start, end) {
			overlapping = append(overlapping, r)
		}
	}
	return overlapping, nil
}
