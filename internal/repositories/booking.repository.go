package repositories

import (
	"context"
	"errors"
	"sudshine/internal/database"
	"sudshine/internal/logger"
	. "sudshine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// GetByIDForUpdate loads the booking under a row lock. Every transition
	// goes through this so concurrent requests on the same booking serialize.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	Save(ctx context.Context, tx *gorm.DB, booking *Booking) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	FindByStatus(ctx context.Context, status BookingStatus) ([]Booking, error)
	FindAll(ctx context.Context) ([]Booking, error)
}

type bookingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBookingRepository(db database.DB) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: logger.New("bookingRepository"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(booking).Error; err != nil {
		return log.Err("failed to create booking", err, "userID", booking.UserID)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	log := r.log.Function("GetByID")

	var booking Booking
	if err := r.db.SQLWithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "booking not found", "id", id)
		}
		return nil, log.Err("failed to get booking by id", err, "id", id)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	log := r.log.Function("GetByIDForUpdate")

	var booking Booking
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "booking not found", "id", id)
		}
		return nil, log.Err("failed to lock booking row", err, "id", id)
	}

	return &booking, nil
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(booking).Error; err != nil {
		return log.Err("failed to save booking", err, "id", booking.ID)
	}

	return nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	log := r.log.Function("FindByUser")

	var bookings []Booking
	err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to find bookings by user", err, "userID", userID)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByStatus(ctx context.Context, status BookingStatus) ([]Booking, error) {
	log := r.log.Function("FindByStatus")

	var bookings []Booking
	err := r.db.SQLWithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("date ASC, time_slot ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to find bookings by status", err, "status", status)
	}

	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]Booking, error) {
	log := r.log.Function("FindAll")

	var bookings []Booking
	err := r.db.SQLWithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to find bookings", err)
	}

	return bookings, nil
}
