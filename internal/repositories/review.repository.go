package repositories

import (
	"context"
	"errors"
	"sudshine/internal/database"
	"sudshine/internal/logger"
	. "sudshine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error)
	Update(ctx context.Context, review *Review) error
	FindPublic(ctx context.Context) ([]Review, error)
	FindAll(ctx context.Context) ([]Review, error)
}

type reviewRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReviewRepository(db database.DB) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: logger.New("reviewRepository"),
	}
}

func (r *reviewRepository) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(review).Error; err != nil {
		// The unique index on booking_id is the last line of defense
		// against two concurrent submissions for the same booking.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return log.ErrorWithType(ErrDuplicateReview, "review already exists", "bookingID", review.BookingID)
		}
		return log.Err("failed to create review", err, "bookingID", review.BookingID)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	log := r.log.Function("GetByID")

	var review Review
	if err := r.db.SQLWithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "review not found", "id", id)
		}
		return nil, log.Err("failed to get review by id", err, "id", id)
	}

	return &review, nil
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error) {
	log := r.log.Function("ExistsForBooking")

	var count int64
	if err := tx.WithContext(ctx).Model(&Review{}).Where("booking_id = ?", bookingID).Count(&count).Error; err != nil {
		return false, log.Err("failed to count reviews for booking", err, "bookingID", bookingID)
	}

	return count > 0, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *Review) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(review).Error; err != nil {
		return log.Err("failed to update review", err, "id", review.ID)
	}

	return nil
}

func (r *reviewRepository) FindPublic(ctx context.Context) ([]Review, error) {
	log := r.log.Function("FindPublic")

	var reviews []Review
	err := r.db.SQLWithContext(ctx).
		Preload("User").
		Where("allow_publication = ? AND is_approved = ? AND is_active = ?", true, true, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, log.Err("failed to find public reviews", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]Review, error) {
	log := r.log.Function("FindAll")

	var reviews []Review
	err := r.db.SQLWithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, log.Err("failed to find reviews", err)
	}

	return reviews, nil
}
