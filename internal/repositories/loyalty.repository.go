package repositories

import (
	"context"
	"errors"
	"sudshine/internal/database"
	"sudshine/internal/logger"
	. "sudshine/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	LOYALTY_CACHE_PREFIX = "loyalty:"
	LOYALTY_CACHE_EXPIRY = 1 * time.Hour
)

type LoyaltyRepository interface {
	// GetOrCreateForUpdate locks the user's ledger row (creating it first if
	// absent) so the eligibility check-then-act and the completion increment
	// are serialized per user.
	GetOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*LoyaltyLedger, error)
	Save(ctx context.Context, tx *gorm.DB, ledger *LoyaltyLedger) error
	// RecordCredit inserts the idempotency record for a completed booking.
	// The boolean reports whether the credit is new; a duplicate delivery
	// returns false and the ledger must not be incremented again.
	RecordCredit(ctx context.Context, tx *gorm.DB, bookingID, userID uuid.UUID) (bool, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*LoyaltyLedger, error)
	FindDiscountEligible(ctx context.Context) ([]LoyaltyLedger, error)
}

type loyaltyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewLoyaltyRepository(db database.DB) LoyaltyRepository {
	return &loyaltyRepository{
		db:  db,
		log: logger.New("loyaltyRepository"),
	}
}

func (r *loyaltyRepository) GetOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*LoyaltyLedger, error) {
	log := r.log.Function("GetOrCreateForUpdate")

	// Insert-if-absent first so the row exists to lock. DoNothing keeps a
	// concurrent first-completion race harmless.
	ledger := LoyaltyLedger{UserID: userID}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&ledger).Error
	if err != nil {
		return nil, log.Err("failed to ensure ledger row", err, "userID", userID)
	}

	var locked LoyaltyLedger
	err = tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, "user_id = ?", userID).Error
	if err != nil {
		return nil, log.Err("failed to lock ledger row", err, "userID", userID)
	}

	return &locked, nil
}

func (r *loyaltyRepository) Save(ctx context.Context, tx *gorm.DB, ledger *LoyaltyLedger) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(ledger).Error; err != nil {
		return log.Err("failed to save ledger", err, "userID", ledger.UserID)
	}

	// The cached eligibility snapshot is now stale.
	cacheKey := LOYALTY_CACHE_PREFIX + ledger.UserID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear ledger cache", "userID", ledger.UserID, "error", err)
	}

	return nil
}

func (r *loyaltyRepository) RecordCredit(ctx context.Context, tx *gorm.DB, bookingID, userID uuid.UUID) (bool, error) {
	log := r.log.Function("RecordCredit")

	credit := LoyaltyCredit{BookingID: bookingID, UserID: userID}
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "booking_id"}},
			DoNothing: true,
		}).
		Create(&credit)
	if result.Error != nil {
		return false, log.Err("failed to record loyalty credit", result.Error, "bookingID", bookingID)
	}

	if result.RowsAffected == 0 {
		log.Warn("duplicate completion delivery, credit already recorded", "bookingID", bookingID)
		return false, nil
	}

	return true, nil
}

func (r *loyaltyRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*LoyaltyLedger, error) {
	log := r.log.Function("GetByUser")

	var ledger LoyaltyLedger
	cacheKey := LOYALTY_CACHE_PREFIX + userID.String()
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(&ledger)
	if err == nil && found {
		return &ledger, nil
	}

	err = r.db.SQLWithContext(ctx).First(&ledger, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No completions yet; behave as an empty ledger without creating one.
			return &LoyaltyLedger{UserID: userID}, nil
		}
		return nil, log.Err("failed to get ledger by user", err, "userID", userID)
	}

	if cacheErr := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(&ledger).
		WithTTL(LOYALTY_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); cacheErr != nil {
		log.Warn("failed to cache ledger", "userID", userID, "error", cacheErr)
	}

	return &ledger, nil
}

func (r *loyaltyRepository) FindDiscountEligible(ctx context.Context) ([]LoyaltyLedger, error) {
	log := r.log.Function("FindDiscountEligible")

	var ledgers []LoyaltyLedger
	if err := r.db.SQLWithContext(ctx).Where("discount_available = ?", true).Find(&ledgers).Error; err != nil {
		return nil, log.Err("failed to find discount eligible ledgers", err)
	}

	return ledgers, nil
}
