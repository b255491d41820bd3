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
)

const (
	USER_CACHE_EXPIRY        = 7 * 24 * time.Hour // 7 days
	USER_CACHE_PREFIX        = "user:"
	EXTERNAL_ID_CACHE_PREFIX = "ext:"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	FindOrCreateByExternalID(ctx context.Context, user *User) (*User, bool, error)
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.getCacheByID(ctx, id, &user); err == nil {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "user not found", "id", id)
		}
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	log := r.log.Function("GetByExternalID")

	// Try the external-ID -> UUID mapping cache first
	var userID string
	extCacheKey := EXTERNAL_ID_CACHE_PREFIX + externalID
	found, err := database.NewCacheBuilder(r.db.Cache.User, extCacheKey).
		WithContext(ctx).
		Get(&userID)
	if err == nil && found {
		if id, parseErr := uuid.Parse(userID); parseErr == nil {
			var cachedUser User
			if cacheErr := r.getCacheByID(ctx, id, &cachedUser); cacheErr == nil {
				return &cachedUser, nil
			}
		}
	}

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "user not found", "externalID", externalID)
		}
		return nil, log.Err("failed to get user by external ID", err, "externalID", externalID)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	// Cache the external ID -> UUID mapping for faster future lookups
	if err := database.NewCacheBuilder(r.db.Cache.User, extCacheKey).
		WithStruct(user.ID.String()).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache external ID mapping", "externalID", externalID, "error", err)
	}

	return &user, nil
}

// FindOrCreateByExternalID returns the stored user for the token subject,
// creating the row on first visit. The boolean reports whether the user was
// just created, so the caller can fire the welcome notification.
func (r *userRepository) FindOrCreateByExternalID(ctx context.Context, user *User) (*User, bool, error) {
	log := r.log.Function("FindOrCreateByExternalID")

	existing, err := r.GetByExternalID(ctx, user.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	if !user.IsActive {
		user.IsActive = true
	}
	if user.LastLoginAt == nil {
		now := time.Now()
		user.LastLoginAt = &now
	}

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return nil, false, log.Err("failed to create user", err, "externalID", user.ExternalID)
	}

	log.Info("created user from identity token", "userID", user.ID, "externalID", user.ExternalID)

	if err := r.addUserToCache(ctx, user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	return user, true, nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	// Clear user cache after successful update
	if err := r.clearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) getCacheByID(ctx context.Context, userID uuid.UUID, user *User) error {
	cacheKey := USER_CACHE_PREFIX + userID.String()
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(user)
	if err != nil {
		return err
	}

	if !found {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	cacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to add user to cache", err, "userID", user.ID)
	}
	return nil
}

func (r *userRepository) clearUserCache(ctx context.Context, user *User) error {
	log := r.log.Function("clearUserCache")

	userCacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, userCacheKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	if user.ExternalID != "" {
		extCacheKey := EXTERNAL_ID_CACHE_PREFIX + user.ExternalID
		if err := database.NewCacheBuilder(r.db.Cache.User, extCacheKey).WithContext(ctx).Delete(); err != nil {
			log.Warn(
				"failed to clear external ID mapping cache",
				"externalID",
				user.ExternalID,
				"error",
				err,
			)
		}
	}

	return nil
}
