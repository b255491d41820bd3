package repositories

import (
	"context"
	"sudshine/internal/database"
	"sudshine/internal/logger"
	. "sudshine/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	FindRecent(ctx context.Context, limit int) ([]Notification, error)
}

type notificationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNotificationRepository(db database.DB) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err, "kind", notification.Kind)
	}

	return nil
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("MarkDelivered")

	err := r.db.SQLWithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("delivered", true).Error
	if err != nil {
		return log.Err("failed to mark notification delivered", err, "id", id)
	}

	return nil
}

func (r *notificationRepository) FindRecent(ctx context.Context, limit int) ([]Notification, error) {
	log := r.log.Function("FindRecent")

	if limit <= 0 {
		limit = 50
	}

	var notifications []Notification
	err := r.db.SQLWithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, log.Err("failed to find recent notifications", err)
	}

	return notifications, nil
}
