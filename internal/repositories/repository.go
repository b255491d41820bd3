package repositories

import (
	"sudshine/internal/database"
)

type Repository struct {
	User         UserRepository
	Booking      BookingRepository
	Loyalty      LoyaltyRepository
	Review       ReviewRepository
	Notification NotificationRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db), // User repo needs cache for caching
		Booking:      NewBookingRepository(db),
		Loyalty:      NewLoyaltyRepository(db),
		Review:       NewReviewRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
