package seed

import (
	"time"

	"sudshine/config"
	"sudshine/internal/logger"
	. "sudshine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed loads a small development data set: a handful of customers, bookings
// across the lifecycle, and one published review.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{
			ExternalID: "seed-owner",
			Name:       "Shop Owner",
			Email:      stringPtr("owner@example.com"),
			IsAdmin:    true,
			IsActive:   true,
		},
		{
			ExternalID: "seed-kim",
			Name:       "Kim Castro",
			Email:      stringPtr("kim@example.com"),
			IsActive:   true,
		},
		{
			ExternalID: "seed-ada",
			Name:       "Ada Lovelace",
			Email:      stringPtr("ada@example.com"),
			IsActive:   true,
		},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "external_id = ?", users[i].ExternalID).Error; err == nil {
			users[i] = existing
			log.Info("User already exists", "externalID", users[i].ExternalID)
			continue
		}
		log.Info("Seeding user", "externalID", users[i].ExternalID)
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "externalID", users[i].ExternalID)
		}
	}

	kim, ada := users[1], users[2]
	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)

	bookings := []Booking{
		{
			UserID:      kim.ID,
			ServiceType: ServiceExterior,
			Date:        tomorrow,
			TimeSlot:    "09:00",
			CarModel:    "Corolla",
			CarPlate:    "AB-123-CD",
			Price:       decimal.NewFromFloat(config.PriceExterior),
			Status:      BookingPending,
		},
		{
			UserID:      kim.ID,
			ServiceType: ServiceComplete,
			Date:        tomorrow.AddDate(0, 0, 2),
			TimeSlot:    "14:00",
			CarModel:    "Corolla",
			CarPlate:    "AB-123-CD",
			Price:       decimal.NewFromFloat(config.PriceComplete),
			Status:      BookingApproved,
		},
		{
			UserID:      ada.ID,
			ServiceType: ServiceComplete,
			Date:        tomorrow.AddDate(0, 0, -7),
			TimeSlot:    "11:00",
			CarModel:    "Model 3",
			CarPlate:    "EF-456-GH",
			Price:       decimal.NewFromFloat(config.PriceComplete),
			Status:      BookingCompleted,
		},
	}

	for i := range bookings {
		log.Info("Seeding booking", "serviceType", bookings[i].ServiceType, "status", bookings[i].Status)
		if err := db.Create(&bookings[i]).Error; err != nil {
			return log.Err("failed to create booking", err)
		}
	}

	completed := bookings[2]
	if err := db.Create(&LoyaltyCredit{BookingID: completed.ID, UserID: completed.UserID}).Error; err != nil {
		return log.Err("failed to create loyalty credit", err)
	}
	if err := db.Create(&LoyaltyLedger{
		UserID:        completed.UserID,
		BookingsCount: 1,
	}).Error; err != nil {
		return log.Err("failed to create loyalty ledger", err)
	}

	review := Review{
		BookingID:        completed.ID,
		UserID:           completed.UserID,
		Rating:           5,
		Comment:          stringPtr("Spotless, and done on time."),
		AllowPublication: true,
		IsApproved:       true,
		IsActive:         true,
	}
	log.Info("Seeding review", "bookingID", completed.ID)
	if err := db.Create(&review).Error; err != nil {
		return log.Err("failed to create review", err)
	}

	return nil
}
