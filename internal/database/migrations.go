package database

import (
	"sudshine/internal/logger"
	"sudshine/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Booking{},
		&models.LoyaltyLedger{},
		&models.LoyaltyCredit{},
		&models.Review{},
		&models.Notification{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_bookings_user_status ON bookings(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_kind_created_at ON notifications(kind, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_public ON reviews(allow_publication, is_approved, is_active)",
	}

	for _, index := range indexes {
		if err := db.SQL.Exec(index).Error; err != nil {
			log.Error("Failed to create index", "index", index, "error", err)
			return err
		}
	}

	log.Info("Additional database indexes created successfully")
	return nil
}
