package initialize

import (
	"sudshine/config"
	. "sudshine/internal/models"

	logger "sudshine/internal/logger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdminUser(db, config, log); err != nil {
		return log.Err("failed to initialize admin user", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeAdminUser promotes the configured identity provider subject to
// admin, creating the row if it has never signed in.
func initializeAdminUser(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.AdminExternalID == "" {
		log.Info("No admin external ID configured, skipping admin bootstrap")
		return nil
	}

	var existing User
	err := db.First(&existing, "external_id = ?", config.AdminExternalID).Error
	if err == nil {
		if existing.IsAdmin {
			log.Debug("Admin user already initialized", "userID", existing.ID)
			return nil
		}
		existing.IsAdmin = true
		if err := db.Save(&existing).Error; err != nil {
			return log.Err("failed to promote admin user", err, "userID", existing.ID)
		}
		log.Info("Promoted existing user to admin", "userID", existing.ID)
		return nil
	}

	admin := User{
		ExternalID: config.AdminExternalID,
		Name:       "Shop Owner",
		IsAdmin:    true,
		IsActive:   true,
	}
	if config.AdminEmail != "" {
		email := config.AdminEmail
		admin.Email = &email
	}

	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create admin user", err)
	}

	log.Info("Admin user created", "userID", admin.ID)
	return nil
}
