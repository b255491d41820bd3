package services

import (
	"sudshine/config"
	"sudshine/internal/database"
	"sudshine/internal/events"
	"sudshine/internal/repositories"
)

type Service struct {
	Auth         *AuthService
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Notification *NotificationService
	Mailer       Mailer
}

func New(db database.DB, config config.Config, eventBus *events.EventBus, repos repositories.Repository) (Service, error) {
	transactionService := NewTransactionService(db)

	authService, err := NewAuthService(config)
	if err != nil {
		return Service{}, err
	}

	mailer := NewMailer(config)
	schedulerService := NewSchedulerService()
	notificationService := NewNotificationService(mailer, repos.Notification, eventBus, config)

	return Service{
		Auth:         authService,
		Transaction:  transactionService,
		Scheduler:    schedulerService,
		Notification: notificationService,
		Mailer:       mailer,
	}, nil
}
