package jobs

import (
	"context"

	"sudshine/internal/logger"
	"sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"
)

// LoyaltyReminderJob nudges customers who have an unused discount window.
// It runs daily so a customer is reminded at most once per day.
type LoyaltyReminderJob struct {
	loyaltyRepo  repositories.LoyaltyRepository
	userRepo     repositories.UserRepository
	notification *services.NotificationService
	schedule     services.Schedule
	log          logger.Logger
}

func NewLoyaltyReminderJob(
	loyaltyRepo repositories.LoyaltyRepository,
	userRepo repositories.UserRepository,
	notification *services.NotificationService,
	schedule services.Schedule,
) *LoyaltyReminderJob {
	return &LoyaltyReminderJob{
		loyaltyRepo:  loyaltyRepo,
		userRepo:     userRepo,
		notification: notification,
		schedule:     schedule,
		log:          logger.New("jobs").File("loyaltyReminder"),
	}
}

func (j *LoyaltyReminderJob) Name() string {
	return "loyalty-reminder"
}

func (j *LoyaltyReminderJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *LoyaltyReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	ledgers, err := j.loyaltyRepo.FindDiscountEligible(ctx)
	if err != nil {
		return log.Err("failed to load discount-eligible ledgers", err)
	}

	if len(ledgers) == 0 {
		log.Info("no discounts outstanding")
		return nil
	}

	reminded := 0
	for _, ledger := range ledgers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		user, err := j.userRepo.GetByID(ctx, ledger.UserID)
		if err != nil {
			log.Warn("failed to load user for reminder", "userID", ledger.UserID, "error", err)
			continue
		}

		if !user.IsActive {
			continue
		}

		if j.notification.Send(ctx, models.NotifyLoyaltyReminder, user, map[string]any{
			"bookingsCount": ledger.BookingsCount,
		}) {
			reminded++
		}
	}

	log.Info("loyalty reminders sent", "eligible", len(ledgers), "reminded", reminded)
	return nil
}
