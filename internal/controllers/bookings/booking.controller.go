package bookingController

import (
	"context"
	"time"

	"sudshine/config"
	"sudshine/internal/logger"
	. "sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"
	"sudshine/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// BookingController owns the booking lifecycle: creation with loyalty
// pricing, and every state transition. All mutations run inside a
// transaction holding the booking row lock (and the ledger row lock where
// the ledger is involved), so concurrent requests on the same booking or
// user serialize.
type BookingController struct {
	bookingRepo  repositories.BookingRepository
	loyaltyRepo  repositories.LoyaltyRepository
	reviewRepo   repositories.ReviewRepository
	userRepo     repositories.UserRepository
	notification *services.NotificationService
	transaction  services.Transactor
	config       config.Config
	log          logger.Logger
}

type BookingControllerInterface interface {
	Create(ctx context.Context, user *User, req CreateBookingRequest) (*Booking, error)
	Transition(ctx context.Context, actor *User, bookingID uuid.UUID, transition Transition, reschedule *RescheduleRequest) (*Booking, error)
	IssueInvoice(ctx context.Context, bookingID uuid.UUID) error
	ListForUser(ctx context.Context, user *User) ([]Booking, error)
	ListByStatus(ctx context.Context, status BookingStatus) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
}

func New(
	repos repositories.Repository,
	notification *services.NotificationService,
	transaction services.Transactor,
	config config.Config,
) BookingControllerInterface {
	return &BookingController{
		bookingRepo:  repos.Booking,
		loyaltyRepo:  repos.Loyalty,
		reviewRepo:   repos.Review,
		userRepo:     repos.User,
		notification: notification,
		transaction:  transaction,
		config:       config,
		log:          logger.New("bookingController"),
	}
}

// Create books a new wash. The eligibility check and the discount
// consumption happen under the user's ledger row lock, so two concurrent
// creations cannot both claim the same eligibility window.
func (c *BookingController) Create(ctx context.Context, user *User, req CreateBookingRequest) (*Booking, error) {
	log := c.log.Function("Create")

	if !req.ServiceType.Valid() {
		return nil, log.ErrorWithType(ErrInvalidInput, "unknown service type", "serviceType", req.ServiceType)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, log.ErrorWithType(ErrInvalidInput, "invalid date", "date", req.Date)
	}

	if _, err := utils.ParseTimeSlot(req.TimeSlot); err != nil {
		return nil, log.ErrorWithType(ErrInvalidInput, "invalid time slot", "timeSlot", req.TimeSlot)
	}

	basePrice := c.basePrice(req.ServiceType)

	booking := &Booking{
		UserID:      user.ID,
		ServiceType: req.ServiceType,
		Date:        date,
		TimeSlot:    req.TimeSlot,
		CarModel:    req.CarModel,
		CarPlate:    req.CarPlate,
		Status:      BookingPending,
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		ledger, err := c.loyaltyRepo.GetOrCreateForUpdate(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		booking.Price, booking.DiscountApplied = ComputePrice(basePrice, ledger.DiscountAvailable)

		if booking.DiscountApplied {
			ledger.ConsumeDiscount()
			if err := c.loyaltyRepo.Save(ctx, tx, ledger); err != nil {
				return err
			}
		}

		return c.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	log.Info("booking created",
		"bookingID", booking.ID,
		"userID", user.ID,
		"serviceType", booking.ServiceType,
		"discountApplied", booking.DiscountApplied,
	)

	payload := bookingPayload(booking)
	c.notification.Send(ctx, NotifyBookingRequest, user, payload)
	c.notification.Send(ctx, NotifyAdminNewBooking, user, payload)

	return booking, nil
}

// Transition applies one state-machine transition. Validation happens
// against the row-locked booking, so only one concurrent request observes
// the pre-transition state. The ledger increment on complete commits in the
// same transaction as the status change: both land or neither does.
func (c *BookingController) Transition(
	ctx context.Context,
	actor *User,
	bookingID uuid.UUID,
	transition Transition,
	reschedule *RescheduleRequest,
) (*Booking, error) {
	log := c.log.Function("Transition")

	var booking *Booking
	var previousDate time.Time
	var previousSlot string
	var reviewExists bool

	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		booking, err = c.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		to, err := booking.CanTransition(transition, actor)
		if err != nil {
			return log.ErrorWithType(err, "transition rejected",
				"bookingID", bookingID,
				"transition", transition,
				"status", booking.Status,
			)
		}

		if transition == TransitionReschedule {
			if reschedule == nil {
				return log.ErrorWithType(ErrInvalidInput, "reschedule requires a new date and slot")
			}
			newDate, parseErr := time.Parse(dateLayout, reschedule.Date)
			if parseErr != nil {
				return log.ErrorWithType(ErrInvalidInput, "invalid reschedule date", "date", reschedule.Date)
			}
			if _, slotErr := utils.ParseTimeSlot(reschedule.TimeSlot); slotErr != nil {
				return log.ErrorWithType(ErrInvalidInput, "invalid reschedule time slot", "timeSlot", reschedule.TimeSlot)
			}

			previousDate = booking.Date
			previousSlot = booking.TimeSlot
			booking.Date = newDate
			booking.TimeSlot = reschedule.TimeSlot
		}

		booking.Status = to

		if err := c.bookingRepo.Save(ctx, tx, booking); err != nil {
			return err
		}

		if transition == TransitionComplete {
			if err := c.applyCompletion(ctx, tx, booking); err != nil {
				return err
			}

			reviewExists, err = c.reviewRepo.ExistsForBooking(ctx, tx, booking.ID)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("transition applied",
		"bookingID", booking.ID,
		"transition", transition,
		"status", booking.Status,
	)

	c.notifyTransition(ctx, booking, transition, previousDate, previousSlot, reviewExists)

	return booking, nil
}

// applyCompletion credits the loyalty ledger for a completed booking. The
// credit row is the idempotency key: a duplicated complete delivery finds it
// and leaves the counter alone.
func (c *BookingController) applyCompletion(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := c.log.Function("applyCompletion")

	credited, err := c.loyaltyRepo.RecordCredit(ctx, tx, booking.ID, booking.UserID)
	if err != nil {
		return err
	}
	if !credited {
		return nil
	}

	ledger, err := c.loyaltyRepo.GetOrCreateForUpdate(ctx, tx, booking.UserID)
	if err != nil {
		return err
	}

	ledger.RecordCompletion()
	if err := c.loyaltyRepo.Save(ctx, tx, ledger); err != nil {
		return err
	}

	log.Info("loyalty completion recorded",
		"userID", booking.UserID,
		"bookingsCount", ledger.BookingsCount,
		"discountAvailable", ledger.DiscountAvailable,
	)

	return nil
}

// IssueInvoice sends the must-ack invoice notification for a completed
// booking. This is the one path where a channel failure is surfaced to the
// caller instead of swallowed.
func (c *BookingController) IssueInvoice(ctx context.Context, bookingID uuid.UUID) error {
	log := c.log.Function("IssueInvoice")

	booking, err := c.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status != BookingCompleted {
		return log.ErrorWithType(ErrInvalidTransition, "invoice requires a completed booking",
			"bookingID", bookingID,
			"status", booking.Status,
		)
	}

	owner, err := c.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		return err
	}

	return c.notification.SendRequired(ctx, NotifyInvoiceIssued, owner, bookingPayload(booking))
}

func (c *BookingController) ListForUser(ctx context.Context, user *User) ([]Booking, error) {
	return c.bookingRepo.FindByUser(ctx, user.ID)
}

func (c *BookingController) ListByStatus(ctx context.Context, status BookingStatus) ([]Booking, error) {
	return c.bookingRepo.FindByStatus(ctx, status)
}

func (c *BookingController) ListAll(ctx context.Context) ([]Booking, error) {
	return c.bookingRepo.FindAll(ctx)
}

// notifyTransition fires the notification matching the applied transition.
// Failures are swallowed by the router; the transition is already durable.
func (c *BookingController) notifyTransition(
	ctx context.Context,
	booking *Booking,
	transition Transition,
	previousDate time.Time,
	previousSlot string,
	reviewExists bool,
) {
	log := c.log.Function("notifyTransition")

	owner, err := c.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		log.Warn("failed to load booking owner for notification", "bookingID", booking.ID, "error", err)
		return
	}

	payload := bookingPayload(booking)

	switch transition {
	case TransitionApprove:
		c.notification.Send(ctx, NotifyBookingApproved, owner, payload)
	case TransitionReject:
		c.notification.Send(ctx, NotifyBookingRejected, owner, payload)
	case TransitionReschedule:
		payload["previousDate"] = previousDate.Format(dateLayout)
		payload["previousTimeSlot"] = previousSlot
		c.notification.Send(ctx, NotifyBookingRescheduled, owner, payload)
	case TransitionStart:
		c.notification.Send(ctx, NotifyServiceStarted, owner, payload)
	case TransitionComplete:
		if reviewExists {
			c.notification.Send(ctx, NotifyServiceCompleted, owner, payload)
		} else {
			c.notification.Send(ctx, NotifyServiceCompletedReview, owner, payload)
		}
	case TransitionCancel:
		c.notification.Send(ctx, NotifyAdminBookingCancelled, owner, payload)
	}
}

func (c *BookingController) basePrice(serviceType ServiceType) decimal.Decimal {
	switch serviceType {
	case ServiceComplete:
		return decimal.NewFromFloat(c.config.PriceComplete)
	default:
		return decimal.NewFromFloat(c.config.PriceExterior)
	}
}

func bookingPayload(booking *Booking) map[string]any {
	return map[string]any{
		"bookingId":   booking.ID.String(),
		"serviceType": string(booking.ServiceType),
		"date":        booking.Date.Format(dateLayout),
		"timeSlot":    booking.TimeSlot,
		"carModel":    booking.CarModel,
		"carPlate":    booking.CarPlate,
		"price":       booking.Price.String(),
	}
}
