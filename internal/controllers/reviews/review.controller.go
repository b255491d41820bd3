package reviewController

import (
	"context"
	"strings"

	"sudshine/internal/logger"
	. "sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewController governs when a completed booking may receive a review and
// when that review becomes publicly visible.
type ReviewController struct {
	reviewRepo   repositories.ReviewRepository
	bookingRepo  repositories.BookingRepository
	notification *services.NotificationService
	transaction  services.Transactor
	log          logger.Logger
}

type ReviewControllerInterface interface {
	Submit(ctx context.Context, user *User, bookingID uuid.UUID, req SubmitReviewRequest) (*Review, error)
	Moderate(ctx context.Context, reviewID uuid.UUID, req ModerateReviewRequest) (*Review, error)
	ListPublic(ctx context.Context) ([]Review, error)
	ListAll(ctx context.Context) ([]Review, error)
}

func New(
	repos repositories.Repository,
	notification *services.NotificationService,
	transaction services.Transactor,
) ReviewControllerInterface {
	return &ReviewController{
		reviewRepo:   repos.Review,
		bookingRepo:  repos.Booking,
		notification: notification,
		transaction:  transaction,
		log:          logger.New("reviewController"),
	}
}

// Submit creates a review for a completed booking. Input bounds are checked
// before anything is written; the booking row lock serializes concurrent
// submissions so at most one review exists per booking.
func (c *ReviewController) Submit(
	ctx context.Context,
	user *User,
	bookingID uuid.UUID,
	req SubmitReviewRequest,
) (*Review, error) {
	log := c.log.Function("Submit")

	if err := req.Validate(); err != nil {
		return nil, log.ErrorWithType(err, "review submission rejected", "bookingID", bookingID)
	}

	review := &Review{
		BookingID:        bookingID,
		UserID:           user.ID,
		Rating:           req.Rating,
		AllowPublication: req.AllowPublication,
		IsApproved:       false,
		IsActive:         true,
	}
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		review.Comment = &comment
	}

	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		booking, err := c.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if booking.UserID != user.ID {
			return log.ErrorWithType(ErrUnauthorized, "review must come from the booking owner",
				"bookingID", bookingID,
				"userID", user.ID,
			)
		}

		if booking.Status != BookingCompleted {
			return log.ErrorWithType(ErrInvalidTransition, "only completed bookings can be reviewed",
				"bookingID", bookingID,
				"status", booking.Status,
			)
		}

		exists, err := c.reviewRepo.ExistsForBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if exists {
			return log.ErrorWithType(ErrDuplicateReview, "booking already reviewed", "bookingID", bookingID)
		}

		return c.reviewRepo.Create(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	log.Info("review submitted", "reviewID", review.ID, "bookingID", bookingID, "rating", review.Rating)

	payload := map[string]any{
		"reviewId":  review.ID.String(),
		"bookingId": bookingID.String(),
		"rating":    review.Rating,
	}
	c.notification.Send(ctx, NotifyReviewThankYou, user, payload)
	c.notification.Send(ctx, NotifyAdminNewReview, user, payload)

	return review, nil
}

// Moderate applies an admin's partial update of the approval and active
// flags.
func (c *ReviewController) Moderate(
	ctx context.Context,
	reviewID uuid.UUID,
	req ModerateReviewRequest,
) (*Review, error) {
	log := c.log.Function("Moderate")

	if err := req.Validate(); err != nil {
		return nil, log.ErrorWithType(err, "moderation rejected", "reviewID", reviewID)
	}

	review, err := c.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if req.IsApproved != nil {
		review.IsApproved = *req.IsApproved
	}
	if req.IsActive != nil {
		review.IsActive = *req.IsActive
	}

	if err := c.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	log.Info("review moderated",
		"reviewID", review.ID,
		"isApproved", review.IsApproved,
		"isActive", review.IsActive,
	)

	return review, nil
}

func (c *ReviewController) ListPublic(ctx context.Context) ([]Review, error) {
	return c.reviewRepo.FindPublic(ctx)
}

func (c *ReviewController) ListAll(ctx context.Context) ([]Review, error) {
	return c.reviewRepo.FindAll(ctx)
}
