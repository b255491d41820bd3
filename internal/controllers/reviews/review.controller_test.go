package reviewController

import (
	"context"
	"strings"
	"testing"

	"sudshine/config"
	. "sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTransactor struct{}

func (f *fakeTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]Booking
}

func (r *fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	booking.ID = uuid.New()
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (r *fakeBookingRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBookingRepo) Save(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) FindByStatus(ctx context.Context, status BookingStatus) ([]Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) FindAll(ctx context.Context) ([]Booking, error) {
	return nil, nil
}

type fakeReviewRepo struct {
	reviews map[uuid.UUID]Review // keyed by booking ID
}

func (r *fakeReviewRepo) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	if _, exists := r.reviews[review.BookingID]; exists {
		return ErrDuplicateReview
	}
	review.ID = uuid.New()
	r.reviews[review.BookingID] = *review
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	for _, review := range r.reviews {
		if review.ID == id {
			out := review
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeReviewRepo) ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error) {
	_, exists := r.reviews[bookingID]
	return exists, nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, review *Review) error {
	r.reviews[review.BookingID] = *review
	return nil
}

func (r *fakeReviewRepo) FindPublic(ctx context.Context) ([]Review, error) {
	var out []Review
	for _, review := range r.reviews {
		if review.IsPublic() {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindAll(ctx context.Context) ([]Review, error) {
	var out []Review
	for _, review := range r.reviews {
		out = append(out, review)
	}
	return out, nil
}

type fakeMailer struct{}

func (m *fakeMailer) Send(to, subject, body string) error { return nil }

type fakeNotificationRepo struct {
	kinds []NotificationKind
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *Notification) error {
	notification.ID = uuid.New()
	r.kinds = append(r.kinds, notification.Kind)
	return nil
}

func (r *fakeNotificationRepo) MarkDelivered(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeNotificationRepo) FindRecent(ctx context.Context, limit int) ([]Notification, error) {
	return nil, nil
}

type fixture struct {
	controller ReviewControllerInterface
	bookings   *fakeBookingRepo
	reviews    *fakeReviewRepo
	outbox     *fakeNotificationRepo

	owner    *User
	stranger *User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bookings := &fakeBookingRepo{bookings: make(map[uuid.UUID]Booking)}
	reviews := &fakeReviewRepo{reviews: make(map[uuid.UUID]Review)}
	outbox := &fakeNotificationRepo{}

	cfg := config.Config{AdminEmail: "owner@sudshine.test"}
	notification := services.NewNotificationService(&fakeMailer{}, outbox, nil, cfg)

	repos := repositories.Repository{
		Booking:      bookings,
		Review:       reviews,
		Notification: outbox,
	}

	ownerEmail := "kim@example.com"
	owner := &User{Email: &ownerEmail}
	owner.ID = uuid.New()

	stranger := &User{}
	stranger.ID = uuid.New()

	return &fixture{
		controller: New(repos, notification, &fakeTransactor{}),
		bookings:   bookings,
		reviews:    reviews,
		outbox:     outbox,
		owner:      owner,
		stranger:   stranger,
	}
}

func (f *fixture) addBooking(status BookingStatus) uuid.UUID {
	booking := Booking{UserID: f.owner.ID, Status: status}
	booking.ID = uuid.New()
	f.bookings.bookings[booking.ID] = booking
	return booking.ID
}

func TestReviewController_Submit(t *testing.T) {
	t.Run("completed booking accepts a review", func(t *testing.T) {
		f := newFixture(t)
		bookingID := f.addBooking(BookingCompleted)

		review, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{
			Rating:           5,
			Comment:          "spotless",
			AllowPublication: true,
		})
		require.NoError(t, err)

		assert.Equal(t, 5, review.Rating)
		assert.True(t, review.AllowPublication)
		assert.False(t, review.IsApproved, "reviews start unapproved")
		assert.True(t, review.IsActive)
		require.NotNil(t, review.Comment)
		assert.Equal(t, "spotless", *review.Comment)
	})

	t.Run("uncompleted booking rejects the review", func(t *testing.T) {
		f := newFixture(t)

		for _, status := range []BookingStatus{BookingPending, BookingApproved, BookingStarted, BookingCancelled, BookingRejected} {
			bookingID := f.addBooking(status)
			_, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{Rating: 4})
			assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
		}
	})

	t.Run("only the booking owner may review", func(t *testing.T) {
		f := newFixture(t)
		bookingID := f.addBooking(BookingCompleted)

		_, err := f.controller.Submit(context.Background(), f.stranger, bookingID, SubmitReviewRequest{Rating: 4})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("second review for the same booking fails", func(t *testing.T) {
		f := newFixture(t)
		bookingID := f.addBooking(BookingCompleted)

		_, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{Rating: 5})
		require.NoError(t, err)

		_, err = f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{Rating: 1})
		assert.ErrorIs(t, err, ErrDuplicateReview)
		assert.Len(t, f.reviews.reviews, 1)
	})

	t.Run("rating out of bounds", func(t *testing.T) {
		f := newFixture(t)
		bookingID := f.addBooking(BookingCompleted)

		for _, rating := range []int{0, 6, -1} {
			_, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{Rating: rating})
			assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
		}
	})

	t.Run("comment over the limit", func(t *testing.T) {
		f := newFixture(t)
		bookingID := f.addBooking(BookingCompleted)

		_, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{
			Rating:  4,
			Comment: strings.Repeat("a", MaxReviewCommentLength+1),
		})
		assert.ErrorIs(t, err, ErrCommentTooLong)
	})

	t.Run("fires thank-you and admin notifications", func(t *testing.T) {
		f := newFixture(t)
		bookingID := f.addBooking(BookingCompleted)

		_, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{Rating: 5})
		require.NoError(t, err)

		assert.Equal(t, []NotificationKind{NotifyReviewThankYou, NotifyAdminNewReview}, f.outbox.kinds)
	})
}

func TestReviewController_Moderate(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	submit := func(t *testing.T, f *fixture, allowPublication bool) *Review {
		t.Helper()
		bookingID := f.addBooking(BookingCompleted)
		review, err := f.controller.Submit(context.Background(), f.owner, bookingID, SubmitReviewRequest{
			Rating:           5,
			AllowPublication: allowPublication,
		})
		require.NoError(t, err)
		return review
	}

	t.Run("approval makes a consented review public", func(t *testing.T) {
		f := newFixture(t)
		review := submit(t, f, true)

		public, err := f.controller.ListPublic(context.Background())
		require.NoError(t, err)
		assert.Empty(t, public, "unapproved review must stay hidden")

		_, err = f.controller.Moderate(context.Background(), review.ID, ModerateReviewRequest{
			IsApproved: boolPtr(true),
		})
		require.NoError(t, err)

		public, err = f.controller.ListPublic(context.Background())
		require.NoError(t, err)
		assert.Len(t, public, 1)
	})

	t.Run("approval without consent stays hidden", func(t *testing.T) {
		f := newFixture(t)
		review := submit(t, f, false)

		_, err := f.controller.Moderate(context.Background(), review.ID, ModerateReviewRequest{
			IsApproved: boolPtr(true),
		})
		require.NoError(t, err)

		public, err := f.controller.ListPublic(context.Background())
		require.NoError(t, err)
		assert.Empty(t, public)
	})

	t.Run("deactivation hides an approved review", func(t *testing.T) {
		f := newFixture(t)
		review := submit(t, f, true)

		_, err := f.controller.Moderate(context.Background(), review.ID, ModerateReviewRequest{
			IsApproved: boolPtr(true),
		})
		require.NoError(t, err)

		_, err = f.controller.Moderate(context.Background(), review.ID, ModerateReviewRequest{
			IsActive: boolPtr(false),
		})
		require.NoError(t, err)

		public, err := f.controller.ListPublic(context.Background())
		require.NoError(t, err)
		assert.Empty(t, public)
	})

	t.Run("empty moderation request fails", func(t *testing.T) {
		f := newFixture(t)
		review := submit(t, f, true)

		_, err := f.controller.Moderate(context.Background(), review.ID, ModerateReviewRequest{})
		assert.ErrorIs(t, err, ErrNothingToUpdate)
	})

	t.Run("unknown review fails with not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.controller.Moderate(context.Background(), uuid.New(), ModerateReviewRequest{
			IsApproved: boolPtr(true),
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
