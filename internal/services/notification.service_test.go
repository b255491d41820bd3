package services

import (
	"context"
	"errors"
	"sudshine/config"
	. "sudshine/internal/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeNotificationRepo struct {
	created   []*Notification
	delivered []uuid.UUID
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *Notification) error {
	notification.ID = uuid.New()
	r.created = append(r.created, notification)
	return nil
}

func (r *fakeNotificationRepo) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	r.delivered = append(r.delivered, id)
	return nil
}

func (r *fakeNotificationRepo) FindRecent(ctx context.Context, limit int) ([]Notification, error) {
	return nil, nil
}

func newTestNotificationService(mailer *fakeMailer, repo *fakeNotificationRepo) *NotificationService {
	return NewNotificationService(mailer, repo, nil, config.Config{AdminEmail: "owner@sudshine.test"})
}

func customerWithEmail(email string) *User {
	user := &User{Email: &email}
	user.ID = uuid.New()
	return user
}

func TestNotificationService_Send(t *testing.T) {
	t.Run("delivers to the customer and records the outbox row", func(t *testing.T) {
		mailer := &fakeMailer{}
		repo := &fakeNotificationRepo{}
		svc := newTestNotificationService(mailer, repo)

		customer := customerWithEmail("kim@example.com")
		ok := svc.Send(context.Background(), NotifyBookingApproved, customer, map[string]any{
			"date": "2026-09-04", "timeSlot": "10:00",
		})

		assert.True(t, ok)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "kim@example.com", mailer.sent[0].to)
		assert.Contains(t, mailer.sent[0].body, "2026-09-04")
		require.Len(t, repo.created, 1)
		assert.Equal(t, NotifyBookingApproved, repo.created[0].Kind)
		assert.Len(t, repo.delivered, 1)
	})

	t.Run("routes admin kinds to the admin address", func(t *testing.T) {
		mailer := &fakeMailer{}
		repo := &fakeNotificationRepo{}
		svc := newTestNotificationService(mailer, repo)

		customer := customerWithEmail("kim@example.com")
		ok := svc.Send(context.Background(), NotifyAdminNewBooking, customer, map[string]any{
			"date": "2026-09-04", "timeSlot": "10:00",
		})

		assert.True(t, ok)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "owner@sudshine.test", mailer.sent[0].to)
	})

	t.Run("swallows delivery failure and reports false", func(t *testing.T) {
		mailer := &fakeMailer{fail: true}
		repo := &fakeNotificationRepo{}
		svc := newTestNotificationService(mailer, repo)

		customer := customerWithEmail("kim@example.com")
		ok := svc.Send(context.Background(), NotifyServiceCompleted, customer, map[string]any{})

		assert.False(t, ok)
		// The outbox row exists but stays undelivered.
		require.Len(t, repo.created, 1)
		assert.Empty(t, repo.delivered)
	})

	t.Run("missing recipient address is not a delivery", func(t *testing.T) {
		mailer := &fakeMailer{}
		repo := &fakeNotificationRepo{}
		svc := newTestNotificationService(mailer, repo)

		noEmail := &User{}
		noEmail.ID = uuid.New()
		ok := svc.Send(context.Background(), NotifyWelcome, noEmail, map[string]any{})

		assert.False(t, ok)
		assert.Empty(t, mailer.sent)
	})
}

func TestNotificationService_SendRequired(t *testing.T) {
	t.Run("surfaces delivery failure as downstream unavailable", func(t *testing.T) {
		mailer := &fakeMailer{fail: true}
		repo := &fakeNotificationRepo{}
		svc := newTestNotificationService(mailer, repo)

		customer := customerWithEmail("kim@example.com")
		err := svc.SendRequired(context.Background(), NotifyInvoiceIssued, customer, map[string]any{
			"date": "2026-09-04",
		})

		assert.ErrorIs(t, err, ErrDownstreamUnavailable)
	})

	t.Run("succeeds when the channel delivers", func(t *testing.T) {
		mailer := &fakeMailer{}
		repo := &fakeNotificationRepo{}
		svc := newTestNotificationService(mailer, repo)

		customer := customerWithEmail("kim@example.com")
		err := svc.SendRequired(context.Background(), NotifyInvoiceIssued, customer, map[string]any{
			"date": "2026-09-04",
		})

		assert.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Len(t, repo.delivered, 1)
	})
}

func TestRenderMessage_ReviewRequestVariant(t *testing.T) {
	_, plain := renderMessage(NotifyServiceCompleted, map[string]any{})
	_, withReview := renderMessage(NotifyServiceCompletedReview, map[string]any{})

	assert.NotContains(t, plain, "review")
	assert.Contains(t, withReview, "review")
}
