package jobs

import (
	"context"
	"testing"

	"sudshine/config"
	. "sudshine/internal/models"
	"sudshine/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoyaltyRepo struct {
	ledgers []LoyaltyLedger
}

func (r *fakeLoyaltyRepo) GetOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*LoyaltyLedger, error) {
	return nil, ErrNotFound
}

func (r *fakeLoyaltyRepo) Save(ctx context.Context, tx *gorm.DB, ledger *LoyaltyLedger) error {
	return nil
}

func (r *fakeLoyaltyRepo) RecordCredit(ctx context.Context, tx *gorm.DB, bookingID, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeLoyaltyRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*LoyaltyLedger, error) {
	return nil, ErrNotFound
}

func (r *fakeLoyaltyRepo) FindDiscountEligible(ctx context.Context) ([]LoyaltyLedger, error) {
	return r.ledgers, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	return nil, ErrNotFound
}

func (r *fakeUserRepo) FindOrCreateByExternalID(ctx context.Context, user *User) (*User, bool, error) {
	return nil, false, ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error { return nil }

type fakeMailer struct {
	recipients []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.recipients = append(m.recipients, to)
	return nil
}

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

func TestLoyaltyReminderJob(t *testing.T) {
	newUser := func(users *fakeUserRepo, email string, active bool) uuid.UUID {
		user := User{IsActive: active}
		user.ID = uuid.New()
		if email != "" {
			user.Email = &email
		}
		users.users[user.ID] = user
		return user.ID
	}

	t.Run("reminds eligible active users", func(t *testing.T) {
		users := &fakeUserRepo{users: make(map[uuid.UUID]User)}
		eligible := newUser(users, "kim@example.com", true)
		inactive := newUser(users, "gone@example.com", false)

		ledgers := &fakeLoyaltyRepo{ledgers: []LoyaltyLedger{
			{UserID: eligible, BookingsCount: 4, DiscountAvailable: true},
			{UserID: inactive, BookingsCount: 9, DiscountAvailable: true},
		}}

		mailer := &fakeMailer{}
		outbox := &fakeNotificationRepo{}
		notification := services.NewNotificationService(mailer, outbox, nil, config.Config{})

		job := NewLoyaltyReminderJob(ledgers, users, notification, services.Daily)
		require.NoError(t, job.Execute(context.Background()))

		assert.Equal(t, []string{"kim@example.com"}, mailer.recipients)
		assert.Equal(t, []NotificationKind{NotifyLoyaltyReminder}, outbox.kinds)
	})

	t.Run("empty ledger set is a no-op", func(t *testing.T) {
		users := &fakeUserRepo{users: make(map[uuid.UUID]User)}
		mailer := &fakeMailer{}
		notification := services.NewNotificationService(mailer, &fakeNotificationRepo{}, nil, config.Config{})

		job := NewLoyaltyReminderJob(&fakeLoyaltyRepo{}, users, notification, services.Daily)
		require.NoError(t, job.Execute(context.Background()))

		assert.Empty(t, mailer.recipients)
	})

	t.Run("job metadata", func(t *testing.T) {
		job := NewLoyaltyReminderJob(&fakeLoyaltyRepo{}, &fakeUserRepo{}, nil, services.Daily)
		assert.Equal(t, "loyalty-reminder", job.Name())
		assert.Equal(t, services.Daily, job.Schedule())
	})
}
