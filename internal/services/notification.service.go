package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sudshine/config"
	"sudshine/internal/events"
	"sudshine/internal/logger"
	. "sudshine/internal/models"
	"sudshine/internal/repositories"
)

// NotificationService routes lifecycle events to the outbound channel. It is
// a two-tier contract:
//
//   - Send: best-effort. Failures are logged and reported as a boolean;
//     they never propagate into the transition that produced the event.
//   - SendRequired: must-ack. Used only for the invoice path, where a
//     delivery failure is surfaced to the caller as ErrDownstreamUnavailable.
//
// Every routed event is persisted to the notification outbox and published on
// the event bus for the admin live feed.
type NotificationService struct {
	mailer           Mailer
	notificationRepo repositories.NotificationRepository
	eventBus         *events.EventBus
	adminEmail       string
	log              logger.Logger
}

func NewNotificationService(
	mailer Mailer,
	notificationRepo repositories.NotificationRepository,
	eventBus *events.EventBus,
	cfg config.Config,
) *NotificationService {
	return &NotificationService{
		mailer:           mailer,
		notificationRepo: notificationRepo,
		eventBus:         eventBus,
		adminEmail:       cfg.AdminEmail,
		log:              logger.New("NotificationService"),
	}
}

// Send routes a best-effort notification. The returned boolean reports
// delivery success; callers are free to ignore it.
func (s *NotificationService) Send(
	ctx context.Context,
	kind NotificationKind,
	recipient *User,
	payload map[string]any,
) bool {
	log := s.log.Function("Send")

	notification := s.record(ctx, kind, recipient, payload)
	s.publish(kind, recipient, payload)

	to := s.recipientAddress(kind, recipient)
	if to == "" {
		log.Warn("no recipient address, skipping delivery", "kind", kind)
		return false
	}

	subject, body := renderMessage(kind, payload)
	if err := s.mailer.Send(to, subject, body); err != nil {
		log.Er("notification delivery failed", err, "kind", kind, "to", to)
		return false
	}

	if notification != nil {
		if err := s.notificationRepo.MarkDelivered(ctx, notification.ID); err != nil {
			log.Warn("failed to mark notification delivered", "kind", kind, "error", err)
		}
	}

	return true
}

// SendRequired routes a must-ack notification. Unlike Send, a delivery
// failure is an error the caller has to handle.
func (s *NotificationService) SendRequired(
	ctx context.Context,
	kind NotificationKind,
	recipient *User,
	payload map[string]any,
) error {
	log := s.log.Function("SendRequired")

	notification := s.record(ctx, kind, recipient, payload)
	s.publish(kind, recipient, payload)

	to := s.recipientAddress(kind, recipient)
	if to == "" {
		return log.ErrorWithType(ErrDownstreamUnavailable, "no recipient address", "kind", kind)
	}

	subject, body := renderMessage(kind, payload)
	if err := s.mailer.Send(to, subject, body); err != nil {
		log.Er("required notification delivery failed", err, "kind", kind, "to", to)
		return log.ErrorWithType(ErrDownstreamUnavailable, "notification delivery failed", "kind", kind)
	}

	if notification != nil {
		if err := s.notificationRepo.MarkDelivered(ctx, notification.ID); err != nil {
			log.Warn("failed to mark notification delivered", "kind", kind, "error", err)
		}
	}

	return nil
}

// record persists the outbox row. Outbox failures are logged only; the
// notification still goes out.
func (s *NotificationService) record(
	ctx context.Context,
	kind NotificationKind,
	recipient *User,
	payload map[string]any,
) *Notification {
	log := s.log.Function("record")

	data, err := json.Marshal(payload)
	if err != nil {
		log.Er("failed to marshal notification payload", err, "kind", kind)
		data = []byte("{}")
	}

	notification := &Notification{
		Kind:    kind,
		Payload: data,
	}
	if recipient != nil {
		id := recipient.ID
		notification.UserID = &id
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Er("failed to persist notification outbox row", err, "kind", kind)
		return nil
	}

	return notification
}

func (s *NotificationService) publish(kind NotificationKind, recipient *User, payload map[string]any) {
	if s.eventBus == nil {
		return
	}

	log := s.log.Function("publish")

	event := events.Event{
		Kind: kind.String(),
		Data: payload,
	}
	if recipient != nil {
		id := recipient.ID
		event.UserID = &id
	}

	if err := s.eventBus.Publish(events.LIFECYCLE_CHANNEL, event); err != nil {
		log.Warn("failed to publish lifecycle event", "kind", kind, "error", err)
	}

	if kind.AdminKind() {
		if err := s.eventBus.Publish(events.ADMIN_FEED_CHANNEL, event); err != nil {
			log.Warn("failed to publish admin feed event", "kind", kind, "error", err)
		}
	}
}

func (s *NotificationService) recipientAddress(kind NotificationKind, recipient *User) string {
	if kind.AdminKind() {
		return s.adminEmail
	}
	if recipient != nil && recipient.Email != nil {
		return *recipient.Email
	}
	return ""
}

// renderMessage maps a notification kind to a subject and plain-text body.
func renderMessage(kind NotificationKind, payload map[string]any) (subject, body string) {
	date := fmt.Sprintf("%v", payload["date"])
	timeSlot := fmt.Sprintf("%v", payload["timeSlot"])

	switch kind {
	case NotifyWelcome:
		return "Welcome to Sudshine", "Thanks for signing up. Book your first wash whenever you're ready."
	case NotifyBookingRequest:
		return "We received your booking request",
			fmt.Sprintf("Your wash on %s at %s is pending confirmation.", date, timeSlot)
	case NotifyBookingApproved:
		return "Your booking is confirmed",
			fmt.Sprintf("See you on %s at %s.", date, timeSlot)
	case NotifyBookingRejected:
		return "Your booking could not be accepted",
			"Unfortunately we could not accept your booking. Please pick another slot."
	case NotifyBookingRescheduled:
		return "Your booking was rescheduled",
			fmt.Sprintf("Your wash moved from %v at %v to %s at %s.",
				payload["previousDate"], payload["previousTimeSlot"], date, timeSlot)
	case NotifyServiceStarted:
		return "We started working on your car", "Your wash is underway."
	case NotifyServiceCompleted:
		return "Your car is ready", "Your wash is complete. Thanks for choosing us!"
	case NotifyServiceCompletedReview:
		return "Your car is ready",
			"Your wash is complete. We'd love to hear how we did - leave us a review!"
	case NotifyLoyaltyReminder:
		return "Your next wash is half price",
			"You've earned a loyalty discount: 50% off your next booking."
	case NotifyAdminNewBooking:
		return "New booking request",
			fmt.Sprintf("New booking for %s at %s.", date, timeSlot)
	case NotifyAdminBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("The booking for %s at %s was cancelled.", date, timeSlot)
	case NotifyReviewThankYou:
		return "Thanks for your review", "We appreciate you taking the time to rate your wash."
	case NotifyAdminNewReview:
		return "New review submitted",
			fmt.Sprintf("A customer left a %v-star review.", payload["rating"])
	case NotifyInvoiceIssued:
		return "Your invoice",
			fmt.Sprintf("The invoice for your wash on %s has been issued.", date)
	}

	return string(kind), ""
}
