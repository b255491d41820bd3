package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationKind enumerates every lifecycle event the router can forward.
type NotificationKind string

const (
	NotifyWelcome                NotificationKind = "welcome"
	NotifyBookingRequest         NotificationKind = "booking_request"
	NotifyBookingApproved        NotificationKind = "booking_approved"
	NotifyBookingRejected        NotificationKind = "booking_rejected"
	NotifyBookingRescheduled     NotificationKind = "booking_rescheduled"
	NotifyServiceStarted         NotificationKind = "service_started"
	NotifyServiceCompleted       NotificationKind = "service_completed"
	NotifyServiceCompletedReview NotificationKind = "service_completed_with_review_request"
	NotifyLoyaltyReminder        NotificationKind = "loyalty_reminder"
	NotifyAdminNewBooking        NotificationKind = "admin_new_booking"
	NotifyAdminBookingCancelled  NotificationKind = "admin_booking_cancelled"
	NotifyReviewThankYou         NotificationKind = "review_thank_you"
	NotifyAdminNewReview         NotificationKind = "admin_new_review"
	NotifyInvoiceIssued          NotificationKind = "invoice_issued"
)

func (k NotificationKind) String() string {
	return string(k)
}

// AdminKind reports whether the notification targets the admin channel
// rather than the customer who owns the booking.
func (k NotificationKind) AdminKind() bool {
	switch k {
	case NotifyAdminNewBooking, NotifyAdminBookingCancelled, NotifyAdminNewReview:
		return true
	}
	return false
}

// Notification is the outbox record for one routed event. Delivery is
// best-effort: a failed send leaves Delivered false and is never retried
// inside the transition that produced it.
type Notification struct {
	BaseUUIDModel
	Kind      NotificationKind `gorm:"type:text;index;not null" json:"kind"`
	UserID    *uuid.UUID       `gorm:"type:uuid;index"          json:"userId,omitempty"`
	Payload   datatypes.JSON   `gorm:"type:jsonb"               json:"payload"`
	Delivered bool             `gorm:"type:bool;default:false"  json:"delivered"`
}
