package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceExterior ServiceType = "exterior"
	ServiceComplete ServiceType = "complete"
)

func (s ServiceType) Valid() bool {
	return s == ServiceExterior || s == ServiceComplete
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingStarted   BookingStatus = "started"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal returns true for statuses that admit no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingRejected, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Transition string

const (
	TransitionApprove    Transition = "approve"
	TransitionReject     Transition = "reject"
	TransitionReschedule Transition = "reschedule"
	TransitionStart      Transition = "start"
	TransitionComplete   Transition = "complete"
	TransitionCancel     Transition = "cancel"
)

type transitionRule struct {
	from      []BookingStatus
	to        BookingStatus
	adminOnly bool
}

// transitionTable is the single closed source of truth for the booking
// lifecycle. A transition absent here does not exist.
var transitionTable = map[Transition]transitionRule{
	TransitionApprove:    {from: []BookingStatus{BookingPending}, to: BookingApproved, adminOnly: true},
	TransitionReject:     {from: []BookingStatus{BookingPending}, to: BookingRejected, adminOnly: true},
	TransitionReschedule: {from: []BookingStatus{BookingApproved}, to: BookingApproved, adminOnly: true},
	TransitionStart:      {from: []BookingStatus{BookingApproved}, to: BookingStarted, adminOnly: true},
	TransitionComplete:   {from: []BookingStatus{BookingStarted}, to: BookingCompleted, adminOnly: true},
	TransitionCancel:     {from: []BookingStatus{BookingPending, BookingApproved}, to: BookingCancelled},
}

type Booking struct {
	BaseUUIDModel
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"         json:"userId"`
	ServiceType     ServiceType     `gorm:"type:text;not null"               json:"serviceType"`
	Date            time.Time       `gorm:"type:date;not null"               json:"date"`
	TimeSlot        string          `gorm:"type:text;not null"               json:"timeSlot"`
	CarModel        string          `gorm:"type:text"                        json:"carModel"`
	CarPlate        string          `gorm:"type:text"                        json:"carPlate"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2)"               json:"price"`
	DiscountApplied bool            `gorm:"type:bool;default:false"          json:"discountApplied"`
	Status          BookingStatus   `gorm:"type:text;default:pending;index"  json:"status"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CanTransition validates the requested transition against the booking's
// current status and the actor's role. It returns the target status without
// mutating anything; callers apply the change inside their own transaction.
func (b *Booking) CanTransition(transition Transition, actor *User) (BookingStatus, error) {
	rule, ok := transitionTable[transition]
	if !ok {
		return "", ErrInvalidTransition
	}

	if rule.adminOnly && !actor.IsAdmin {
		return "", ErrUnauthorized
	}

	// A customer may only cancel their own booking.
	if transition == TransitionCancel && !actor.IsAdmin && b.UserID != actor.ID {
		return "", ErrUnauthorized
	}

	for _, from := range rule.from {
		if b.Status == from {
			return rule.to, nil
		}
	}

	return "", ErrInvalidTransition
}

// DiscountRate is the loyalty reward applied to every fifth completed booking.
var DiscountRate = decimal.NewFromFloat(0.5)

// ComputePrice applies the loyalty discount to a base price.
func ComputePrice(base decimal.Decimal, discountEligible bool) (price decimal.Decimal, discountApplied bool) {
	if !discountEligible {
		return base, false
	}
	return base.Mul(DiscountRate), true
}

// CreateBookingRequest is the customer-facing creation payload.
type CreateBookingRequest struct {
	ServiceType ServiceType `json:"serviceType"`
	Date        string      `json:"date"`
	TimeSlot    string      `json:"timeSlot"`
	CarModel    string      `json:"carModel"`
	CarPlate    string      `json:"carPlate"`
}

// RescheduleRequest carries the replacement date and slot for an approved booking.
type RescheduleRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}
