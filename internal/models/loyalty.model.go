package models

import (
	"github.com/google/uuid"
)

// LoyaltyLedger holds one row per user counting completed bookings. The
// counter only ever grows; eligibility is recomputed on every increment and
// consumed when a discounted booking is created.
type LoyaltyLedger struct {
	BaseModel
	UserID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	BookingsCount     int       `gorm:"type:int;default:0"             json:"bookingsCount"`
	DiscountAvailable bool      `gorm:"type:bool;default:false"        json:"discountAvailable"`
}

// EligibleAfter reports whether a post-increment completion count unlocks the
// discount: true after the 4th, 9th, 14th, ... completed booking, so the next
// (5th, 10th, ...) booking is half price.
func EligibleAfter(bookingsCount int) bool {
	return bookingsCount%5 == 4
}

// RecordCompletion increments the counter and recomputes eligibility.
// Callers must hold the ledger row lock.
func (l *LoyaltyLedger) RecordCompletion() {
	l.BookingsCount++
	l.DiscountAvailable = EligibleAfter(l.BookingsCount)
}

// ConsumeDiscount clears eligibility once a discounted booking has been
// created, so a single eligibility window cannot be spent twice.
func (l *LoyaltyLedger) ConsumeDiscount() {
	l.DiscountAvailable = false
}

// LoyaltyCredit is the idempotency record for a completion: at most one
// credit exists per booking, so a duplicated complete request cannot
// double-increment the ledger.
type LoyaltyCredit struct {
	BaseModel
	BookingID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"bookingId"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"       json:"userId"`
}
