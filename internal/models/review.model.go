package models

import (
	"strings"

	"github.com/google/uuid"
)

// MaxReviewCommentLength bounds the free-text comment on a review.
const MaxReviewCommentLength = 50

type Review struct {
	BaseUUIDModel
	BookingID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"bookingId"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null"       json:"userId"`
	Rating           int       `gorm:"type:int;not null"              json:"rating"`
	Comment          *string   `gorm:"type:text"                      json:"comment,omitempty"`
	AllowPublication bool      `gorm:"type:bool;default:false"        json:"allowPublication"`
	IsApproved       bool      `gorm:"type:bool;default:false"        json:"isApproved"`
	IsActive         bool      `gorm:"type:bool;default:true"         json:"isActive"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsPublic reports whether the review may appear on the public listing:
// the customer consented and an admin approved it and has not disabled it.
func (r *Review) IsPublic() bool {
	return r.AllowPublication && r.IsApproved && r.IsActive
}

// SubmitReviewRequest is the customer-facing submission payload.
type SubmitReviewRequest struct {
	Rating           int    `json:"rating"`
	Comment          string `json:"comment"`
	AllowPublication bool   `json:"allowPublication"`
}

// Validate checks the submission bounds before anything is written.
func (req *SubmitReviewRequest) Validate() error {
	if req.Rating < 1 || req.Rating > 5 {
		return ErrInvalidRating
	}
	if len(strings.TrimSpace(req.Comment)) > MaxReviewCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// ModerateReviewRequest is the admin moderation payload; both fields are
// optional but at least one must be present.
type ModerateReviewRequest struct {
	IsApproved *bool `json:"isApproved,omitempty"`
	IsActive   *bool `json:"isActive,omitempty"`
}

func (req *ModerateReviewRequest) Validate() error {
	if req.IsApproved == nil && req.IsActive == nil {
		return ErrNothingToUpdate
	}
	return nil
}
