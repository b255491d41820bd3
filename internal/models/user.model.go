package models

import (
	"time"
)

// User mirrors the identity provider's subject. Role membership (IsAdmin) is
// held locally so admin-only transitions can be authorized without a round
// trip to the provider.
type User struct {
	BaseUUIDModel
	Name     string  `gorm:"type:text"               json:"name"`
	Email    *string `gorm:"type:text;uniqueIndex"   json:"email"`
	IsAdmin  bool    `gorm:"type:bool;default:false" json:"isAdmin"`
	IsActive bool    `gorm:"type:bool;default:true"  json:"isActive"`

	// Subject issued by the external identity provider.
	ExternalID  string     `gorm:"column:external_id;type:text;uniqueIndex" json:"-"`
	LastLoginAt *time.Time `gorm:"type:timestamp"                           json:"lastLoginAt,omitempty"`
}

// UserProfile is the public projection of a User.
type UserProfile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       *string    `json:"email,omitempty"`
	IsAdmin     bool       `json:"isAdmin"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

// UpdateFromToken refreshes user fields from the latest identity token claims.
func (u *User) UpdateFromToken(email *string, name string) {
	now := time.Now()
	u.LastLoginAt = &now

	if email != nil && *email != "" {
		u.Email = email
	}
	if name != "" {
		u.Name = name
	}
}
