// Package model defines database models
package model

import "time"

type User struct {
	ID               string     `gorm:"primaryKey;size:16" json:"id"`
	FullName         string     `gorm:"not null" json:"fullName"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Avatar           *string    `json:"avatar"`
	RefreshToken     *string    `json:"-"`
	ResetToken       *string    `gorm:"uniqueIndex" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Events []Event `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
}
