package model

import "time"

// Machine represents a piece of tracked equipment owned by one user.
type Machine struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:100;not null" json:"code"` // Business-facing machine identifier
	Name        string    `gorm:"size:255;not null" json:"name"`
	Location    string    `gorm:"size:255" json:"location,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	UserID      int64     `gorm:"index;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
