package models

import (
	"time"
)

// Notification is the log of LO alerts that actually fired, shown in the
// board's alert history.
type Notification struct {
	ID         uint      `gorm:"primaryKey"`
	Identifier string    `gorm:"type:varchar(100);not null;index"`
	Title      string    `gorm:"type:varchar(100);not null"`
	Body       string    `gorm:"type:text;not null"`
	FiredAt    time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}
