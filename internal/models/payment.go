package models

import (
	"gorm.io/gorm"
)

// PendingPayment is an unconfirmed tier-upgrade request, at most one per
// user. A later start-session request silently replaces it; a successful
// confirmation deletes it.
type PendingPayment struct {
	gorm.Model
	UserID        string `gorm:"uniqueIndex;not null"`
	RequestedTier string `gorm:"not null"`
}
