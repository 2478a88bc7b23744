package services

import (
	"amora_go_backend/internal/models"

	"gorm.io/gorm"
)

// DefaultPaymentStore implements PaymentStore on gorm.
type DefaultPaymentStore struct {
	db *gorm.DB
}

// NewPaymentStore creates a new DefaultPaymentStore
func NewPaymentStore(db *gorm.DB) PaymentStore {
	return &DefaultPaymentStore{db: db}
}

func (s *DefaultPaymentStore) GetPendingPayment(userID string) (*models.PendingPayment, error) {
	var pending models.PendingPayment
	result := s.db.Where("user_id = ?", userID).First(&pending)
	if result.Error != nil {
		return nil, result.Error
	}
	return &pending, nil
}

// UpsertPendingPayment records a tier-upgrade request, replacing any prior
// unconfirmed one. Last request wins.
func (s *DefaultPaymentStore) UpsertPendingPayment(userID string, tier Tier) error {
	pending := models.PendingPayment{
		UserID:        userID,
		RequestedTier: string(tier),
	}
	result := s.db.Where(models.PendingPayment{UserID: userID}).
		Assign(models.PendingPayment{RequestedTier: string(tier)}).
		FirstOrCreate(&pending)
	return result.Error
}

func (s *DefaultPaymentStore) DeletePendingPayment(userID string) error {
	return s.db.Unscoped().Where("user_id = ?", userID).Delete(&models.PendingPayment{}).Error
}
