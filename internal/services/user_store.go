package services

import (
	"amora_go_backend/internal/models"

	"gorm.io/gorm"
)

// DefaultUserStore implements UserStore on gorm.
type DefaultUserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new DefaultUserStore
func NewUserStore(db *gorm.DB) UserStore {
	return &DefaultUserStore{db: db}
}

func (s *DefaultUserStore) GetByUserID(userID string) (*models.UserRecord, error) {
	var record models.UserRecord
	result := s.db.Where("user_id = ?", userID).First(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

// EnsureUser returns the record for userID, creating an empty one if the
// user has never been seen before.
func (s *DefaultUserStore) EnsureUser(userID string) (*models.UserRecord, error) {
	record := models.UserRecord{
		UserID:  userID,
		Tier:    string(TierNone),
		History: []byte("[]"),
	}
	result := s.db.Where(models.UserRecord{UserID: userID}).FirstOrCreate(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

func (s *DefaultUserStore) Save(record *models.UserRecord) error {
	return s.db.Save(record).Error
}

// ResetProfile clears the character fields while preserving the identity
// row, the current tier and FreePreviewConsumed.
func (s *DefaultUserStore) ResetProfile(userID string) error {
	return s.db.Model(&models.UserRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"profile":        "",
			"history":        []byte("[]"),
			"display_name":   "",
			"companion_name": "",
		}).Error
}
