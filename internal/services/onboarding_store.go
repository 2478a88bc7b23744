package services

import (
	"amora_go_backend/internal/models"

	"gorm.io/gorm"
)

// DefaultOnboardingStore implements OnboardingStore on gorm.
type DefaultOnboardingStore struct {
	db *gorm.DB
}

// NewOnboardingStore creates a new DefaultOnboardingStore
func NewOnboardingStore(db *gorm.DB) OnboardingStore {
	return &DefaultOnboardingStore{db: db}
}

func (s *DefaultOnboardingStore) GetSession(userID string) (*models.OnboardingSession, error) {
	var session models.OnboardingSession
	result := s.db.Where("user_id = ?", userID).First(&session)
	if result.Error != nil {
		return nil, result.Error
	}
	return &session, nil
}

func (s *DefaultOnboardingStore) SaveSession(session *models.OnboardingSession) error {
	return s.db.Save(session).Error
}

func (s *DefaultOnboardingStore) DeleteSession(userID string) error {
	return s.db.Unscoped().Where("user_id = ?", userID).Delete(&models.OnboardingSession{}).Error
}
