package models

import (
	"gorm.io/gorm"
)

// Onboarding stages, advanced one free-text answer at a time.
const (
	StageType        = "type"
	StageHair        = "hair"
	StageBody        = "body"
	StagePersonality = "personality"
	StageAge         = "age"
)

// OnboardingSession carries the questionnaire state between turns. The
// stage is stored per user rather than held on a call stack so that the
// flow survives restarts and duplicate deliveries.
type OnboardingSession struct {
	gorm.Model
	UserID      string `gorm:"uniqueIndex;not null"`
	Stage       string `gorm:"not null"`
	Type        string
	Hair        string
	Body        string
	Personality string
	Age         string
}
