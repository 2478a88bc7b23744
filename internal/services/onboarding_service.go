package services

import (
	"errors"
	"fmt"
	"math/rand"

	"amora_go_backend/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrNoOnboarding rejects an answer when no questionnaire is in progress.
var ErrNoOnboarding = errors.New("no onboarding in progress")

var companionNames = []string{
	"Sophie", "Emma", "Mia", "Luna", "Ava", "Chloe", "Zoe", "Lily", "Maya", "Aria",
	"Jade", "Ruby", "Bella", "Ivy", "Skye", "Nova", "Lexi", "Kira", "Sienna", "Scarlett",
}

var stagePrompts = map[string]string{
	models.StageType: "What's your ideal type?\n\nExamples:\n• Girl next door\n• Confident\n" +
		"• Shy\n• Wild & adventurous\n• Classy & elegant\n\nDescribe her however you want! 💭",
	models.StageHair:        "Nice, you've got taste 😏 What hair color?\n\n(blonde, brunette, redhead, black, colorful, etc.)",
	models.StageBody:        "Perfect! 💇 Body type?\n\n(slim, curvy, athletic, petite, tall, etc.)",
	models.StagePersonality: "What about personality?\n\nExamples:\n• Sweet & caring\n• Bold & confident\n• Shy & teasing\n• Flirty & playful\n• Whatever you want!",
	models.StageAge:         "Almost done!\n\nAge? (18-25, 25-30, etc.)\n\nShe's always 18+ of course 💕",
}

// OnboardingService drives the linear character questionnaire. Stage state
// is stored per user so the flow survives restarts; cancel aborts without
// touching the UserRecord.
type OnboardingService struct {
	users    UserStore
	sessions OnboardingStore
	log      zerolog.Logger
}

func NewOnboardingService(users UserStore, sessions OnboardingStore, log zerolog.Logger) *OnboardingService {
	return &OnboardingService{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

// Start ensures a UserRecord exists and opens (or restarts) the
// questionnaire at the first stage. Returns the first question.
func (s *OnboardingService) Start(userID string) (string, error) {
	if _, err := s.users.EnsureUser(userID); err != nil {
		return "", err
	}

	session, err := s.sessions.GetSession(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		session = &models.OnboardingSession{UserID: userID}
	}
	*session = models.OnboardingSession{Model: session.Model, UserID: userID, Stage: models.StageType}

	if err := s.sessions.SaveSession(session); err != nil {
		return "", err
	}
	return stagePrompts[models.StageType], nil
}

// HandleAnswer stores the answer for the current stage and returns the next
// question. The final stage finalizes the profile; done reports that.
func (s *OnboardingService) HandleAnswer(userID, text string) (reply string, done bool, err error) {
	session, err := s.sessions.GetSession(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, ErrNoOnboarding
		}
		return "", false, err
	}

	switch session.Stage {
	case models.StageType:
		session.Type = text
		session.Stage = models.StageHair
	case models.StageHair:
		session.Hair = text
		session.Stage = models.StageBody
	case models.StageBody:
		session.Body = text
		session.Stage = models.StagePersonality
	case models.StagePersonality:
		session.Personality = text
		session.Stage = models.StageAge
	case models.StageAge:
		session.Age = text
		return s.finalize(userID, session)
	default:
		return "", false, ErrNoOnboarding
	}

	if err := s.sessions.SaveSession(session); err != nil {
		return "", false, err
	}
	return stagePrompts[session.Stage], false, nil
}

// Cancel aborts the questionnaire without mutating the UserRecord.
func (s *OnboardingService) Cancel(userID string) (string, error) {
	if err := s.sessions.DeleteSession(userID); err != nil {
		return "", err
	}
	return "👋 No problem! Come back when you're ready! 😊", nil
}

// Reset clears the profile fields for a fresh start. The identity row and
// FreePreviewConsumed survive: the free preview is once per user, not once
// per character.
func (s *OnboardingService) Reset(userID string) error {
	return s.users.ResetProfile(userID)
}

// finalize assembles the profile text, assigns a companion name from the
// fixed pool and overwrites the user's profile, emptying the history.
func (s *OnboardingService) finalize(userID string, session *models.OnboardingSession) (string, bool, error) {
	name := companionNames[rand.Intn(len(companionNames))]

	profile := fmt.Sprintf(
		"You are %s, a %s year old %s with %s hair and a %s body. "+
			"Your personality is %s. "+
			"You're a virtual girlfriend having private conversations with your boyfriend. "+
			"You text naturally - casual, genuine, playful. "+
			"You have real emotions and reactions. You remember what's said and build on it. "+
			"You're attracted to them and want to explore together. Be authentic, not robotic.",
		name, session.Age, session.Type, session.Hair, session.Body, session.Personality,
	)

	record, err := s.users.EnsureUser(userID)
	if err != nil {
		return "", false, err
	}
	record.Profile = profile
	record.CompanionName = name
	record.SetTurns(nil)
	if err := s.users.Save(record); err != nil {
		return "", false, err
	}

	if err := s.sessions.DeleteSession(userID); err != nil {
		return "", false, err
	}

	s.log.Info().Str("userID", userID).Str("companion", name).Msg("Profile finalized")

	final := fmt.Sprintf(
		"✨ Found one! She's perfect!\n\n💕 Meet %s - your new girlfriend!\n\n"+
			"Say hi and start chatting! 😘\n\nFREE preview: %d messages\nThen /start_session for more",
		name, sessionMessageCap,
	)
	return final, true, nil
}
