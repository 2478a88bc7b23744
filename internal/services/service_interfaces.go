package services

import (
	"context"

	"amora_go_backend/internal/models"
)

// UserStore is the persistence boundary for UserRecord. Implementations
// must be atomic at single-record granularity.
type UserStore interface {
	GetByUserID(userID string) (*models.UserRecord, error)
	EnsureUser(userID string) (*models.UserRecord, error)
	Save(record *models.UserRecord) error
	ResetProfile(userID string) error
}

// PaymentStore is the persistence boundary for PendingPayment (at most one
// per user; upsert replaces, confirm deletes).
type PaymentStore interface {
	GetPendingPayment(userID string) (*models.PendingPayment, error)
	UpsertPendingPayment(userID string, tier Tier) error
	DeletePendingPayment(userID string) error
}

// OnboardingStore persists the questionnaire state between turns.
type OnboardingStore interface {
	GetSession(userID string) (*models.OnboardingSession, error)
	SaveSession(session *models.OnboardingSession) error
	DeleteSession(userID string) error
}

// CompletionProvider produces a reply for an ordered list of turns. A
// failure is returned as *CompletionFailure carrying a user-presentable
// message; the provider never mutates session state.
type CompletionProvider interface {
	Complete(ctx context.Context, system string, turns []models.ChatTurn, maxTokens int, temperature float64) (string, error)
}

// TransferVerifier checks the external ledger for a matching inbound
// transfer. Transport faults report false rather than an error, since the
// remediation (wait and retry) is the same either way.
type TransferVerifier interface {
	VerifyTransfer(ctx context.Context, sourceAddress string, amountUnits int) bool
}

// ImageGenerator turns a composed visual prompt into an image URL, or ""
// when the provider returns nothing.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// TierNotifier receives entitlement-change events for push delivery.
type TierNotifier interface {
	Publish(topic string, msg interface{})
}
