package services_test

import (
	"context"

	"amora_go_backend/internal/models"
	"amora_go_backend/internal/services"

	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUserID(userID string) (*models.UserRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockUserStore) EnsureUser(userID string) (*models.UserRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockUserStore) Save(record *models.UserRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockUserStore) ResetProfile(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockPaymentStore struct {
	mock.Mock
}

func (m *MockPaymentStore) GetPendingPayment(userID string) (*models.PendingPayment, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingPayment), args.Error(1)
}

func (m *MockPaymentStore) UpsertPendingPayment(userID string, tier services.Tier) error {
	args := m.Called(userID, tier)
	return args.Error(0)
}

func (m *MockPaymentStore) DeletePendingPayment(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockOnboardingStore struct {
	mock.Mock
}

func (m *MockOnboardingStore) GetSession(userID string) (*models.OnboardingSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OnboardingSession), args.Error(1)
}

func (m *MockOnboardingStore) SaveSession(session *models.OnboardingSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockOnboardingStore) DeleteSession(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, system string, turns []models.ChatTurn, maxTokens int, temperature float64) (string, error) {
	args := m.Called(ctx, system, turns, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

type MockTransferVerifier struct {
	mock.Mock
}

func (m *MockTransferVerifier) VerifyTransfer(ctx context.Context, sourceAddress string, amountUnits int) bool {
	args := m.Called(ctx, sourceAddress, amountUnits)
	return args.Bool(0)
}

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(topic string, msg interface{}) {
	m.Called(topic, msg)
}
