package services_test

import (
	"context"
	"testing"

	"amora_go_backend/internal/keylock"
	"amora_go_backend/internal/models"
	"amora_go_backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

const (
	testWalletAddress  = "EQReceivingWalletAddress"
	testWalletUsername = "@amora_wallet"
)

func newPaymentService(users *MockUserStore, payments *MockPaymentStore, verifier *MockTransferVerifier, notifier *MockNotifier) *services.PaymentService {
	return services.NewPaymentService(users, payments, verifier, notifier, keylock.New(), testWalletAddress, testWalletUsername, zerolog.Nop())
}

func TestStartSessionRejectsInvalidTier(t *testing.T) {
	mockPayments := new(MockPaymentStore)
	service := newPaymentService(new(MockUserStore), mockPayments, new(MockTransferVerifier), new(MockNotifier))

	_, err := service.StartSession("user-1", "platinum")

	assert.ErrorIs(t, err, services.ErrInvalidTier)
	mockPayments.AssertNotCalled(t, "UpsertPendingPayment", mock.Anything, mock.Anything)
}

func TestStartSessionQuotesFixedPrice(t *testing.T) {
	mockPayments := new(MockPaymentStore)
	service := newPaymentService(new(MockUserStore), mockPayments, new(MockTransferVerifier), new(MockNotifier))

	mockPayments.On("UpsertPendingPayment", "user-1", services.TierModerate).Return(nil)

	quote, err := service.StartSession("user-1", "moderate")

	assert.NoError(t, err)
	assert.Equal(t, services.TierModerate, quote.Tier)
	assert.Equal(t, 8, quote.Amount)
	assert.Equal(t, testWalletAddress, quote.WalletAddress)
	assert.Contains(t, quote.Instructions, "8 USDT")
	assert.Contains(t, quote.Instructions, testWalletAddress)

	mockPayments.AssertExpectations(t)
}

func TestConfirmPaymentRequiresPending(t *testing.T) {
	mockPayments := new(MockPaymentStore)
	mockVerifier := new(MockTransferVerifier)
	service := newPaymentService(new(MockUserStore), mockPayments, mockVerifier, new(MockNotifier))

	mockPayments.On("GetPendingPayment", "user-1").Return(nil, gorm.ErrRecordNotFound)

	_, err := service.ConfirmPayment(context.Background(), "user-1", "EQSomeAddress")

	assert.ErrorIs(t, err, services.ErrNoPendingPayment)
	mockVerifier.AssertNotCalled(t, "VerifyTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPaymentNotFoundKeepsPending(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockPayments := new(MockPaymentStore)
	mockVerifier := new(MockTransferVerifier)
	service := newPaymentService(mockUsers, mockPayments, mockVerifier, new(MockNotifier))

	pending := &models.PendingPayment{UserID: "user-1", RequestedTier: string(services.TierExplicit)}
	mockPayments.On("GetPendingPayment", "user-1").Return(pending, nil)
	mockVerifier.On("VerifyTransfer", mock.Anything, "EQSomeAddress", 15).Return(false)

	result, err := service.ConfirmPayment(context.Background(), "user-1", "EQSomeAddress")

	assert.NoError(t, err)
	assert.False(t, result.Confirmed)
	assert.Contains(t, result.Message, "don't see your payment")

	// The pending record stays so the user can retry confirm.
	mockPayments.AssertNotCalled(t, "DeletePendingPayment", mock.Anything)
	mockUsers.AssertNotCalled(t, "Save", mock.Anything)
}

func TestConfirmPaymentPromotesTier(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockPayments := new(MockPaymentStore)
	mockVerifier := new(MockTransferVerifier)
	mockNotifier := new(MockNotifier)
	service := newPaymentService(mockUsers, mockPayments, mockVerifier, mockNotifier)

	record := &models.UserRecord{
		UserID:              "user-1",
		Tier:                string(services.TierNone),
		FreePreviewConsumed: true,
		CompanionName:       "Luna",
		MessageCount:        7,
	}
	pending := &models.PendingPayment{UserID: "user-1", RequestedTier: string(services.TierModerate)}

	mockPayments.On("GetPendingPayment", "user-1").Return(pending, nil)
	mockVerifier.On("VerifyTransfer", mock.Anything, "EQBuyerAddress", 8).Return(true)
	mockPayments.On("DeletePendingPayment", "user-1").Return(nil)
	mockUsers.On("GetByUserID", "user-1").Return(record, nil)
	mockUsers.On("Save", record).Return(nil)
	mockNotifier.On("Publish", "tier_update_user-1", string(services.TierModerate)).Return()

	result, err := service.ConfirmPayment(context.Background(), "user-1", "EQBuyerAddress")

	assert.NoError(t, err)
	assert.True(t, result.Confirmed)
	assert.Equal(t, services.TierModerate, result.Tier)
	assert.Contains(t, result.Message, "Luna")
	assert.Equal(t, string(services.TierModerate), record.Tier)
	assert.Equal(t, 0, record.MessageCount)

	mockPayments.AssertExpectations(t)
	mockVerifier.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}
