package services

import (
	"context"
	"errors"
	"fmt"

	"amora_go_backend/internal/keylock"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	// ErrInvalidTier rejects a start-session with an unknown tier name.
	ErrInvalidTier = errors.New("tier must be mild, moderate or explicit")
	// ErrNoPendingPayment rejects a confirm without a prior start-session.
	ErrNoPendingPayment = errors.New("no pending payment, use start_session first")
)

// Quote is the payment instruction returned by StartSession.
type Quote struct {
	Tier           Tier
	Amount         int
	WalletAddress  string
	WalletUsername string
	Instructions   string
}

// ConfirmResult reports the outcome of a confirmation attempt. A
// non-confirmed result is soft: the pending payment survives and the user
// may retry without starting over.
type ConfirmResult struct {
	Confirmed bool
	Tier      Tier
	Message   string
}

// PaymentService orchestrates the quote and the asynchronous on-chain
// confirmation that commits a tier upgrade.
type PaymentService struct {
	users          UserStore
	payments       PaymentStore
	verifier       TransferVerifier
	notifier       TierNotifier
	locks          *keylock.KeyLock
	walletAddress  string
	walletUsername string
	log            zerolog.Logger
}

func NewPaymentService(users UserStore, payments PaymentStore, verifier TransferVerifier, notifier TierNotifier, locks *keylock.KeyLock, walletAddress, walletUsername string, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		users:          users,
		payments:       payments,
		verifier:       verifier,
		notifier:       notifier,
		locks:          locks,
		walletAddress:  walletAddress,
		walletUsername: walletUsername,
		log:            log,
	}
}

// StartSession records a pending tier-upgrade request, replacing any prior
// one, and returns the price and payment instructions.
func (s *PaymentService) StartSession(userID, tierName string) (*Quote, error) {
	tier, ok := ParsePaidTier(tierName)
	if !ok {
		return nil, ErrInvalidTier
	}

	if err := s.payments.UpsertPendingPayment(userID, tier); err != nil {
		return nil, err
	}
	s.log.Info().Str("userID", userID).Str("tier", string(tier)).Msg("Pending payment recorded")

	amount := tier.Price()
	return &Quote{
		Tier:           tier,
		Amount:         amount,
		WalletAddress:  s.walletAddress,
		WalletUsername: s.walletUsername,
		Instructions: fmt.Sprintf(
			"Send exactly %d USDT (TON network) to %s\n\nAddress:\n%s\n\nAfter sending, confirm with your own wallet address.",
			amount, s.walletUsername, s.walletAddress,
		),
	}, nil
}

// ConfirmPayment verifies the submitted source address against the ledger
// for the pending tier's exact amount. On match it deletes the pending
// record and promotes the tier; on no match the pending record stays so the
// user can retry.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID, sourceAddress string) (*ConfirmResult, error) {
	pending, err := s.payments.GetPendingPayment(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingPayment
		}
		return nil, err
	}

	tier := Tier(pending.RequestedTier)
	if !s.verifier.VerifyTransfer(ctx, sourceAddress, tier.Price()) {
		return &ConfirmResult{
			Confirmed: false,
			Tier:      tier,
			Message:   paymentNotFoundReply,
		}, nil
	}

	if err := s.payments.DeletePendingPayment(userID); err != nil {
		return nil, err
	}

	s.locks.Lock(userID)
	record, err := s.users.GetByUserID(userID)
	if err != nil {
		s.locks.Unlock(userID)
		return nil, err
	}
	record.Tier = string(tier)
	record.MessageCount = 0
	err = s.users.Save(record)
	s.locks.Unlock(userID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("userID", userID).Str("tier", string(tier)).Msg("Payment confirmed, tier upgraded")
	s.notifier.Publish("tier_update_"+userID, string(tier))

	return &ConfirmResult{
		Confirmed: true,
		Tier:      tier,
		Message:   fmt.Sprintf(pickReply(confirmedReplies[tier]), record.CompanionName),
	}, nil
}
