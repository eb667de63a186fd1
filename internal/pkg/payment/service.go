package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/internal/pkg/env"
	"github.com/jkimani/PairMatch/internal/pkg/phone"
)

// SubscriptionMonths is the entitlement window granted per successful payment.
const SubscriptionMonths = 3

// pendingReuseWindow bounds how long an existing pending checkout is handed
// back instead of opening a new gateway session.
const pendingReuseWindow = 24 * time.Hour

// Gateway is the outbound side of checkout creation.
type Gateway interface {
	CreateCheckout(ctx context.Context, in CheckoutRequest) (*CheckoutSession, error)
}

// checkoutLocker is the slice of redislock.Client the initiation path uses.
type checkoutLocker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// Service implements payment initiation and webhook reconciliation on top of
// an injected repository and gateway client.
type Service struct {
	repo    Repository
	gateway Gateway
	locker  checkoutLocker

	// now is swapped in tests to pin clock-dependent behavior.
	now func() time.Time
}

// NewService creates a payment service. locker may be nil; the per-member
// initiation lock is then skipped (single-instance deployments, tests).
func NewService(repo Repository, gateway Gateway, locker *redislock.Client) *Service {
	svc := &Service{repo: repo, gateway: gateway, now: time.Now}
	if locker != nil {
		svc.locker = locker
	}
	return svc
}

// NewServiceFromDB creates a payment service from a GORM DB handle using the
// env-configured gateway client.
func NewServiceFromDB(db *gorm.DB, locker *redislock.Client) *Service {
	return NewService(NewRepository(db), NewGatewayClientFromEnv(), locker)
}

// InitiationResult is what the member-facing checkout endpoint returns.
type InitiationResult struct {
	CheckoutURL string
	OrderID     string
	Reference   string
	Reused      bool
}

// InitiateCheckout resolves the member, opens a gateway checkout session and
// persists the pending ledger entry. An unexpired pending entry for the same
// member is reused instead of opening a second session. The gateway call and
// the ledger insert are not transactional: if the insert fails the checkout
// URL is still returned and the gap is logged for reconciliation.
func (s *Service) InitiateCheckout(ctx context.Context, userID uint) (*InitiationResult, error) {
	if userID == 0 {
		return nil, ErrProfileNotFound
	}

	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, fmt.Sprintf("checkout:user:%d", userID), 10*time.Second, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 5),
		})
		if err == nil {
			defer lock.Release(ctx)
		} else if !errors.Is(err, redislock.ErrNotObtained) {
			log.WithError(err).Warn("checkout lock unavailable, continuing without it")
		} else {
			return nil, ErrCheckoutInProgress
		}
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	now := s.now()
	if pending, err := s.repo.GetPendingTransactionByUser(userID, now.Add(-pendingReuseWindow)); err == nil && pending.CheckoutURL != "" {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"order_id": pending.OrderID,
		}).Info("reusing pending checkout session")
		return &InitiationResult{
			CheckoutURL: pending.CheckoutURL,
			OrderID:     pending.OrderID,
			Reference:   pending.Reference,
			Reused:      true,
		}, nil
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	amount := subscriptionAmount()
	session, err := s.gateway.CreateCheckout(ctx, CheckoutRequest{
		Amount:        amount,
		Currency:      subscriptionCurrency(),
		Description:   "PairMatch subscription (3 months)",
		CustomerName:  user.DisplayName(),
		CustomerPhone: phone.NormalizeOrKeep(user.Phone, env.GetEnv("PAYMENT_PHONE_REGION", "SN")),
	})
	if err != nil {
		return nil, err
	}

	tx := &models.PaymentTransaction{
		Reference: uuid.NewString(),
		UserID:    userID,
		Provider:  models.PaymentProviderFusionPay,
		OrderID:   session.OrderID,
		Amount:    amount,
		Currency:  subscriptionCurrency(),
		Status:    models.PaymentStatusPending,

		CheckoutURL: session.CheckoutURL,
	}
	if err := s.repo.CreateTransaction(tx); err != nil {
		// The gateway-side session already exists and cannot be rolled back
		// from here. The member keeps their checkout URL; the missing row is
		// an operator problem.
		log.WithFields(log.Fields{
			"user_id":  userID,
			"order_id": session.OrderID,
			"error":    err.Error(),
		}).Error("ledger write failed after gateway accepted checkout")
	}

	return &InitiationResult{
		CheckoutURL: session.CheckoutURL,
		OrderID:     session.OrderID,
		Reference:   tx.Reference,
	}, nil
}

// Outcome classifies what a webhook delivery did to local state.
type Outcome int

const (
	// OutcomeGranted means the ledger entry transitioned to paid and the
	// entitlement was extended.
	OutcomeGranted Outcome = iota
	// OutcomeDuplicate means the entry was already paid; nothing changed.
	OutcomeDuplicate
	// OutcomeUnmatched means no ledger entry exists for the order id.
	OutcomeUnmatched
	// OutcomeMarkedFailed means a non-success status closed a pending entry.
	OutcomeMarkedFailed
	// OutcomeIgnored means a non-success status arrived for an entry that
	// already reached a terminal state, or for no entry at all.
	OutcomeIgnored
)

// HandleWebhookEvent applies a verified, parsed gateway notification.
// Success deliveries are idempotent: the ledger transition is a conditional
// update, and only the delivery that performs it extends the entitlement, so
// duplicates never double-extend. The transition and the entitlement upsert
// commit in one DB transaction: when the upsert fails both roll back, the
// delivery is answered 5xx via ErrEntitlementWriteFailed, and the gateway's
// redelivery finds the entry still pending and repeats the whole grant.
func (s *Service) HandleWebhookEvent(ctx context.Context, ev *WebhookEvent) (Outcome, error) {
	_ = ctx

	if !ev.IsSuccess() {
		transitioned, err := s.repo.MarkTransactionFailed(ev.OrderID)
		if err != nil {
			return OutcomeIgnored, err
		}
		if transitioned {
			log.WithFields(log.Fields{"order_id": ev.OrderID, "status": ev.Status}).
				Info("payment marked failed from gateway notification")
			return OutcomeMarkedFailed, nil
		}
		return OutcomeIgnored, nil
	}

	now := s.now()
	var (
		outcome = OutcomeIgnored
		userID  uint
		endDate time.Time
	)
	err := s.repo.Transaction(func(repo Repository) error {
		transitioned, err := repo.MarkTransactionPaid(ev.OrderID, now)
		if err != nil {
			return err
		}
		if !transitioned {
			// Either a duplicate delivery or an order we never issued.
			if _, err := repo.GetTransactionByOrderID(ev.OrderID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					outcome = OutcomeUnmatched
					return ErrWebhookUnmatched
				}
				return err
			}
			outcome = OutcomeDuplicate
			return nil
		}

		tx, err := repo.GetTransactionByOrderID(ev.OrderID)
		if err != nil {
			return err
		}
		userID = tx.UserID

		endDate, err = s.extendEntitlement(repo, userID, now)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEntitlementWriteFailed, err)
		}
		outcome = OutcomeGranted
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWebhookUnmatched) {
			log.WithField("order_id", ev.OrderID).
				Warn("webhook order id matches no ledger entry, needs manual reconciliation")
		}
		return outcome, err
	}

	if outcome == OutcomeGranted {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"order_id": ev.OrderID,
			"end_date": endDate.Format(time.RFC3339),
		}).Info("subscription entitlement granted")
	}
	return outcome, nil
}

// extendEntitlement computes and writes the new subscription window:
// max(now, current end) + SubscriptionMonths calendar months. It runs inside
// the grant transaction, so repo must be the transactional repository.
func (s *Service) extendEntitlement(repo Repository, userID uint, now time.Time) (time.Time, error) {
	var current *time.Time
	if sub, err := repo.GetSubscriptionByUser(userID); err == nil {
		current = sub.EndDate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, err
	}

	endDate := NextEndDate(now, current)
	if err := repo.UpsertSubscriptionActive(userID, endDate); err != nil {
		return time.Time{}, err
	}
	return endDate, nil
}

// NextEndDate extends from whichever is later, now or the current end date.
// AddDate uses calendar months, so month-length irregularities shift the day
// forward (Jan 31 + 3 months lands on May 1), never backward.
func NextEndDate(now time.Time, current *time.Time) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.AddDate(0, SubscriptionMonths, 0)
}

func subscriptionAmount() decimal.Decimal {
	raw := env.GetEnv("PAYMENT_SUBSCRIPTION_AMOUNT", "5000")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warnf("invalid PAYMENT_SUBSCRIPTION_AMOUNT %q, using default", raw)
		return decimal.NewFromInt(5000)
	}
	return amount
}

func subscriptionCurrency() string {
	return env.GetEnv("PAYMENT_CURRENCY", "XOF")
}
