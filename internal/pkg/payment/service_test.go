package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
)

type fakeRepo struct {
	users         map[uint]*models.User
	transactions  map[string]*models.PaymentTransaction
	subscriptions map[uint]*models.Subscription

	createTransactionErr error
	upsertErr            error
	upsertCalls          int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         map[uint]*models.User{},
		transactions:  map[string]*models.PaymentTransaction{},
		subscriptions: map[uint]*models.Subscription{},
	}
}

// Transaction snapshots the maps and restores them when fn fails, mirroring
// the rollback the real repository gets from the database.
func (r *fakeRepo) Transaction(fn func(Repository) error) error {
	txSnap := make(map[string]models.PaymentTransaction, len(r.transactions))
	for k, v := range r.transactions {
		txSnap[k] = *v
	}
	subSnap := make(map[uint]models.Subscription, len(r.subscriptions))
	for k, v := range r.subscriptions {
		subSnap[k] = *v
	}

	if err := fn(r); err != nil {
		r.transactions = make(map[string]*models.PaymentTransaction, len(txSnap))
		for k, v := range txSnap {
			tx := v
			r.transactions[k] = &tx
		}
		r.subscriptions = make(map[uint]*models.Subscription, len(subSnap))
		for k, v := range subSnap {
			sub := v
			r.subscriptions[k] = &sub
		}
		return err
	}
	return nil
}

func (r *fakeRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetPendingTransactionByUser(userID uint, notOlderThan time.Time) (*models.PaymentTransaction, error) {
	for _, tx := range r.transactions {
		if tx.UserID == userID && tx.Status == models.PaymentStatusPending && !tx.CreatedAt.Before(notOlderThan) {
			return tx, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreateTransaction(tx *models.PaymentTransaction) error {
	if r.createTransactionErr != nil {
		return r.createTransactionErr
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.transactions[tx.OrderID] = tx
	return nil
}

func (r *fakeRepo) GetTransactionByOrderID(orderID string) (*models.PaymentTransaction, error) {
	tx, ok := r.transactions[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tx, nil
}

func (r *fakeRepo) MarkTransactionPaid(orderID string, paidAt time.Time) (bool, error) {
	tx, ok := r.transactions[orderID]
	if !ok || tx.Status == models.PaymentStatusPaid {
		return false, nil
	}
	tx.Status = models.PaymentStatusPaid
	tx.PaidAt = &paidAt
	return true, nil
}

func (r *fakeRepo) MarkTransactionFailed(orderID string) (bool, error) {
	tx, ok := r.transactions[orderID]
	if !ok || tx.Status != models.PaymentStatusPending {
		return false, nil
	}
	tx.Status = models.PaymentStatusFailed
	return true, nil
}

func (r *fakeRepo) GetSubscriptionByUser(userID uint) (*models.Subscription, error) {
	sub, ok := r.subscriptions[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

func (r *fakeRepo) UpsertSubscriptionActive(userID uint, endDate time.Time) error {
	r.upsertCalls++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	end := endDate
	r.subscriptions[userID] = &models.Subscription{
		UserID:  userID,
		Status:  models.SubscriptionStatusActive,
		EndDate: &end,
	}
	return nil
}

func (r *fakeRepo) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	event.ID = 1
	return true, event, nil
}

func (r *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error {
	return nil
}

type fakeLocker struct {
	err error
}

func (l *fakeLocker) Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error) {
	return nil, l.err
}

type fakeGateway struct {
	session *CheckoutSession
	err     error
	calls   int
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, in CheckoutRequest) (*CheckoutSession, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func testService(repo *fakeRepo, gw *fakeGateway, now time.Time) *Service {
	svc := NewService(repo, gw, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func seedUser(repo *fakeRepo, id uint) *models.User {
	u := &models.User{
		ID:        id,
		FirstName: "Awa",
		LastName:  "Diop",
		Email:     "awa@example.com",
		Gender:    models.GENDER_FEMALE,
		Status:    models.STATUS_ACTIVE,
	}
	repo.users[id] = u
	return u
}

func TestInitiateCheckoutCreatesPendingLedgerEntry(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	gw := &fakeGateway{session: &CheckoutSession{OrderID: "ord-1", CheckoutURL: "https://pay.example/ord-1"}}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	result, err := testService(repo, gw, now).InitiateCheckout(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example/ord-1", result.CheckoutURL)
	assert.False(t, result.Reused)
	assert.NotEmpty(t, result.Reference)

	tx, err := repo.GetTransactionByOrderID("ord-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, tx.Status)
	assert.Equal(t, models.PaymentProviderFusionPay, tx.Provider)
	assert.Equal(t, uint(7), tx.UserID)
}

func TestInitiateCheckoutUnknownMember(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}

	_, err := testService(repo, gw, time.Now()).InitiateCheckout(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Zero(t, gw.calls)
}

func TestInitiateCheckoutReusesPendingSession(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo.transactions["ord-old"] = &models.PaymentTransaction{
		UserID:      7,
		OrderID:     "ord-old",
		Status:      models.PaymentStatusPending,
		CheckoutURL: "https://pay.example/ord-old",
		Reference:   "ref-old",
		CreatedAt:   now.Add(-2 * time.Hour),
	}
	gw := &fakeGateway{session: &CheckoutSession{OrderID: "ord-new", CheckoutURL: "https://pay.example/ord-new"}}

	result, err := testService(repo, gw, now).InitiateCheckout(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, result.Reused)
	assert.Equal(t, "ord-old", result.OrderID)
	assert.Zero(t, gw.calls, "an unexpired pending checkout must not open a second gateway session")
}

func TestInitiateCheckoutIgnoresExpiredPendingSession(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo.transactions["ord-stale"] = &models.PaymentTransaction{
		UserID:      7,
		OrderID:     "ord-stale",
		Status:      models.PaymentStatusPending,
		CheckoutURL: "https://pay.example/ord-stale",
		CreatedAt:   now.Add(-25 * time.Hour),
	}
	gw := &fakeGateway{session: &CheckoutSession{OrderID: "ord-new", CheckoutURL: "https://pay.example/ord-new"}}

	result, err := testService(repo, gw, now).InitiateCheckout(context.Background(), 7)
	require.NoError(t, err)

	assert.False(t, result.Reused)
	assert.Equal(t, "ord-new", result.OrderID)
	assert.Equal(t, 1, gw.calls)
}

func TestInitiateCheckoutGatewayDown(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	gw := &fakeGateway{err: ErrGatewayUnavailable}

	_, err := testService(repo, gw, time.Now()).InitiateCheckout(context.Background(), 7)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Empty(t, repo.transactions, "no ledger entry without a gateway session")
}

func TestInitiateCheckoutLedgerWriteFailureStillReturnsURL(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	repo.createTransactionErr = errors.New("db gone")
	gw := &fakeGateway{session: &CheckoutSession{OrderID: "ord-1", CheckoutURL: "https://pay.example/ord-1"}}

	result, err := testService(repo, gw, time.Now()).InitiateCheckout(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/ord-1", result.CheckoutURL)
}

func TestInitiateCheckoutHeldLockReturnsConflict(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	gw := &fakeGateway{session: &CheckoutSession{OrderID: "ord-1", CheckoutURL: "https://pay.example/ord-1"}}
	svc := testService(repo, gw, time.Now())
	svc.locker = &fakeLocker{err: redislock.ErrNotObtained}

	_, err := svc.InitiateCheckout(context.Background(), 7)
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Zero(t, gw.calls, "a second click must not open a gateway session")
}

func TestInitiateCheckoutLockerOutageDegradesToUnlocked(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	gw := &fakeGateway{session: &CheckoutSession{OrderID: "ord-1", CheckoutURL: "https://pay.example/ord-1"}}
	svc := testService(repo, gw, time.Now())
	svc.locker = &fakeLocker{err: errors.New("redis down")}

	result, err := svc.InitiateCheckout(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/ord-1", result.CheckoutURL)
	assert.Equal(t, 1, gw.calls)
}

func seedPending(repo *fakeRepo, userID uint, orderID string, createdAt time.Time) {
	repo.transactions[orderID] = &models.PaymentTransaction{
		UserID:    userID,
		OrderID:   orderID,
		Status:    models.PaymentStatusPending,
		CreatedAt: createdAt,
	}
}

func TestWebhookSuccessGrantsEntitlement(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	seedPending(repo, 7, "ord-1", now.Add(-time.Hour))
	svc := testService(repo, &fakeGateway{}, now)

	outcome, err := svc.HandleWebhookEvent(context.Background(), &WebhookEvent{OrderID: "ord-1", Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeGranted, outcome)

	assert.Equal(t, models.PaymentStatusPaid, repo.transactions["ord-1"].Status)
	sub := repo.subscriptions[7]
	require.NotNil(t, sub)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, now.AddDate(0, 3, 0), *sub.EndDate)
}

func TestWebhookDuplicateDeliveryDoesNotDoubleExtend(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	seedPending(repo, 7, "ord-1", now.Add(-time.Hour))
	svc := testService(repo, &fakeGateway{}, now)

	ev := &WebhookEvent{OrderID: "ord-1", Status: "paid"}
	outcome, err := svc.HandleWebhookEvent(context.Background(), ev)
	require.NoError(t, err)
	require.Equal(t, OutcomeGranted, outcome)
	firstEnd := *repo.subscriptions[7].EndDate

	outcome, err = svc.HandleWebhookEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Equal(t, 1, repo.upsertCalls)
	assert.Equal(t, firstEnd, *repo.subscriptions[7].EndDate)
}

func TestWebhookUnmatchedOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, &fakeGateway{}, time.Now())

	outcome, err := svc.HandleWebhookEvent(context.Background(), &WebhookEvent{OrderID: "ghost", Status: "paid"})
	assert.Equal(t, OutcomeUnmatched, outcome)
	assert.ErrorIs(t, err, ErrWebhookUnmatched)
}

func TestWebhookFailureStatusClosesPendingEntry(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Now()
	seedPending(repo, 7, "ord-1", now.Add(-time.Hour))
	svc := testService(repo, &fakeGateway{}, now)

	outcome, err := svc.HandleWebhookEvent(context.Background(), &WebhookEvent{OrderID: "ord-1", Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeMarkedFailed, outcome)
	assert.Equal(t, models.PaymentStatusFailed, repo.transactions["ord-1"].Status)
	assert.Empty(t, repo.subscriptions)
}

func TestWebhookFailureAfterPaidIsIgnored(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Now()
	seedPending(repo, 7, "ord-1", now.Add(-time.Hour))
	repo.transactions["ord-1"].Status = models.PaymentStatusPaid
	svc := testService(repo, &fakeGateway{}, now)

	outcome, err := svc.HandleWebhookEvent(context.Background(), &WebhookEvent{OrderID: "ord-1", Status: "failed"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, models.PaymentStatusPaid, repo.transactions["ord-1"].Status)
}

func TestWebhookEntitlementWriteFailureRollsBackLedger(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Now()
	seedPending(repo, 7, "ord-1", now.Add(-time.Hour))
	repo.upsertErr = errors.New("db gone")
	svc := testService(repo, &fakeGateway{}, now)

	outcome, err := svc.HandleWebhookEvent(context.Background(), &WebhookEvent{OrderID: "ord-1", Status: "paid"})
	assert.ErrorIs(t, err, ErrEntitlementWriteFailed)
	assert.Equal(t, OutcomeIgnored, outcome)
	// The ledger transition rolls back with the failed upsert so the next
	// delivery finds the entry pending and can grant.
	assert.Equal(t, models.PaymentStatusPending, repo.transactions["ord-1"].Status)
	assert.Empty(t, repo.subscriptions)
}

func TestWebhookRedeliveryAfterEntitlementWriteFailureGrants(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	seedPending(repo, 7, "ord-1", now.Add(-time.Hour))
	svc := testService(repo, &fakeGateway{}, now)
	ev := &WebhookEvent{OrderID: "ord-1", Status: "paid"}

	repo.upsertErr = errors.New("db gone")
	_, err := svc.HandleWebhookEvent(context.Background(), ev)
	require.ErrorIs(t, err, ErrEntitlementWriteFailed)

	repo.upsertErr = nil
	outcome, err := svc.HandleWebhookEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGranted, outcome,
		"the redelivery after a transient entitlement failure must complete the grant")

	assert.Equal(t, models.PaymentStatusPaid, repo.transactions["ord-1"].Status)
	sub := repo.subscriptions[7]
	require.NotNil(t, sub)
	assert.Equal(t, now.AddDate(0, 3, 0), *sub.EndDate)
}

func TestWebhookRenewalExtendsFromCurrentEndDate(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, 7)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remaining := now.AddDate(0, 1, 0)
	repo.subscriptions[7] = &models.Subscription{
		UserID:  7,
		Status:  models.SubscriptionStatusActive,
		EndDate: &remaining,
	}
	seedPending(repo, 7, "ord-2", now.Add(-time.Hour))
	svc := testService(repo, &fakeGateway{}, now)

	outcome, err := svc.HandleWebhookEvent(context.Background(), &WebhookEvent{OrderID: "ord-2", Status: "paid"})
	require.NoError(t, err)
	require.Equal(t, OutcomeGranted, outcome)

	assert.Equal(t, remaining.AddDate(0, 3, 0), *repo.subscriptions[7].EndDate,
		"remaining time must be preserved on renewal")
}

func TestNextEndDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no current subscription", func(t *testing.T) {
		assert.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), NextEndDate(now, nil))
	})

	t.Run("lapsed subscription extends from now", func(t *testing.T) {
		past := now.AddDate(0, -2, 0)
		assert.Equal(t, now.AddDate(0, 3, 0), NextEndDate(now, &past))
	})

	t.Run("active subscription extends from its end", func(t *testing.T) {
		future := now.AddDate(0, 1, 5)
		assert.Equal(t, future.AddDate(0, 3, 0), NextEndDate(now, &future))
	})

	t.Run("month-end shifts forward", func(t *testing.T) {
		jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), NextEndDate(jan31, nil))
	})
}
