package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "novelhub-backend/internal/common/errors"
	"novelhub-backend/internal/features/payments/models"
	"novelhub-backend/internal/features/payments/repository"
	"novelhub-backend/internal/features/payments/signature"
)

const testSecret = "whsec_test"

type mockLedgerRepository struct {
	mock.Mock
}

func (m *mockLedgerRepository) CreditOnce(ctx context.Context, event *models.PurchaseEvent, reason string) error {
	args := m.Called(ctx, event, reason)
	return args.Error(0)
}

func (m *mockLedgerRepository) Spend(ctx context.Context, profileID string, coins int64, reason string) (int64, error) {
	args := m.Called(ctx, profileID, coins, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerRepository) ListEntries(ctx context.Context, profileID string, limit, offset int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, profileID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

type stubCache struct{}

func (stubCache) Delete(ctx context.Context, key string) error { return nil }

func signedBody(t *testing.T, event interface{}) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body, signature.Sign(body, testSecret)
}

func confirmedCharge(eventID, userID string, coins int64) map[string]interface{} {
	return map[string]interface{}{
		"id":   eventID,
		"type": models.EventTypeChargeConfirmed,
		"data": map[string]interface{}{
			"metadata": map[string]interface{}{
				"userId": userID,
				"coins":  coins,
			},
		},
	}
}

func TestProcessWebhookCreditsConfirmedCharge(t *testing.T) {
	repo := new(mockLedgerRepository)
	repo.On("CreditOnce", mock.Anything, &models.PurchaseEvent{
		EventID: "evt_1", UserID: "usr_1", Coins: 25,
	}, creditReason).Return(nil).Once()

	svc := NewPaymentService(repo, stubCache{}, testSecret)
	body, header := signedBody(t, confirmedCharge("evt_1", "usr_1", 25))

	ack, err := svc.ProcessWebhook(context.Background(), body, header)
	require.NoError(t, err)
	assert.True(t, ack.Success)
	repo.AssertExpectations(t)
}

func TestProcessWebhookRejectsInvalidSignature(t *testing.T) {
	repo := new(mockLedgerRepository)
	svc := NewPaymentService(repo, stubCache{}, testSecret)

	body, _ := signedBody(t, confirmedCharge("evt_1", "usr_1", 25))

	_, err := svc.ProcessWebhook(context.Background(), body, signature.Sign(body, "whsec_other"))
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidSignature, appErr.Code)

	_, err = svc.ProcessWebhook(context.Background(), body, "")
	require.Error(t, err)

	// No balance mutation on any rejected delivery.
	repo.AssertNotCalled(t, "CreditOnce", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessWebhookDuplicateEventAcksSuccess(t *testing.T) {
	repo := new(mockLedgerRepository)
	repo.On("CreditOnce", mock.Anything, mock.Anything, creditReason).
		Return(repository.ErrDuplicateEvent).Once()

	svc := NewPaymentService(repo, stubCache{}, testSecret)
	body, header := signedBody(t, confirmedCharge("evt_1", "usr_1", 25))

	ack, err := svc.ProcessWebhook(context.Background(), body, header)
	require.NoError(t, err)
	assert.True(t, ack.Success)
}

func TestProcessWebhookIgnoresOtherEventTypes(t *testing.T) {
	repo := new(mockLedgerRepository)
	svc := NewPaymentService(repo, stubCache{}, testSecret)

	body, header := signedBody(t, map[string]interface{}{
		"id":   "evt_2",
		"type": "charge:pending",
	})

	ack, err := svc.ProcessWebhook(context.Background(), body, header)
	require.NoError(t, err)
	assert.True(t, ack.Success)
	repo.AssertNotCalled(t, "CreditOnce", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessWebhookRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing event id", `{"type":"charge:confirmed","data":{"metadata":{"userId":"usr_1","coins":25}}}`},
		{"missing type", `{"id":"evt_1","data":{"metadata":{"userId":"usr_1","coins":25}}}`},
		{"missing user id", `{"id":"evt_1","type":"charge:confirmed","data":{"metadata":{"coins":25}}}`},
		{"zero coins", `{"id":"evt_1","type":"charge:confirmed","data":{"metadata":{"userId":"usr_1","coins":0}}}`},
		{"negative coins", `{"id":"evt_1","type":"charge:confirmed","data":{"metadata":{"userId":"usr_1","coins":-5}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockLedgerRepository)
			svc := NewPaymentService(repo, stubCache{}, testSecret)

			body := []byte(tt.body)
			_, err := svc.ProcessWebhook(context.Background(), body, signature.Sign(body, testSecret))
			require.Error(t, err)

			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeMalformedPayload, appErr.Code)
			repo.AssertNotCalled(t, "CreditOnce", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProcessWebhookUnknownProfile(t *testing.T) {
	repo := new(mockLedgerRepository)
	repo.On("CreditOnce", mock.Anything, mock.Anything, creditReason).
		Return(repository.ErrProfileNotFound).Once()

	svc := NewPaymentService(repo, stubCache{}, testSecret)
	body, header := signedBody(t, confirmedCharge("evt_1", "usr_ghost", 25))

	_, err := svc.ProcessWebhook(context.Background(), body, header)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeProfileNotFound, appErr.Code)
}

// fakeLedger reproduces the repository's exactly-once contract in memory so
// the redelivery property can be checked end to end.
type fakeLedger struct {
	balances  map[string]int64
	processed map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances:  make(map[string]int64),
		processed: make(map[string]bool),
	}
}

func (f *fakeLedger) CreditOnce(ctx context.Context, event *models.PurchaseEvent, reason string) error {
	if f.processed[event.EventID] {
		return repository.ErrDuplicateEvent
	}
	if _, ok := f.balances[event.UserID]; !ok {
		return repository.ErrProfileNotFound
	}
	f.processed[event.EventID] = true
	f.balances[event.UserID] += event.Coins
	return nil
}

func (f *fakeLedger) Spend(ctx context.Context, profileID string, coins int64, reason string) (int64, error) {
	balance, ok := f.balances[profileID]
	if !ok {
		return 0, repository.ErrProfileNotFound
	}
	if balance < coins {
		return 0, repository.ErrInsufficientCoins
	}
	f.balances[profileID] -= coins
	return f.balances[profileID], nil
}

func (f *fakeLedger) ListEntries(ctx context.Context, profileID string, limit, offset int) ([]*models.LedgerEntry, error) {
	return nil, nil
}

func TestProcessWebhookRedeliveryCreditsOnce(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["usr_1"] = 100

	svc := NewPaymentService(ledger, stubCache{}, testSecret)
	body, header := signedBody(t, confirmedCharge("evt_1", "usr_1", 25))

	for i := 0; i < 3; i++ {
		ack, err := svc.ProcessWebhook(context.Background(), body, header)
		require.NoError(t, err, "delivery %d", i+1)
		assert.True(t, ack.Success)
	}

	assert.Equal(t, int64(125), ledger.balances["usr_1"])
}

func TestSpendInsufficientCoins(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["usr_1"] = 10

	svc := NewPaymentService(ledger, stubCache{}, testSecret)

	_, err := svc.Spend(context.Background(), "usr_1", 25, "chapter unlock")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInsufficientCoins, appErr.Code)
	assert.Equal(t, int64(10), ledger.balances["usr_1"])
}

func TestSpendDebitsAndReturnsBalance(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["usr_1"] = 125

	svc := NewPaymentService(ledger, stubCache{}, testSecret)

	response, err := svc.Spend(context.Background(), "usr_1", 30, "chapter unlock")
	require.NoError(t, err)
	assert.Equal(t, int64(95), response.Coins)
	assert.Equal(t, int64(30), response.Spent)
}

func TestSpendRejectsInvalidAmounts(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["usr_1"] = 125

	svc := NewPaymentService(ledger, stubCache{}, testSecret)

	for _, coins := range []int64{0, -1} {
		_, err := svc.Spend(context.Background(), "usr_1", coins, "chapter unlock")
		require.Error(t, err, "coins=%d", coins)
	}
	assert.Equal(t, int64(125), ledger.balances["usr_1"])
}

func TestListLedgerClampsPaging(t *testing.T) {
	repo := new(mockLedgerRepository)
	repo.On("ListEntries", mock.Anything, "usr_1", defaultLedgerLimit, 0).
		Return([]*models.LedgerEntry(nil), nil).Once()
	repo.On("ListEntries", mock.Anything, "usr_1", maxLedgerLimit, 0).
		Return([]*models.LedgerEntry(nil), nil).Once()

	svc := NewPaymentService(repo, stubCache{}, testSecret)

	entries, err := svc.ListLedger(context.Background(), "usr_1", 0, -3)
	require.NoError(t, err)
	assert.NotNil(t, entries)

	_, err = svc.ListLedger(context.Background(), "usr_1", 1000, 0)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
