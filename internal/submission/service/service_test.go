package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangonet/internal/payment/paystack"
	"mangonet/internal/submission/models"
	"mangonet/internal/submission/store"
	dErrors "mangonet/pkg/domain-errors"
	"mangonet/pkg/requestcontext"
)

type fakeVerifier struct {
	result paystack.VerifyResult
	err    error

	calls      int
	lastSecret string
	lastRef    string
}

func (f *fakeVerifier) Verify(_ context.Context, secret, reference string) (paystack.VerifyResult, error) {
	f.calls++
	f.lastSecret = secret
	f.lastRef = reference
	return f.result, f.err
}

type fakeSecrets struct {
	secret string
}

func (f *fakeSecrets) GatewaySecret(context.Context) (string, error) {
	return f.secret, nil
}

type fakeNotifier struct {
	sent chan models.Submission
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan models.Submission, 4)}
}

func (f *fakeNotifier) SubmissionPaid(_ context.Context, sub models.Submission) error {
	f.sent <- sub
	return f.err
}

func (f *fakeNotifier) waitForNotification(t *testing.T) models.Submission {
	t.Helper()
	select {
	case sub := <-f.sent:
		return sub
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification to be dispatched")
		return models.Submission{}
	}
}

func (f *fakeNotifier) assertNoNotification(t *testing.T) {
	t.Helper()
	select {
	case <-f.sent:
		t.Fatal("unexpected notification dispatched")
	case <-time.After(50 * time.Millisecond):
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func validFields() models.Fields {
	return models.Fields{
		FirstName:        "Ada",
		LastName:         "Okafor",
		Email:            "ada@example.com",
		Phone:            "08012345678",
		NIN:              "12345678901",
		Address:          "12 Palm Street",
		City:             "Lagos",
		State:            "Lagos",
		Plan:             "Home 50Mbps",
		WifiSSID:         "AdaHome",
		WifiPassword:     "supersecret",
		InstallationDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

type serviceFixture struct {
	svc      *Service
	store    *store.InMemory
	verifier *fakeVerifier
	secrets  *fakeSecrets
	notifier *fakeNotifier
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		store:    store.NewInMemory(),
		verifier: &fakeVerifier{result: paystack.VerifyResult{Success: true, Status: "success"}},
		secrets:  &fakeSecrets{secret: "sk_test_secret"},
		notifier: newFakeNotifier(),
	}
	f.svc = New(f.store, f.verifier, f.secrets, testLogger(), WithNotifier(f.notifier))
	return f
}

func (f *serviceFixture) createSubmission(t *testing.T) *models.Submission {
	t.Helper()
	sub, err := f.svc.Create(context.Background(), validFields())
	require.NoError(t, err)
	return sub
}

func TestCreate(t *testing.T) {
	t.Run("new submissions start pending with no payment ref", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		assert.NotEqual(t, uuid.Nil, sub.ID)
		assert.Equal(t, models.StatusPending, sub.Status)
		assert.Empty(t, sub.PaymentRef)
	})

	t.Run("uses the request-scoped time", func(t *testing.T) {
		f := newFixture()
		at := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), at)

		sub, err := f.svc.Create(ctx, validFields())
		require.NoError(t, err)
		assert.Equal(t, at, sub.SubmittedAt)
	})

	t.Run("assigns a fresh id per submission", func(t *testing.T) {
		f := newFixture()
		first := f.createSubmission(t)
		second := f.createSubmission(t)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("rejects invalid fields and persists nothing", func(t *testing.T) {
		f := newFixture()
		fields := validFields()
		fields.NIN = "1234567890" // ten digits

		_, err := f.svc.Create(context.Background(), fields)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		listed, err := f.svc.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("verified payment transitions to paid with the exact reference", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		updated, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_ref_001")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, updated.Status)
		assert.Equal(t, "PSK_ref_001", updated.PaymentRef)

		assert.Equal(t, 1, f.verifier.calls)
		assert.Equal(t, "sk_test_secret", f.verifier.lastSecret)
		assert.Equal(t, "PSK_ref_001", f.verifier.lastRef)
	})

	t.Run("dispatches exactly one notification per confirmed payment", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_ref_001")
		require.NoError(t, err)

		notified := f.notifier.waitForNotification(t)
		assert.Equal(t, sub.ID, notified.ID)
		assert.Equal(t, "PSK_ref_001", notified.PaymentRef)
		f.notifier.assertNoNotification(t)
	})

	t.Run("succeeds from any prior state", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)
		_, err := f.svc.SetStatus(context.Background(), sub.ID, "approved")
		require.NoError(t, err)

		updated, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_ref_002")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, updated.Status)
		assert.Equal(t, "PSK_ref_002", updated.PaymentRef)
	})

	t.Run("rejects an empty reference before touching the gateway", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		assert.Zero(t, f.verifier.calls)
	})

	t.Run("gateway acknowledgement false leaves the submission unchanged", func(t *testing.T) {
		f := newFixture()
		f.verifier.result = paystack.VerifyResult{Success: false}
		sub := f.createSubmission(t)

		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_bad")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePaymentFailed))

		found, err := f.svc.Get(context.Background(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, found.Status)
		assert.Empty(t, found.PaymentRef)
		f.notifier.assertNoNotification(t)
	})

	t.Run("acknowledged but non-success transaction status is rejected", func(t *testing.T) {
		f := newFixture()
		f.verifier.result = paystack.VerifyResult{Success: true, Status: "failed"}
		sub := f.createSubmission(t)

		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_bad")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePaymentFailed))

		found, err := f.svc.Get(context.Background(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, found.Status)
	})

	t.Run("gateway transport error is surfaced as payment failure", func(t *testing.T) {
		f := newFixture()
		f.verifier.err = errors.New("connection refused")
		sub := f.createSubmission(t)

		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_ref")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePaymentFailed))
	})

	t.Run("empty gateway secret skips verification", func(t *testing.T) {
		f := newFixture()
		f.secrets.secret = ""
		sub := f.createSubmission(t)

		updated, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_unverified")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, updated.Status)
		assert.Zero(t, f.verifier.calls)
	})

	t.Run("unknown submission yields not found, nothing mutated", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.RecordPayment(context.Background(), uuid.New(), "PSK_ref")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		f.notifier.assertNoNotification(t)
	})

	t.Run("repeat payment re-verifies and overwrites the reference", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_first")
		require.NoError(t, err)
		updated, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_second")
		require.NoError(t, err)

		assert.Equal(t, "PSK_second", updated.PaymentRef)
		assert.Equal(t, 2, f.verifier.calls)
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("staff can move between any states", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		for _, status := range []string{"approved", "rejected", "pending", "paid"} {
			updated, err := f.svc.SetStatus(context.Background(), sub.ID, status)
			require.NoError(t, err)
			assert.Equal(t, models.Status(status), updated.Status)
		}
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)

		_, err := f.svc.SetStatus(context.Background(), sub.ID, "shipped")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
	})

	t.Run("unknown submission yields not found", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.SetStatus(context.Background(), uuid.New(), "approved")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("status change never touches the payment reference", func(t *testing.T) {
		f := newFixture()
		sub := f.createSubmission(t)
		_, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_ref_001")
		require.NoError(t, err)

		updated, err := f.svc.SetStatus(context.Background(), sub.ID, "rejected")
		require.NoError(t, err)
		assert.Equal(t, "PSK_ref_001", updated.PaymentRef)
	})
}

func TestListAndGet(t *testing.T) {
	f := newFixture()
	first := f.createSubmission(t)
	second := f.createSubmission(t)

	listed, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	found, err := f.svc.Get(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	_, err = f.svc.Get(context.Background(), uuid.New())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestNotifierFailureDoesNotAffectPayment(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")
	sub := f.createSubmission(t)

	updated, err := f.svc.RecordPayment(context.Background(), sub.ID, "PSK_ref_001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	f.notifier.waitForNotification(t)
}

func TestPaymentWithoutNotifierConfigured(t *testing.T) {
	verifier := &fakeVerifier{result: paystack.VerifyResult{Success: true, Status: "success"}}
	svc := New(store.NewInMemory(), verifier, &fakeSecrets{secret: "sk"}, testLogger())

	sub, err := svc.Create(context.Background(), validFields())
	require.NoError(t, err)

	updated, err := svc.RecordPayment(context.Background(), sub.ID, "PSK_ref")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
}
