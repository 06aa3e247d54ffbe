package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "mangonet/pkg/domain-errors"
)

func validFields() Fields {
	return Fields{
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

func TestFieldsValidate(t *testing.T) {
	t.Run("accepts a complete application", func(t *testing.T) {
		f := validFields()
		assert.NoError(t, f.Validate())
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		f := validFields()
		f.ZipCode = ""
		f.Notes = ""
		f.PassportPhoto = ""
		f.GovtID = ""
		f.ProofOfAddress = ""
		assert.NoError(t, f.Validate())
	})

	t.Run("rejects a ten digit nin", func(t *testing.T) {
		f := validFields()
		f.NIN = "1234567890"

		err := f.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "nin")
	})

	t.Run("rejects a non numeric nin", func(t *testing.T) {
		f := validFields()
		f.NIN = "1234567890a"
		require.Error(t, f.Validate())
	})

	t.Run("enumerates every offending field in one error", func(t *testing.T) {
		f := validFields()
		f.FirstName = "A"
		f.Email = "not-an-email"
		f.WifiPassword = "short"
		f.InstallationDate = time.Time{}

		err := f.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		for _, field := range []string{"firstName", "email", "wifiPassword", "installationDate"} {
			assert.Contains(t, err.Error(), field)
		}
		// Valid fields are not reported.
		assert.NotContains(t, err.Error(), "lastName")
	})
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "paid", "approved", "rejected"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("shipped")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
}

func TestNewSubmission(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	id := uuid.New()

	sub, err := NewSubmission(id, validFields(), now)
	require.NoError(t, err)

	assert.Equal(t, id, sub.ID)
	assert.Equal(t, StatusPending, sub.Status)
	assert.Empty(t, sub.PaymentRef)
	assert.Equal(t, now, sub.SubmittedAt)
}

func TestNewSubmissionRejectsInvalidFields(t *testing.T) {
	f := validFields()
	f.Plan = ""

	_, err := NewSubmission(uuid.New(), f, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestApplyPayment(t *testing.T) {
	sub, err := NewSubmission(uuid.New(), validFields(), time.Now())
	require.NoError(t, err)

	sub.ApplyPayment("PSK_ref_001")
	assert.Equal(t, StatusPaid, sub.Status)
	assert.Equal(t, "PSK_ref_001", sub.PaymentRef)

	// Repeat payment overwrites the reference.
	sub.ApplyPayment("PSK_ref_002")
	assert.Equal(t, "PSK_ref_002", sub.PaymentRef)
}

func TestApplyStatusKeepsPaymentRef(t *testing.T) {
	sub, err := NewSubmission(uuid.New(), validFields(), time.Now())
	require.NoError(t, err)
	sub.ApplyPayment("PSK_ref_001")

	sub.ApplyStatus(StatusApproved)
	assert.Equal(t, StatusApproved, sub.Status)
	assert.Equal(t, "PSK_ref_001", sub.PaymentRef)

	// Staff transitions are unrestricted: approved may go back to pending.
	sub.ApplyStatus(StatusPending)
	assert.Equal(t, StatusPending, sub.Status)
	assert.Equal(t, "PSK_ref_001", sub.PaymentRef)
}

func TestFullName(t *testing.T) {
	sub, err := NewSubmission(uuid.New(), validFields(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Ada Okafor", sub.FullName())
}
