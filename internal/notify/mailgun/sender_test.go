package mailgun

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangonet/internal/submission/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func paidSubmission() models.Submission {
	return models.Submission{
		ID: uuid.New(),
		Fields: models.Fields{
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
		},
		Status:      models.StatusPaid,
		PaymentRef:  "PSK_ref_001",
		SubmittedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestSubmissionPaid(t *testing.T) {
	t.Run("posts the rendered notification to the messages endpoint", func(t *testing.T) {
		var (
			gotPath string
			gotUser string
			gotPass string
			gotForm map[string][]string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, gotPass, _ = r.BasicAuth()
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm
			_, _ = w.Write([]byte(`{"message":"Queued"}`))
		}))
		defer srv.Close()

		sender := New("key-123", "mg.mangonetonline.com", "support@mangonetonline.com", testLogger()).
			WithBaseURL(srv.URL)
		require.NoError(t, sender.SubmissionPaid(context.Background(), paidSubmission()))

		assert.Equal(t, "/mg.mangonetonline.com/messages", gotPath)
		assert.Equal(t, "api", gotUser)
		assert.Equal(t, "key-123", gotPass)
		assert.Equal(t, "support@mangonetonline.com", gotForm["to"][0])
		assert.Contains(t, gotForm["subject"][0], "Ada Okafor")
		assert.Contains(t, gotForm["subject"][0], "Home 50Mbps")

		html := gotForm["html"][0]
		assert.Contains(t, html, "ada@example.com")
		assert.Contains(t, html, "PSK_ref_001")
		assert.Contains(t, html, "Tuesday, September 1, 2026")
	})

	t.Run("escapes applicant controlled markup", func(t *testing.T) {
		var html string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			html = r.PostForm.Get("html")
		}))
		defer srv.Close()

		sub := paidSubmission()
		sub.Notes = `<script>alert("x")</script>`

		sender := New("key", "mg.example.com", "ops@example.com", testLogger()).WithBaseURL(srv.URL)
		require.NoError(t, sender.SubmissionPaid(context.Background(), sub))

		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, "&lt;script&gt;")
	})

	t.Run("unconfigured sender is a no-op", func(t *testing.T) {
		sender := New("", "", "ops@example.com", testLogger())
		assert.NoError(t, sender.SubmissionPaid(context.Background(), paidSubmission()))
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		sender := New("bad-key", "mg.example.com", "ops@example.com", testLogger()).WithBaseURL(srv.URL)
		assert.Error(t, sender.SubmissionPaid(context.Background(), paidSubmission()))
	})
}
