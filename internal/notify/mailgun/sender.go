// Package mailgun sends the staff notification email after a submission is
// paid. Delivery is best-effort: failures are logged by the caller, never
// surfaced to the customer-facing request.
package mailgun

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mangonet/internal/submission/models"
)

// Sender posts messages to the Mailgun HTTP API. With an empty API key or
// domain it becomes a logged no-op, matching the degraded mode of the rest of
// the system.
type Sender struct {
	apiKey  string
	domain  string
	to      string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(apiKey, domain, to string, logger *slog.Logger) *Sender {
	return &Sender{
		apiKey:  apiKey,
		domain:  domain,
		to:      to,
		baseURL: "https://api.mailgun.net/v3",
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// WithBaseURL points the sender at a different API endpoint. Tests use this
// with httptest servers.
func (s *Sender) WithBaseURL(baseURL string) *Sender {
	s.baseURL = baseURL
	return s
}

// SubmissionPaid emails a summary of the paid submission to the staff inbox.
func (s *Sender) SubmissionPaid(ctx context.Context, sub models.Submission) error {
	if s.apiKey == "" || s.domain == "" {
		s.logger.WarnContext(ctx, "mailgun not configured, skipping notification",
			"submission_id", sub.ID,
		)
		return nil
	}

	var html strings.Builder
	if err := emailTemplate.Execute(&html, templateData{
		Submission:  sub,
		InstallDate: sub.InstallationDate.Format("Monday, January 2, 2006"),
	}); err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	form := url.Values{}
	form.Set("from", fmt.Sprintf("MangoNet Signup <noreply@%s>", s.domain))
	form.Set("to", s.to)
	form.Set("subject", fmt.Sprintf("New Signup: %s — %s", sub.FullName(), sub.Plan))
	form.Set("html", html.String())

	endpoint := fmt.Sprintf("%s/%s/messages", s.baseURL, s.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build mailgun request: %w", err)
	}
	req.SetBasicAuth("api", s.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailgun responded %d", resp.StatusCode)
	}
	return nil
}

type templateData struct {
	models.Submission
	InstallDate string
}

// html/template escapes every interpolated field, so applicant-controlled
// strings cannot inject markup into the staff inbox.
var emailTemplate = template.Must(template.New("submission_paid").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #f97316; color: white; padding: 20px; border-radius: 8px 8px 0 0; text-align: center;">
    <h1 style="margin: 0; font-size: 24px;">New MangoNet Signup</h1>
  </div>
  <div style="border: 1px solid #e5e7eb; border-top: none; padding: 24px; border-radius: 0 0 8px 8px;">
    <h2 style="color: #1f2937; font-size: 18px; margin-top: 0;">Customer Details</h2>
    <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
      <tr><td style="padding: 8px 0; color: #6b7280; width: 140px;">Name</td><td style="padding: 8px 0; font-weight: bold;">{{.FirstName}} {{.LastName}}</td></tr>
      <tr><td style="padding: 8px 0; color: #6b7280;">Email</td><td style="padding: 8px 0;">{{.Email}}</td></tr>
      <tr><td style="padding: 8px 0; color: #6b7280;">Phone</td><td style="padding: 8px 0;">{{.Phone}}</td></tr>
    </table>

    <h2 style="color: #1f2937; font-size: 18px;">Service Location</h2>
    <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
      <tr><td style="padding: 8px 0; color: #6b7280; width: 140px;">Address</td><td style="padding: 8px 0;">{{.Address}}</td></tr>
      <tr><td style="padding: 8px 0; color: #6b7280;">City</td><td style="padding: 8px 0;">{{.City}}</td></tr>
      <tr><td style="padding: 8px 0; color: #6b7280;">State</td><td style="padding: 8px 0;">{{.State}}</td></tr>
      {{if .ZipCode}}<tr><td style="padding: 8px 0; color: #6b7280;">Zip Code</td><td style="padding: 8px 0;">{{.ZipCode}}</td></tr>{{end}}
    </table>

    <h2 style="color: #1f2937; font-size: 18px;">Plan &amp; WiFi</h2>
    <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
      <tr><td style="padding: 8px 0; color: #6b7280; width: 140px;">Plan</td><td style="padding: 8px 0; font-weight: bold;">{{.Plan}}</td></tr>
      <tr><td style="padding: 8px 0; color: #6b7280;">WiFi SSID</td><td style="padding: 8px 0; font-family: monospace;">{{.WifiSSID}}</td></tr>
      <tr><td style="padding: 8px 0; color: #6b7280;">WiFi Password</td><td style="padding: 8px 0; font-family: monospace;">{{.WifiPassword}}</td></tr>
    </table>

    <h2 style="color: #1f2937; font-size: 18px;">Installation</h2>
    <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
      <tr><td style="padding: 8px 0; color: #6b7280; width: 140px;">Preferred Date</td><td style="padding: 8px 0; font-weight: bold;">{{.InstallDate}}</td></tr>
      {{if .PaymentRef}}<tr><td style="padding: 8px 0; color: #6b7280;">Payment Ref</td><td style="padding: 8px 0; font-family: monospace;">{{.PaymentRef}}</td></tr>{{end}}
      {{if .Notes}}<tr><td style="padding: 8px 0; color: #6b7280;">Notes</td><td style="padding: 8px 0; font-style: italic;">{{.Notes}}</td></tr>{{end}}
    </table>

    <div style="background: #f0fdf4; border: 1px solid #bbf7d0; padding: 12px; border-radius: 6px; text-align: center;">
      <p style="margin: 0; color: #166534; font-weight: bold;">Payment confirmed</p>
    </div>
  </div>
  <p style="text-align: center; color: #9ca3af; font-size: 12px; margin-top: 16px;">MangoNet Online — Automated Notification</p>
</div>
`))
