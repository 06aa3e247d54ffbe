package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "mangonet/pkg/domain-errors"
)

// Status is the lifecycle state of a submission.
//
// pending → paid is gateway-gated (RecordPayment). Staff transitions via
// SetStatus are deliberately unrestricted: approvals may happen without an
// online payment (manual or offline payment), so any state can reach any
// other. approved and rejected are terminal in normal operation only by
// convention, not enforcement.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a raw status string against the enum.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusPaid, StatusApproved, StatusRejected:
		return Status(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidStatus, "invalid status %q", raw)
}

var ninPattern = regexp.MustCompile(`^[0-9]{11}$`)

// Fields carries the applicant-supplied portion of a submission. All fields
// are immutable after creation.
type Fields struct {
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	NIN              string    `json:"nin"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	ZipCode          string    `json:"zipCode,omitempty"`
	Plan             string    `json:"plan"`
	WifiSSID         string    `json:"wifiSsid"`
	WifiPassword     string    `json:"wifiPassword"`
	InstallationDate time.Time `json:"installationDate"`
	Notes            string    `json:"notes,omitempty"`
	PassportPhoto    string    `json:"passportPhoto,omitempty"`
	GovtID           string    `json:"govtId,omitempty"`
	ProofOfAddress   string    `json:"proofOfAddress,omitempty"`
}

// Validate checks every field and reports all offending fields in one error,
// so the signup form can surface the complete list at once.
func (f *Fields) Validate() error {
	var bad []string

	if len(strings.TrimSpace(f.FirstName)) < 2 {
		bad = append(bad, "firstName")
	}
	if len(strings.TrimSpace(f.LastName)) < 2 {
		bad = append(bad, "lastName")
	}
	if !strings.Contains(f.Email, "@") || strings.TrimSpace(f.Email) == "" {
		bad = append(bad, "email")
	}
	if len(strings.TrimSpace(f.Phone)) < 10 {
		bad = append(bad, "phone")
	}
	if !ninPattern.MatchString(f.NIN) {
		bad = append(bad, "nin")
	}
	if len(strings.TrimSpace(f.Address)) < 5 {
		bad = append(bad, "address")
	}
	if len(strings.TrimSpace(f.City)) < 2 {
		bad = append(bad, "city")
	}
	if len(strings.TrimSpace(f.State)) < 2 {
		bad = append(bad, "state")
	}
	if strings.TrimSpace(f.Plan) == "" {
		bad = append(bad, "plan")
	}
	if len(strings.TrimSpace(f.WifiSSID)) < 2 {
		bad = append(bad, "wifiSsid")
	}
	if len(f.WifiPassword) < 8 {
		bad = append(bad, "wifiPassword")
	}
	if f.InstallationDate.IsZero() {
		bad = append(bad, "installationDate")
	}

	if len(bad) > 0 {
		return dErrors.Newf(dErrors.CodeValidation,
			"invalid submission fields: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Submission is the central entity: one signup application moving through the
// pending → paid → approved/rejected lifecycle.
//
// Invariants:
//   - PaymentRef is non-empty iff Status has ever reached paid; it is never
//     cleared once set.
//   - NIN is exactly 11 numeric characters, validated at ingress only.
//   - SubmittedAt is server-assigned and immutable.
type Submission struct {
	ID uuid.UUID `json:"id"`
	Fields
	Status      Status    `json:"status"`
	PaymentRef  string    `json:"paymentRef"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewSubmission constructs a pending submission from validated fields.
func NewSubmission(id uuid.UUID, fields Fields, now time.Time) (*Submission, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return &Submission{
		ID:          id,
		Fields:      fields,
		Status:      StatusPending,
		SubmittedAt: now,
	}, nil
}

// ApplyPayment transitions the submission to paid with the verified reference.
// Call inside the store's Execute so the write is atomic per record. Repeat
// calls overwrite the reference; the service re-verifies each time.
func (s *Submission) ApplyPayment(paymentRef string) {
	s.Status = StatusPaid
	s.PaymentRef = paymentRef
}

// ApplyStatus applies a staff-driven status change. Any source state may
// reach any target state; the caller is a trusted operator.
func (s *Submission) ApplyStatus(status Status) {
	s.Status = status
}

// FullName is used in notifications and logs.
func (s *Submission) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}
