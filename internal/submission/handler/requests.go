package handler

import (
	"strings"
	"time"

	"mangonet/internal/submission/models"
	dErrors "mangonet/pkg/domain-errors"
)

// CreateSubmissionRequest is the HTTP request body for POST /api/submissions.
// Field names match the public signup form payload.
type CreateSubmissionRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	NIN              string `json:"nin"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZipCode          string `json:"zipCode"`
	Plan             string `json:"plan"`
	WifiSSID         string `json:"wifiSsid"`
	WifiPassword     string `json:"wifiPassword"`
	InstallationDate string `json:"installationDate"`
	Notes            string `json:"notes"`
	PassportPhoto    string `json:"passportPhoto"`
	GovtID           string `json:"govtId"`
	ProofOfAddress   string `json:"proofOfAddress"`

	parsedFields models.Fields
}

// Validate parses and validates the request, collecting every offending
// field. Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateSubmissionRequest) Validate() error {
	// An unparseable date stays zero and is flagged as installationDate by
	// Fields.Validate.
	installDate := parseInstallationDate(r.InstallationDate)

	r.parsedFields = models.Fields{
		FirstName:        strings.TrimSpace(r.FirstName),
		LastName:         strings.TrimSpace(r.LastName),
		Email:            strings.TrimSpace(r.Email),
		Phone:            strings.TrimSpace(r.Phone),
		NIN:              strings.TrimSpace(r.NIN),
		Address:          strings.TrimSpace(r.Address),
		City:             strings.TrimSpace(r.City),
		State:            strings.TrimSpace(r.State),
		ZipCode:          strings.TrimSpace(r.ZipCode),
		Plan:             strings.TrimSpace(r.Plan),
		WifiSSID:         strings.TrimSpace(r.WifiSSID),
		WifiPassword:     r.WifiPassword,
		InstallationDate: installDate,
		Notes:            strings.TrimSpace(r.Notes),
		PassportPhoto:    r.PassportPhoto,
		GovtID:           r.GovtID,
		ProofOfAddress:   r.ProofOfAddress,
	}
	return r.parsedFields.Validate()
}

// ParsedFields returns the validated applicant fields.
func (r *CreateSubmissionRequest) ParsedFields() models.Fields {
	return r.parsedFields
}

func parseInstallationDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SetStatusRequest is the HTTP request body for PATCH /api/submissions/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks the status is present; enum membership is enforced by the
// service so the error taxonomy stays in one place.
func (r *SetStatusRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "status is required")
	}
	return nil
}

// RecordPaymentRequest is the HTTP request body for PATCH /api/submissions/{id}/payment.
type RecordPaymentRequest struct {
	PaymentRef string `json:"paymentRef"`
}

// Validate checks the payment reference is present.
func (r *RecordPaymentRequest) Validate() error {
	if strings.TrimSpace(r.PaymentRef) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "payment reference is required")
	}
	return nil
}
