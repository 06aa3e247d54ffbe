package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"mangonet/internal/submission/models"
	"mangonet/pkg/platform/sentinel"
)

// Postgres persists submissions in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const submissionColumns = `id, first_name, last_name, email, phone, nin,
	address, city, state, zip_code, plan, wifi_ssid, wifi_password,
	installation_date, notes, passport_photo, govt_id, proof_of_address,
	status, payment_ref, submitted_at`

func (s *Postgres) Create(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21)
	`
	_, err := s.db.ExecContext(ctx, query,
		sub.ID, sub.FirstName, sub.LastName, sub.Email, sub.Phone, sub.NIN,
		sub.Address, sub.City, sub.State, sub.ZipCode, sub.Plan, sub.WifiSSID,
		sub.WifiPassword, sub.InstallationDate, sub.Notes, sub.PassportPhoto,
		sub.GovtID, sub.ProofOfAddress, string(sub.Status), sub.PaymentRef,
		sub.SubmittedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY submitted_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Execute loads the row FOR UPDATE inside a transaction, runs validate and
// mutate, and writes the mutable columns back. The row lock makes each
// transition a single conditional update.
func (s *Postgres) Execute(
	ctx context.Context,
	id uuid.UUID,
	validate func(*models.Submission) error,
	mutate func(*models.Submission),
) (*models.Submission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 FOR UPDATE`
	sub, err := scanSubmission(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock submission: %w", err)
	}

	if validate != nil {
		if err := validate(sub); err != nil {
			return nil, err
		}
	}
	mutate(sub)

	_, err = tx.ExecContext(ctx,
		`UPDATE submissions SET status = $2, payment_ref = $3 WHERE id = $1`,
		sub.ID, string(sub.Status), sub.PaymentRef,
	)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return sub, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var sub models.Submission
	var status string
	err := row.Scan(
		&sub.ID, &sub.FirstName, &sub.LastName, &sub.Email, &sub.Phone,
		&sub.NIN, &sub.Address, &sub.City, &sub.State, &sub.ZipCode,
		&sub.Plan, &sub.WifiSSID, &sub.WifiPassword, &sub.InstallationDate,
		&sub.Notes, &sub.PassportPhoto, &sub.GovtID, &sub.ProofOfAddress,
		&status, &sub.PaymentRef, &sub.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Status = models.Status(status)
	return &sub, nil
}
