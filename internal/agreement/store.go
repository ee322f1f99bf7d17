package agreement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists accepted agreements. Exactly one row per successful call; no
// upsert, no retry, no deduplication by business id or email (the same
// licensee may legitimately submit more than once).
type Store interface {
	Insert(ctx context.Context, rec SubmissionRecord) (StoredRecord, error)
}

// StorageError wraps a failed insert. The pipeline treats it as fatal: no
// document is generated and no email is sent.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing agreement acceptance: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PostgresStore writes acceptances to the agreement_acceptances table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store backed by the given database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert writes one acceptance row and returns the stored record with its
// server-assigned id.
func (s *PostgresStore) Insert(ctx context.Context, rec SubmissionRecord) (StoredRecord, error) {
	id := uuid.New().String()

	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO agreement_acceptances
			(id, company_name, business_id, representative_name, email, brands, invoicing_details, accepted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`, id, rec.CompanyName, rec.BusinessID, rec.RepresentativeName, rec.Email,
		rec.Brands, rec.InvoicingDetails, rec.AcceptedAt).Scan(&createdAt)
	if err != nil {
		return StoredRecord{}, &StorageError{Err: err}
	}

	return StoredRecord{
		SubmissionRecord: rec,
		ID:               id,
		CreatedAt:        createdAt,
	}, nil
}
