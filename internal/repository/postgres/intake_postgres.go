package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"healthe/internal/model"
	"healthe/internal/repository"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique-constraint errors.
const uniqueViolation = "23505"

// IntakePostgres is a PostgreSQL implementation of repository.IntakeRepository.
// It uses database/sql with parameterized queries; the payload document is
// marshalled to JSON on write and validated by unmarshalling on read.
type IntakePostgres struct {
	db *sql.DB
}

// NewIntakePostgres creates a new IntakePostgres repository.
func NewIntakePostgres(db *sql.DB) *IntakePostgres {
	return &IntakePostgres{db: db}
}

var _ repository.IntakeRepository = (*IntakePostgres)(nil)

// Create inserts a new intake row and returns the stored record. The insert
// is a single statement, so the row either exists completely or not at all.
func (r *IntakePostgres) Create(ctx context.Context, rec *model.IntakeRecord) (*model.IntakeRecord, error) {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	const q = `
		INSERT INTO intakes (ref_id, payload, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, ref_id, payload, created_at
	`
	row := r.db.QueryRowContext(ctx, q, rec.RefID, payload, rec.CreatedAt)

	out, err := scanIntake(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrDuplicateRefID
		}
		return nil, err
	}
	return out, nil
}

// FindByRefID fetches a single record by its public reference ID.
func (r *IntakePostgres) FindByRefID(ctx context.Context, refID string) (*model.IntakeRecord, error) {
	const q = `
		SELECT id, ref_id, payload, created_at
		FROM intakes
		WHERE ref_id = $1
	`
	return scanIntake(r.db.QueryRowContext(ctx, q, refID))
}

func scanIntake(row *sql.Row) (*model.IntakeRecord, error) {
	var (
		rec     model.IntakeRecord
		payload []byte
	)
	if err := row.Scan(&rec.ID, &rec.RefID, &payload, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &rec.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &rec, nil
}
