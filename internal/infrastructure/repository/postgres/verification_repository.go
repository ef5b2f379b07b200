package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) CreateBatch(ctx context.Context, batch *domain.VerificationBatch) error {
	documentsJSON, err := json.Marshal(batch.Documents)
	if err != nil {
		return fmt.Errorf("marshal batch documents: %w", err)
	}
	var resultJSON any
	if batch.Result != nil {
		raw, err := json.Marshal(batch.Result)
		if err != nil {
			return fmt.Errorf("marshal batch result: %w", err)
		}
		resultJSON = raw
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO verification_batches (
	id, agency_id, agency_name, status, documents, result, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		batch.ID, batch.AgencyID, batch.AgencyName, string(batch.Status), documentsJSON, resultJSON,
		batch.Error, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification batch: %w", err)
	}
	return nil
}

func (r *VerificationRepository) GetBatch(ctx context.Context, id string) (*domain.VerificationBatch, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, agency_id, agency_name, status, documents, result, error_message, created_at, updated_at
FROM verification_batches
WHERE id = $1
`, id)

	var batch domain.VerificationBatch
	var status string
	var documentsRaw, resultRaw []byte
	err := row.Scan(
		&batch.ID, &batch.AgencyID, &batch.AgencyName, &status, &documentsRaw, &resultRaw,
		&batch.Error, &batch.CreatedAt, &batch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get verification batch", fmt.Errorf("batch %s", id))
		}
		return nil, fmt.Errorf("scan verification batch: %w", err)
	}

	if err := json.Unmarshal(documentsRaw, &batch.Documents); err != nil {
		return nil, fmt.Errorf("unmarshal batch documents: %w", err)
	}
	if len(resultRaw) > 0 {
		var result domain.AggregateVerification
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal batch result: %w", err)
		}
		batch.Result = &result
	}
	batch.Status = domain.BatchStatus(status)
	return &batch, nil
}

func (r *VerificationRepository) UpdateBatchStatus(ctx context.Context, id string, status domain.BatchStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE verification_batches
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	return requireAffected(result, "update batch status", id)
}

func (r *VerificationRepository) SaveBatchResult(ctx context.Context, id string, aggregate domain.AggregateVerification) error {
	resultJSON, err := json.Marshal(aggregate)
	if err != nil {
		return fmt.Errorf("marshal batch result: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE verification_batches
SET result = $2, updated_at = $3
WHERE id = $1
`, id, resultJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save batch result: %w", err)
	}
	return requireAffected(result, "save batch result", id)
}

func requireAffected(result sql.Result, operation, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, operation, fmt.Errorf("batch %s", id))
	}
	return nil
}
