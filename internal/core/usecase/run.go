package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

type batchVerifier interface {
	Verify(ctx context.Context, agencyName string, docs []domain.DocumentInput) (*domain.AggregateVerification, error)
}

// RunVerificationUseCase verifies a submission inline and stores the outcome.
type RunVerificationUseCase struct {
	repo     ports.VerificationRepository
	verifier batchVerifier
}

func NewRunVerificationUseCase(repo ports.VerificationRepository, verifier batchVerifier) *RunVerificationUseCase {
	return &RunVerificationUseCase{
		repo:     repo,
		verifier: verifier,
	}
}

func (uc *RunVerificationUseCase) Run(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "run verification", err)
	}

	start := time.Now()
	result, err := uc.verifier.Verify(ctx, req.AgencyName, req.Documents)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	documents := make([]domain.BatchDocument, 0, len(req.Documents))
	for _, doc := range req.Documents {
		documents = append(documents, domain.BatchDocument{
			ID:       uuid.NewString(),
			Filename: doc.Filename,
			MimeType: doc.MimeType,
			Type:     doc.Type,
		})
	}
	batch := &domain.VerificationBatch{
		ID:         uuid.NewString(),
		AgencyID:   req.AgencyID,
		AgencyName: req.AgencyName,
		Status:     domain.BatchCompleted,
		Documents:  documents,
		Result:     result,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create verification batch: %w", err)
	}

	slog.Info("verification_batch_completed",
		"batch_id", batch.ID,
		"agency_id", batch.AgencyID,
		"documents", len(documents),
		"overall_status", result.OverallStatus,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return batch, nil
}
