package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

const statusWriteTimeout = 10 * time.Second

// ProcessVerificationUseCase runs a queued batch to completion.
type ProcessVerificationUseCase struct {
	repo     ports.VerificationRepository
	storage  ports.ObjectStorage
	verifier batchVerifier
}

func NewProcessVerificationUseCase(
	repo ports.VerificationRepository,
	storage ports.ObjectStorage,
	verifier batchVerifier,
) *ProcessVerificationUseCase {
	return &ProcessVerificationUseCase{
		repo:     repo,
		storage:  storage,
		verifier: verifier,
	}
}

func (uc *ProcessVerificationUseCase) ProcessByID(ctx context.Context, batchID string) error {
	if err := uc.markStatus(ctx, batchID, domain.BatchProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.processPipeline(ctx, batchID)
	if err == nil && ctx.Err() != nil {
		err = fmt.Errorf("verification interrupted: %w", ctx.Err())
	}

	// Terminal status writes outlive a cancelled pipeline context.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	if err != nil {
		if failErr := uc.markFailed(writeCtx, batchID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveBatchResult(writeCtx, batchID, *result); err != nil {
		saveErr := fmt.Errorf("save verification result: %w", err)
		if failErr := uc.markFailed(writeCtx, batchID, saveErr); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", saveErr, failErr)
		}
		return saveErr
	}

	if err := uc.markStatus(writeCtx, batchID, domain.BatchCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	slog.Info("verification_batch_completed",
		"batch_id", batchID,
		"overall_status", result.OverallStatus,
		"documents", len(result.Documents),
	)
	return nil
}

func (uc *ProcessVerificationUseCase) processPipeline(ctx context.Context, batchID string) (*domain.AggregateVerification, error) {
	batch, err := uc.repo.GetBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("fetch batch by id: %w", err)
	}

	docs := make([]domain.DocumentInput, 0, len(batch.Documents))
	for _, stored := range batch.Documents {
		data, err := uc.load(ctx, stored.StorageKey)
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.DocumentInput{
			Filename: stored.Filename,
			MimeType: stored.MimeType,
			Type:     stored.Type,
			Data:     data,
		})
	}

	return uc.verifier.Verify(ctx, batch.AgencyName, docs)
}

func (uc *ProcessVerificationUseCase) load(ctx context.Context, key string) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open stored document %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored document %s: %w", key, err)
	}
	return data, nil
}

func (uc *ProcessVerificationUseCase) markStatus(ctx context.Context, batchID string, status domain.BatchStatus, errMessage string) error {
	return uc.repo.UpdateBatchStatus(ctx, batchID, status, errMessage)
}

func (uc *ProcessVerificationUseCase) markFailed(ctx context.Context, batchID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, batchID, domain.BatchFailed, processErr.Error())
}
