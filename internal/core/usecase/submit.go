package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

type SubmitVerificationUseCase struct {
	repo    ports.VerificationRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewSubmitVerificationUseCase(
	repo ports.VerificationRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *SubmitVerificationUseCase {
	return &SubmitVerificationUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *SubmitVerificationUseCase) Submit(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit verification", err)
	}

	batchID := uuid.NewString()
	now := time.Now().UTC()
	documents := make([]domain.BatchDocument, 0, len(req.Documents))
	for _, doc := range req.Documents {
		content, err := decodeContent(doc)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "decode document", err)
		}

		docID := uuid.NewString()
		key := fmt.Sprintf("%s_%s_%s", batchID, docID, sanitizeFilename(doc.Filename))
		if err := uc.storage.Save(ctx, key, bytes.NewReader(content)); err != nil {
			return nil, fmt.Errorf("save to object storage: %w", err)
		}
		documents = append(documents, domain.BatchDocument{
			ID:         docID,
			Filename:   doc.Filename,
			MimeType:   doc.MimeType,
			Type:       doc.Type,
			StorageKey: key,
		})
	}

	batch := &domain.VerificationBatch{
		ID:         batchID,
		AgencyID:   req.AgencyID,
		AgencyName: req.AgencyName,
		Status:     domain.BatchPending,
		Documents:  documents,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create verification batch: %w", err)
	}

	if err := uc.queue.PublishVerificationRequested(ctx, batch.ID); err != nil {
		return nil, fmt.Errorf("publish verification event: %w", err)
	}
	return batch, nil
}
