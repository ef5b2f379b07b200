package ports

import (
	"context"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

// VerificationSubmitter queues an agency document batch for asynchronous verification.
type VerificationSubmitter interface {
	Submit(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationBatch, error)
}

// VerificationRunner verifies an agency document batch inline.
type VerificationRunner interface {
	Run(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationBatch, error)
}

// VerificationReader is the read model for verification batches.
type VerificationReader interface {
	GetBatch(ctx context.Context, id string) (*domain.VerificationBatch, error)
}

// VerificationProcessor handles a queued batch.
type VerificationProcessor interface {
	ProcessByID(ctx context.Context, batchID string) error
}

// OnboardingDocumentProcessor classifies, extracts and gates a candidate document.
type OnboardingDocumentProcessor interface {
	Process(ctx context.Context, req domain.OnboardingRequest) (*domain.OnboardingDocument, error)
}
