package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

// AccessTokenProvider mints bearer tokens for the OCR vendor.
type AccessTokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StructuredExtractor runs vendor OCR/form parsing on a document.
type StructuredExtractor interface {
	Extract(ctx context.Context, doc domain.DocumentInput, processor domain.ProcessorKind) (*domain.ExtractionResult, error)
}

// VerificationAnalyzer interprets an extraction into a verification verdict.
// Vendor failures degrade the result instead of returning an error.
type VerificationAnalyzer interface {
	Analyze(ctx context.Context, extraction *domain.ExtractionResult, hints domain.AnalysisHints) (domain.VerificationResult, error)
}

// DocumentClassifier assigns an onboarding document to a category.
type DocumentClassifier interface {
	Classify(ctx context.Context, doc domain.DocumentInput) (domain.ClassificationResult, error)
}

// FieldExtractor pulls the type-specific fields out of a classified document.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, doc domain.DocumentInput, docType domain.DocumentType) (domain.FieldExtraction, error)
}

// VerificationRepository persists verification batches.
type VerificationRepository interface {
	CreateBatch(ctx context.Context, batch *domain.VerificationBatch) error
	GetBatch(ctx context.Context, id string) (*domain.VerificationBatch, error)
	UpdateBatchStatus(ctx context.Context, id string, status domain.BatchStatus, errMessage string) error
	SaveBatchResult(ctx context.Context, id string, result domain.AggregateVerification) error
}

// OnboardingRepository persists onboarding document decisions.
type OnboardingRepository interface {
	SaveOnboardingDocument(ctx context.Context, doc *domain.OnboardingDocument) error
}

// ObjectStorage stores submitted document bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes verification batch events.
type MessageQueue interface {
	PublishVerificationRequested(ctx context.Context, batchID string) error
	SubscribeVerificationRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// PipelineRecorder observes pipeline outcomes. Implementations must be safe for
// concurrent use.
type PipelineRecorder interface {
	RecordDocument(status domain.VerificationStatus, method domain.AnalysisMethod)
	RecordBatch(status domain.OverallStatus)
	RecordAutoVerify(decision domain.AutoVerifyDecision)
}

// VendorCallObserver records latency and outcome of external vendor calls.
type VendorCallObserver interface {
	ObserveVendorCall(vendor, outcome string, duration time.Duration)
}
