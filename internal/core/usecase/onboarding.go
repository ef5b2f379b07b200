package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

type OnboardingUseCase struct {
	classifier ports.DocumentClassifier
	extractor  ports.FieldExtractor
	repo       ports.OnboardingRepository
	recorder   ports.PipelineRecorder
	policy     domain.AutoVerifyPolicy
}

func NewOnboardingUseCase(
	classifier ports.DocumentClassifier,
	extractor ports.FieldExtractor,
	repo ports.OnboardingRepository,
	recorder ports.PipelineRecorder,
	policy domain.AutoVerifyPolicy,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		classifier: classifier,
		extractor:  extractor,
		repo:       repo,
		recorder:   recorderOrNoop(recorder),
		policy:     policy,
	}
}

func (uc *OnboardingUseCase) Process(ctx context.Context, req domain.OnboardingRequest) (*domain.OnboardingDocument, error) {
	if strings.TrimSpace(req.CandidateID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process onboarding document", errors.New("candidate id is required"))
	}
	if err := validateDocument(req.Document); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process onboarding document", err)
	}

	assessment, err := uc.Assess(ctx, req.Document, req.ExpectedType)
	if err != nil {
		return nil, err
	}
	classification, extraction, decision := assessment.Classification, assessment.Extraction, assessment.Decision

	doc := &domain.OnboardingDocument{
		ID:             uuid.NewString(),
		CandidateID:    req.CandidateID,
		Filename:       req.Document.Filename,
		MimeType:       req.Document.MimeType,
		Classification: classification,
		Extraction:     extraction,
		Decision:       decision,
		Status:         domain.OnboardingPendingReview,
		CreatedAt:      time.Now().UTC(),
	}
	if decision.CanAutoVerify {
		doc.Status = domain.OnboardingAutoVerified
		if cfg, ok := domain.LookupDocType(classification.DocumentType); ok {
			doc.Points = cfg.Points
		}
	}

	if err := uc.repo.SaveOnboardingDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save onboarding document: %w", err)
	}
	uc.recorder.RecordAutoVerify(decision)
	slog.Info("onboarding_decision",
		"document_id", doc.ID,
		"candidate_id", doc.CandidateID,
		"document_type", classification.DocumentType,
		"confidence", classification.Confidence,
		"status", doc.Status,
		"reason", decision.Reason,
	)
	return doc, nil
}

// OnboardingAssessment is the outcome of classifying, extracting and gating a
// document before anything is persisted.
type OnboardingAssessment struct {
	Classification domain.ClassificationResult `json:"classification"`
	Extraction     domain.FieldExtraction      `json:"extraction"`
	Decision       domain.AutoVerifyDecision   `json:"decision"`
}

// Assess runs classification, field extraction and the auto-verify gate. It
// touches neither the repository nor the recorder.
func (uc *OnboardingUseCase) Assess(ctx context.Context, doc domain.DocumentInput, expectedType domain.DocumentType) (OnboardingAssessment, error) {
	classification, err := uc.classify(ctx, doc)
	if err != nil {
		return OnboardingAssessment{}, err
	}
	extraction, err := uc.extract(ctx, doc, classification.DocumentType)
	if err != nil {
		return OnboardingAssessment{}, err
	}

	decision := CanAutoVerify(uc.policy, classification, extraction)
	if decision.CanAutoVerify && expectedType != "" && expectedType != classification.DocumentType {
		decision = domain.AutoVerifyDecision{
			Reason: fmt.Sprintf("Expected %s but document was classified as %s", expectedType, classification.DocumentType),
		}
	}
	return OnboardingAssessment{
		Classification: classification,
		Extraction:     extraction,
		Decision:       decision,
	}, nil
}

// classify degrades vendor failures to the unknown sentinel; only configuration
// errors abort.
func (uc *OnboardingUseCase) classify(ctx context.Context, doc domain.DocumentInput) (domain.ClassificationResult, error) {
	classification, err := uc.classifier.Classify(ctx, doc)
	if err != nil {
		if domain.IsKind(err, domain.ErrConfiguration) {
			return domain.ClassificationResult{}, fmt.Errorf("classify document: %w", err)
		}
		slog.Warn("onboarding_classification_failed", "filename", doc.Filename, "error", err)
		return domain.UnknownClassification(), nil
	}
	return classification, nil
}

func (uc *OnboardingUseCase) extract(ctx context.Context, doc domain.DocumentInput, docType domain.DocumentType) (domain.FieldExtraction, error) {
	if _, ok := domain.LookupDocType(docType); !ok {
		return domain.FieldExtraction{
			Success: false,
			Fields:  map[string]any{},
			Error:   "document type could not be determined",
		}, nil
	}

	extraction, err := uc.extractor.ExtractFields(ctx, doc, docType)
	if err != nil {
		if domain.IsKind(err, domain.ErrConfiguration) {
			return domain.FieldExtraction{}, fmt.Errorf("extract fields: %w", err)
		}
		return domain.FieldExtraction{
			Success: false,
			Fields:  map[string]any{},
			Error:   err.Error(),
		}, nil
	}
	if extraction.Fields == nil {
		extraction.Fields = map[string]any{}
	}
	return extraction, nil
}
