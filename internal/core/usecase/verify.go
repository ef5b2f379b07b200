package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

// Verifier runs the extract → analyze pipeline per document and cross-references
// the results. Output order always matches input order.
type Verifier struct {
	extractor   ports.StructuredExtractor
	analyzer    ports.VerificationAnalyzer
	recorder    ports.PipelineRecorder
	concurrency int
}

func NewVerifier(
	extractor ports.StructuredExtractor,
	analyzer ports.VerificationAnalyzer,
	recorder ports.PipelineRecorder,
	concurrency int,
) *Verifier {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Verifier{
		extractor:   extractor,
		analyzer:    analyzer,
		recorder:    recorderOrNoop(recorder),
		concurrency: concurrency,
	}
}

func (v *Verifier) Verify(ctx context.Context, agencyName string, docs []domain.DocumentInput) (*domain.AggregateVerification, error) {
	results := make([]domain.VerificationResult, len(docs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(v.concurrency)
	for i, doc := range docs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := v.verifyDocument(groupCtx, agencyName, doc)
			if err != nil {
				if domain.IsKind(err, domain.ErrConfiguration) {
					return err
				}
				slog.Warn("verification_document_failed",
					"index", i,
					"filename", doc.Filename,
					"type", doc.Type,
					"error", err,
				)
				result = unreadableResult(doc, err)
			}
			results[i] = result
			v.recorder.RecordDocument(result.Status, result.Method)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("verify documents: %w", err)
	}

	issues := crossReferenceIssues(agencyName, results)
	aggregate := &domain.AggregateVerification{
		OverallStatus:        overallStatus(results, issues),
		Documents:            results,
		CrossReferenceIssues: issues,
		Summary:              buildSummary(results, issues),
	}
	v.recorder.RecordBatch(aggregate.OverallStatus)
	return aggregate, nil
}

func (v *Verifier) verifyDocument(ctx context.Context, agencyName string, doc domain.DocumentInput) (domain.VerificationResult, error) {
	extraction, err := v.extractor.Extract(ctx, doc, domain.ProcessorForm)
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("extract document: %w", err)
	}

	result, err := v.analyzer.Analyze(ctx, extraction, domain.AnalysisHints{
		ExpectedType: doc.Type,
		CompanyName:  agencyName,
	})
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("analyze document: %w", err)
	}
	return result, nil
}

func unreadableResult(doc domain.DocumentInput, cause error) domain.VerificationResult {
	docType := doc.Type
	if docType == "" {
		docType = domain.DocTypeOther
	}
	return domain.VerificationResult{
		DocumentType: docType,
		Confidence:   0,
		Status:       domain.VerificationUnreadable,
		Issues:       []string{"Failed to process document: " + cause.Error()},
		Method:       domain.MethodFailed,
		RawData: map[string]any{
			"error": cause.Error(),
		},
	}
}
