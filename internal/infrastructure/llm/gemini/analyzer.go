package gemini

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

const (
	degradedConfidence = 0.6
	defaultConfidence  = 0.5
	unavailableIssue   = "AI analysis unavailable — manual review recommended"
)

// Analyzer turns OCR output into a verification verdict using the model.
type Analyzer struct {
	client *Client
}

func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

type analysisReply struct {
	DocumentType       string   `json:"documentType"`
	CompanyName        *string  `json:"companyName"`
	RegistrationNumber *string  `json:"registrationNumber"`
	TINNumber          *string  `json:"tinNumber"`
	DateIssued         *string  `json:"dateIssued"`
	ExpiryDate         *string  `json:"expiryDate"`
	IssuingAuthority   *string  `json:"issuingAuthority"`
	Confidence         *float64 `json:"confidence"`
	Status             string   `json:"status"`
	Issues             []string `json:"issues"`
	Summary            string   `json:"summary"`
}

func (a *Analyzer) Analyze(ctx context.Context, extraction *domain.ExtractionResult, hints domain.AnalysisHints) (domain.VerificationResult, error) {
	if extraction == nil {
		extraction = &domain.ExtractionResult{}
	}

	reply, err := a.client.generate(ctx, []part{{Text: buildVerificationPrompt(extraction, hints)}})
	if err != nil {
		if domain.IsKind(err, domain.ErrConfiguration) {
			return domain.VerificationResult{}, err
		}
		if errors.Is(err, context.Canceled) {
			return domain.VerificationResult{}, err
		}
		slog.Warn("verification_analysis_unavailable", "error", err)
		return degradedResult(extraction, hints, err), nil
	}

	parsed, ok := decodeReply[analysisReply](reply)
	if !ok {
		slog.Warn("verification_analysis_unparsed", "reply_length", len(reply))
	}
	return parsed.toResult(extraction, hints), nil
}

func (r analysisReply) toResult(extraction *domain.ExtractionResult, hints domain.AnalysisHints) domain.VerificationResult {
	docType := domain.ParseDocumentType(r.DocumentType)
	if docType == domain.DocTypeUnknown {
		docType = fallbackDocType(hints)
	}

	status := domain.VerificationStatus(r.Status)
	if !status.Known() {
		status = domain.VerificationValid
	}

	confidence := defaultConfidence
	if r.Confidence != nil {
		confidence = min(max(*r.Confidence, 0), 1)
	}

	issues := r.Issues
	if issues == nil {
		issues = []string{}
	}

	return domain.VerificationResult{
		DocumentType:       docType,
		CompanyName:        r.CompanyName,
		RegistrationNumber: r.RegistrationNumber,
		TINNumber:          r.TINNumber,
		DateIssued:         r.DateIssued,
		ExpiryDate:         r.ExpiryDate,
		IssuingAuthority:   r.IssuingAuthority,
		ExtractedText:      extraction.Text,
		Confidence:         confidence,
		Status:             status,
		Issues:             issues,
		Method:             domain.MethodAI,
		RawData: map[string]any{
			"summary":       r.Summary,
			"document_type": r.DocumentType,
		},
	}
}

func degradedResult(extraction *domain.ExtractionResult, hints domain.AnalysisHints, cause error) domain.VerificationResult {
	return domain.VerificationResult{
		DocumentType:  fallbackDocType(hints),
		ExtractedText: extraction.Text,
		Confidence:    degradedConfidence,
		Status:        domain.VerificationValid,
		Issues:        []string{unavailableIssue},
		Method:        domain.MethodAIUnavailable,
		RawData: map[string]any{
			"error": cause.Error(),
		},
	}
}

func fallbackDocType(hints domain.AnalysisHints) domain.DocumentType {
	if hints.ExpectedType != "" {
		return hints.ExpectedType
	}
	return domain.DocTypeOther
}
