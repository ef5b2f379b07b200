package pattern

import (
	"context"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

const fallbackConfidence = 0.7

// Analyzer derives a verification result from regular expressions alone. It is
// used when no generative model is configured and never calls out.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(_ context.Context, extraction *domain.ExtractionResult, hints domain.AnalysisHints) (domain.VerificationResult, error) {
	text := ""
	if extraction != nil {
		text = extraction.Text
	}

	docType := hints.ExpectedType
	if docType == "" {
		docType = domain.DocTypeOther
	}

	return domain.VerificationResult{
		DocumentType:       docType,
		CompanyName:        FirstMatch(text, CompanyNamePattern),
		RegistrationNumber: FirstMatch(text, RegistrationNumberPattern),
		TINNumber:          FirstMatch(text, TINPattern),
		DateIssued:         FirstMatch(text, DateIssuedPattern),
		ExpiryDate:         FirstMatch(text, ExpiryDatePattern),
		ExtractedText:      text,
		Confidence:         fallbackConfidence,
		Status:             domain.VerificationValid,
		Issues:             []string{},
		Method:             domain.MethodPatternFallback,
		RawData: map[string]any{
			"method": string(domain.MethodPatternFallback),
		},
	}, nil
}
