package pattern

import (
	"context"
	"testing"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

const permitText = `REPUBLIC OF THE PHILIPPINES
Business Name: ACME CORP PH
Registration No: CS2019-0042
TIN: 123-456-789-000
Date Issued: January 5, 2024
Valid Until: January 4, 2025`

func TestFirstMatchReturnsTrimmedGroup(t *testing.T) {
	got := FirstMatch("Company Name:   Acme Corp PH   \nnext", CompanyNamePattern)
	if got == nil || *got != "Acme Corp PH" {
		t.Fatalf("unexpected match: %v", got)
	}
}

func TestFirstMatchReturnsNilWithoutMatch(t *testing.T) {
	if got := FirstMatch("nothing to see", TINPattern); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
	if got := FirstMatch("", TINPattern); got != nil {
		t.Fatalf("expected nil for empty text, got %q", *got)
	}
}

func TestAnalyzerFallbackResult(t *testing.T) {
	result, err := NewAnalyzer().Analyze(context.Background(), &domain.ExtractionResult{Text: permitText}, domain.AnalysisHints{
		ExpectedType: domain.DocTypeMayorsPermit,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Confidence != 0.7 || result.Status != domain.VerificationValid {
		t.Fatalf("unexpected confidence/status: %v %q", result.Confidence, result.Status)
	}
	if result.Issues == nil || len(result.Issues) != 0 {
		t.Fatalf("expected empty issue list, got %#v", result.Issues)
	}
	if result.Method != domain.MethodPatternFallback || result.RawData["method"] != "pattern_fallback" {
		t.Fatalf("expected fallback labelling, got %q %v", result.Method, result.RawData)
	}
	if result.DocumentType != domain.DocTypeMayorsPermit {
		t.Fatalf("unexpected document type %q", result.DocumentType)
	}
	if result.CompanyName == nil || *result.CompanyName != "ACME CORP PH" {
		t.Fatalf("unexpected company name %v", result.CompanyName)
	}
	if result.RegistrationNumber == nil || *result.RegistrationNumber != "CS2019-0042" {
		t.Fatalf("unexpected registration number %v", result.RegistrationNumber)
	}
	if result.TINNumber == nil || *result.TINNumber != "123-456-789-000" {
		t.Fatalf("unexpected tin %v", result.TINNumber)
	}
	if result.DateIssued == nil || *result.DateIssued != "January 5, 2024" {
		t.Fatalf("unexpected date issued %v", result.DateIssued)
	}
	if result.ExpiryDate == nil || *result.ExpiryDate != "January 4, 2025" {
		t.Fatalf("unexpected expiry %v", result.ExpiryDate)
	}
}

func TestAnalyzerHandlesEmptyExtraction(t *testing.T) {
	result, err := NewAnalyzer().Analyze(context.Background(), nil, domain.AnalysisHints{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.CompanyName != nil || result.TINNumber != nil {
		t.Fatalf("expected nil fields, got %+v", result)
	}
	if result.DocumentType != domain.DocTypeOther {
		t.Fatalf("unexpected document type %q", result.DocumentType)
	}
}
