package usecase

import (
	"testing"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func filledFields(names []string, n int) map[string]any {
	fields := map[string]any{}
	for i, name := range names {
		if i < n {
			fields[name] = "value"
		} else {
			fields[name] = nil
		}
	}
	return fields
}

func TestCanAutoVerifyConfidenceBoundary(t *testing.T) {
	cfg, _ := domain.LookupDocType(domain.DocTypeGovernmentID)
	extraction := domain.FieldExtraction{Success: true, Fields: filledFields(cfg.Fields, len(cfg.Fields))}
	policy := domain.DefaultAutoVerifyPolicy()

	low := CanAutoVerify(policy, domain.ClassificationResult{DocumentType: domain.DocTypeGovernmentID, Confidence: 0.84}, extraction)
	if low.CanAutoVerify {
		t.Fatalf("expected 0.84 to be rejected")
	}
	if low.Reason == "" {
		t.Fatalf("expected reason for low confidence")
	}

	exact := CanAutoVerify(policy, domain.ClassificationResult{DocumentType: domain.DocTypeGovernmentID, Confidence: 0.85}, extraction)
	if !exact.CanAutoVerify {
		t.Fatalf("expected 0.85 to pass, got reason %q", exact.Reason)
	}
}

func TestCanAutoVerifyFieldRatioBoundaryOddFieldCount(t *testing.T) {
	// government_id expects 5 fields: floor(2.5)-1 = 1 fails, 2 fails, ceil(2.5) = 3 passes.
	cfg, _ := domain.LookupDocType(domain.DocTypeGovernmentID)
	if len(cfg.Fields) != 5 {
		t.Fatalf("expected 5 government_id fields, got %d", len(cfg.Fields))
	}
	policy := domain.DefaultAutoVerifyPolicy()
	cls := domain.ClassificationResult{DocumentType: domain.DocTypeGovernmentID, Confidence: 0.95}

	for filled, want := range map[int]bool{1: false, 2: false, 3: true} {
		got := CanAutoVerify(policy, cls, domain.FieldExtraction{Success: true, Fields: filledFields(cfg.Fields, filled)})
		if got.CanAutoVerify != want {
			t.Fatalf("filled=%d: expected %v, got %+v", filled, want, got)
		}
	}
}

func TestCanAutoVerifyFieldRatioBoundaryEvenFieldCount(t *testing.T) {
	cfg, _ := domain.LookupDocType(domain.DocTypeValidID)
	if len(cfg.Fields) != 4 {
		t.Fatalf("expected 4 valid_id fields, got %d", len(cfg.Fields))
	}
	policy := domain.DefaultAutoVerifyPolicy()
	cls := domain.ClassificationResult{DocumentType: domain.DocTypeValidID, Confidence: 0.9}

	if got := CanAutoVerify(policy, cls, domain.FieldExtraction{Success: true, Fields: filledFields(cfg.Fields, 1)}); got.CanAutoVerify {
		t.Fatalf("expected 1 of 4 to fail")
	}
	if got := CanAutoVerify(policy, cls, domain.FieldExtraction{Success: true, Fields: filledFields(cfg.Fields, 2)}); !got.CanAutoVerify {
		t.Fatalf("expected 2 of 4 to pass, got %q", got.Reason)
	}
}

func TestCanAutoVerifyEmptyStringCountsAsFilled(t *testing.T) {
	cfg, _ := domain.LookupDocType(domain.DocTypeValidID)
	fields := map[string]any{cfg.Fields[0]: "", cfg.Fields[1]: ""}
	got := CanAutoVerify(
		domain.DefaultAutoVerifyPolicy(),
		domain.ClassificationResult{DocumentType: domain.DocTypeValidID, Confidence: 0.9},
		domain.FieldExtraction{Success: true, Fields: fields},
	)
	if !got.CanAutoVerify {
		t.Fatalf("expected present empty values to count, got %q", got.Reason)
	}
}

func TestCanAutoVerifyRejectsFailedExtractionAndUnknownType(t *testing.T) {
	policy := domain.DefaultAutoVerifyPolicy()

	failed := CanAutoVerify(policy, domain.ClassificationResult{DocumentType: domain.DocTypeValidID, Confidence: 0.99}, domain.FieldExtraction{Success: false})
	if failed.CanAutoVerify || failed.Reason != "Field extraction failed" {
		t.Fatalf("unexpected decision for failed extraction: %+v", failed)
	}

	unknown := CanAutoVerify(policy, domain.ClassificationResult{DocumentType: domain.DocTypeOther, Confidence: 0.99}, domain.FieldExtraction{Success: true})
	if unknown.CanAutoVerify {
		t.Fatalf("expected unknown type to defer to review")
	}
}
