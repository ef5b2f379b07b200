package usecase

import (
	"fmt"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

// CanAutoVerify decides whether a classified and extracted document may skip
// manual review. Thresholds are inclusive.
func CanAutoVerify(
	policy domain.AutoVerifyPolicy,
	classification domain.ClassificationResult,
	extraction domain.FieldExtraction,
) domain.AutoVerifyDecision {
	if classification.Confidence < policy.MinConfidence {
		return domain.AutoVerifyDecision{
			Reason: fmt.Sprintf("Low classification confidence (%.2f < %.2f)", classification.Confidence, policy.MinConfidence),
		}
	}
	if !extraction.Success {
		return domain.AutoVerifyDecision{Reason: "Field extraction failed"}
	}

	cfg, ok := domain.LookupDocType(classification.DocumentType)
	if !ok {
		return domain.AutoVerifyDecision{
			Reason: fmt.Sprintf("Unknown document type %q", classification.DocumentType),
		}
	}

	expected := len(cfg.Fields)
	filled := countFilledFields(extraction.Fields, cfg.Fields)
	if float64(filled) < policy.MinFieldRatio*float64(expected) {
		return domain.AutoVerifyDecision{
			Reason: fmt.Sprintf("Too few fields extracted (%d of %d)", filled, expected),
		}
	}

	return domain.AutoVerifyDecision{CanAutoVerify: true}
}

// countFilledFields counts expected keys present with a non-nil value.
func countFilledFields(fields map[string]any, expected []string) int {
	filled := 0
	for _, name := range expected {
		if value, ok := fields[name]; ok && value != nil {
			filled++
		}
	}
	return filled
}
