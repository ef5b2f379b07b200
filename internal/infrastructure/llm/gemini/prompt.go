package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

const (
	maxPromptText       = 4000
	maxPromptFormFields = 2000
)

// truncate keeps the first limit characters of s.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func buildVerificationPrompt(extraction *domain.ExtractionResult, hints domain.AnalysisHints) string {
	fields := "[]"
	if len(extraction.FormFields) > 0 {
		if raw, err := json.Marshal(extraction.FormFields); err == nil {
			fields = string(raw)
		}
	}

	var hintBuilder strings.Builder
	if hints.ExpectedType != "" {
		hintBuilder.WriteString(fmt.Sprintf("Expected document type: %s\n", hints.ExpectedType))
	}
	if strings.TrimSpace(hints.CompanyName) != "" {
		hintBuilder.WriteString(fmt.Sprintf("Expected company name: %s\n", hints.CompanyName))
	}

	docTypes := make([]string, 0, len(domain.BusinessDocTypes()))
	for _, t := range domain.BusinessDocTypes() {
		docTypes = append(docTypes, string(t))
	}

	return fmt.Sprintf(`You verify Philippine business registration documents submitted by recruitment agencies.
Return one strict JSON object with keys:
documentType (one of: %s),
companyName, registrationNumber, tinNumber, dateIssued, expiryDate, issuingAuthority (string or null),
confidence (number from 0 to 1),
status ("valid", "suspicious" or "unreadable"),
issues (array of strings),
summary (string).
Flag expired documents, altered text, and mismatches with the expected values as issues.
No extra keys.

%s
Extracted text:
%s

Form fields:
%s
`, strings.Join(docTypes, ", "), hintBuilder.String(), truncate(extraction.Text, maxPromptText), truncate(fields, maxPromptFormFields))
}

func buildClassificationPrompt() string {
	var categories strings.Builder
	for _, t := range domain.OnboardingDocTypes() {
		cfg, _ := domain.LookupDocType(t)
		categories.WriteString(fmt.Sprintf("- %s: %s\n", t, cfg.Label))
	}

	return `Classify the attached document image into exactly one category:
` + categories.String() + `
Return strict JSON object with keys:
documentType (one of the category keys above, or "unknown"),
confidence (number from 0 to 1),
detectedText (short string with the key text you relied on).
No markdown, no extra keys.`
}

func buildFieldExtractionPrompt(cfg domain.DocTypeConfig) string {
	return fmt.Sprintf(`Extract fields from the attached %s.
Return strict JSON object with exactly these keys: %s.
Use null for any field that is missing or illegible. Dates as YYYY-MM-DD.
%s
No markdown, no extra keys.`, cfg.Label, strings.Join(cfg.Fields, ", "), cfg.Prompt)
}
