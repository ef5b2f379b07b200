package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)
	nonDigit        = regexp.MustCompile(`[^0-9]`)
)

func normalizeCompanyName(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "")
}

func normalizeTIN(tin string) string {
	return nonDigit.ReplaceAllString(tin, "")
}

// crossReferenceIssues compares identity attributes across independently
// verified documents of one agency.
func crossReferenceIssues(agencyName string, docs []domain.VerificationResult) []string {
	issues := make([]string, 0)

	names := collectDistinct(docs, func(d domain.VerificationResult) *string { return d.CompanyName }, normalizeCompanyName)
	if len(names.normalized) > 1 {
		issues = append(issues, fmt.Sprintf("Company name mismatch across documents: %s", quoteJoin(names.raw)))
	}

	agencyNormalized := normalizeCompanyName(agencyName)
	if agencyNormalized != "" && len(names.normalized) > 0 {
		matched := false
		for _, candidate := range names.normalized {
			if strings.Contains(candidate, agencyNormalized) || strings.Contains(agencyNormalized, candidate) {
				matched = true
				break
			}
		}
		if !matched {
			issues = append(issues, fmt.Sprintf(
				"Agency name %q does not match any company name on the documents: %s",
				strings.TrimSpace(agencyName),
				quoteJoin(names.raw),
			))
		}
	}

	tins := collectDistinct(docs, func(d domain.VerificationResult) *string { return d.TINNumber }, normalizeTIN)
	if len(tins.normalized) > 1 {
		issues = append(issues, fmt.Sprintf("TIN mismatch across documents: %s", quoteJoin(tins.raw)))
	}

	return issues
}

type distinctValues struct {
	normalized []string
	raw        []string
}

// collectDistinct keeps first-seen order. Values that normalize to empty are ignored.
func collectDistinct(
	docs []domain.VerificationResult,
	field func(domain.VerificationResult) *string,
	normalize func(string) string,
) distinctValues {
	var out distinctValues
	seenNormalized := make(map[string]struct{})
	seenRaw := make(map[string]struct{})
	for _, doc := range docs {
		value := field(doc)
		if value == nil {
			continue
		}
		raw := strings.TrimSpace(*value)
		key := normalize(raw)
		if key == "" {
			continue
		}
		if _, ok := seenNormalized[key]; !ok {
			seenNormalized[key] = struct{}{}
			out.normalized = append(out.normalized, key)
		}
		if _, ok := seenRaw[raw]; !ok {
			seenRaw[raw] = struct{}{}
			out.raw = append(out.raw, raw)
		}
	}
	return out
}

func quoteJoin(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}

func overallStatus(docs []domain.VerificationResult, issues []string) domain.OverallStatus {
	if len(issues) > 0 {
		return domain.OverallNeedsReview
	}
	for _, doc := range docs {
		if doc.Status != domain.VerificationValid {
			return domain.OverallNeedsReview
		}
	}
	return domain.OverallVerified
}

func buildSummary(docs []domain.VerificationResult, issues []string) string {
	var valid, suspicious, unreadable int
	for _, doc := range docs {
		switch doc.Status {
		case domain.VerificationValid:
			valid++
		case domain.VerificationSuspicious:
			suspicious++
		case domain.VerificationUnreadable:
			unreadable++
		}
	}

	tail := "No cross-reference issues found."
	if len(issues) > 0 {
		tail = "Cross-reference issues: " + strings.Join(issues, "; ")
	}
	return fmt.Sprintf(
		"Processed %d document(s): %d valid, %d suspicious, %d unreadable. %s",
		len(docs), valid, suspicious, unreadable, tail,
	)
}
