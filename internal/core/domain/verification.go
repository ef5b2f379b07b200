package domain

import "time"

type VerificationStatus string

const (
	VerificationValid      VerificationStatus = "valid"
	VerificationSuspicious VerificationStatus = "suspicious"
	VerificationUnreadable VerificationStatus = "unreadable"
)

func (s VerificationStatus) Known() bool {
	switch s {
	case VerificationValid, VerificationSuspicious, VerificationUnreadable:
		return true
	default:
		return false
	}
}

type OverallStatus string

const (
	OverallVerified    OverallStatus = "verified"
	OverallNeedsReview OverallStatus = "needs_review"
	// OverallRejected is reserved; no verification rule assigns it.
	OverallRejected OverallStatus = "rejected"
)

// AnalysisMethod records which path produced a VerificationResult.
type AnalysisMethod string

const (
	MethodAI              AnalysisMethod = "ai"
	MethodAIUnavailable   AnalysisMethod = "ai_unavailable"
	MethodPatternFallback AnalysisMethod = "pattern_fallback"
	MethodFailed          AnalysisMethod = "failed"
)

// AnalysisHints are optional expectations passed to the analyzer.
type AnalysisHints struct {
	ExpectedType DocumentType
	CompanyName  string
}

type VerificationResult struct {
	DocumentType       DocumentType       `json:"document_type"`
	CompanyName        *string            `json:"company_name"`
	RegistrationNumber *string            `json:"registration_number"`
	TINNumber          *string            `json:"tin_number"`
	DateIssued         *string            `json:"date_issued"`
	ExpiryDate         *string            `json:"expiry_date"`
	IssuingAuthority   *string            `json:"issuing_authority"`
	ExtractedText      string             `json:"extracted_text"`
	Confidence         float64            `json:"confidence"`
	Status             VerificationStatus `json:"status"`
	Issues             []string           `json:"issues"`
	Method             AnalysisMethod     `json:"method"`
	RawData            map[string]any     `json:"raw_data"`
}

type AggregateVerification struct {
	OverallStatus        OverallStatus        `json:"overall_status"`
	Documents            []VerificationResult `json:"documents"`
	CrossReferenceIssues []string             `json:"cross_reference_issues"`
	Summary              string               `json:"summary"`
}

type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

type BatchDocument struct {
	ID         string       `json:"id"`
	Filename   string       `json:"filename,omitempty"`
	MimeType   string       `json:"mime_type"`
	Type       DocumentType `json:"type,omitempty"`
	StorageKey string       `json:"storage_key,omitempty"`
}

type VerificationBatch struct {
	ID         string                 `json:"id"`
	AgencyID   string                 `json:"agency_id,omitempty"`
	AgencyName string                 `json:"agency_name,omitempty"`
	Status     BatchStatus            `json:"status"`
	Documents  []BatchDocument        `json:"documents"`
	Result     *AggregateVerification `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// VerificationRequest is an agency's document submission.
type VerificationRequest struct {
	AgencyID   string
	AgencyName string
	Documents  []DocumentInput
}
