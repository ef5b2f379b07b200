package domain

import "time"

type ClassificationResult struct {
	DocumentType DocumentType `json:"document_type"`
	Confidence   float64      `json:"confidence"`
	DetectedText string       `json:"detected_text,omitempty"`
}

// UnknownClassification is returned when the vendor reply holds no usable JSON.
func UnknownClassification() ClassificationResult {
	return ClassificationResult{DocumentType: DocTypeUnknown, Confidence: 0}
}

type FieldExtraction struct {
	Success bool           `json:"success"`
	Fields  map[string]any `json:"fields"`
	Error   string         `json:"error,omitempty"`
}

type AutoVerifyDecision struct {
	CanAutoVerify bool   `json:"can_auto_verify"`
	Reason        string `json:"reason,omitempty"`
}

type OnboardingStatus string

const (
	OnboardingAutoVerified  OnboardingStatus = "auto_verified"
	OnboardingPendingReview OnboardingStatus = "pending_review"
)

type OnboardingDocument struct {
	ID             string               `json:"id"`
	CandidateID    string               `json:"candidate_id"`
	Filename       string               `json:"filename,omitempty"`
	MimeType       string               `json:"mime_type"`
	Classification ClassificationResult `json:"classification"`
	Extraction     FieldExtraction      `json:"extraction"`
	Decision       AutoVerifyDecision   `json:"decision"`
	Status         OnboardingStatus     `json:"status"`
	Points         int                  `json:"points"`
	CreatedAt      time.Time            `json:"created_at"`
}

type OnboardingRequest struct {
	CandidateID  string
	ExpectedType DocumentType
	Document     DocumentInput
}
