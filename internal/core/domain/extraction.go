package domain

import "encoding/base64"

// ProcessorKind selects which OCR processor handles a document.
type ProcessorKind string

const (
	ProcessorForm ProcessorKind = "form"
	ProcessorOCR  ProcessorKind = "ocr"
)

// DocumentInput is a document handed to a vendor. Either Data or Base64 is set;
// Base64 wins when both are present.
type DocumentInput struct {
	Filename string       `json:"filename,omitempty"`
	MimeType string       `json:"mime_type"`
	Type     DocumentType `json:"type,omitempty"`
	Data     []byte       `json:"-"`
	Base64   string       `json:"-"`
}

// EncodedContent returns the Base64 payload, encoding Data when needed.
func (d DocumentInput) EncodedContent() string {
	if d.Base64 != "" {
		return d.Base64
	}
	return base64.StdEncoding.EncodeToString(d.Data)
}

type Entity struct {
	Type        string  `json:"type"`
	MentionText string  `json:"mention_text"`
	Confidence  float64 `json:"confidence"`
}

type FormField struct {
	FieldName  string  `json:"field_name"`
	FieldValue string  `json:"field_value"`
	Confidence float64 `json:"confidence"`
}

type ExtractionResult struct {
	Text       string      `json:"text"`
	PageCount  int         `json:"page_count"`
	Entities   []Entity    `json:"entities"`
	FormFields []FormField `json:"form_fields"`
}
