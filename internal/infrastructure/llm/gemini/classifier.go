package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

// Classifier assigns onboarding document images to a category.
type Classifier struct {
	client *Client
}

func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

type classificationReply struct {
	DocumentType string   `json:"documentType"`
	Confidence   *float64 `json:"confidence"`
	DetectedText string   `json:"detectedText"`
}

func (c *Classifier) Classify(ctx context.Context, doc domain.DocumentInput) (domain.ClassificationResult, error) {
	reply, err := c.client.generate(ctx, []part{
		{Text: buildClassificationPrompt()},
		documentPart(doc),
	})
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	parsed, ok := decodeReply[classificationReply](reply)
	if !ok {
		return domain.UnknownClassification(), nil
	}

	result := domain.ClassificationResult{
		DocumentType: domain.ParseDocumentType(parsed.DocumentType),
		DetectedText: strings.TrimSpace(parsed.DetectedText),
	}
	if parsed.Confidence != nil {
		result.Confidence = min(max(*parsed.Confidence, 0), 1)
	}
	return result, nil
}

// FieldExtractor pulls the configured fields for a document type.
type FieldExtractor struct {
	client *Client
}

func NewFieldExtractor(client *Client) *FieldExtractor {
	return &FieldExtractor{client: client}
}

func (f *FieldExtractor) ExtractFields(ctx context.Context, doc domain.DocumentInput, docType domain.DocumentType) (domain.FieldExtraction, error) {
	cfg, ok := domain.LookupDocType(docType)
	if !ok {
		return domain.FieldExtraction{}, domain.WrapError(domain.ErrInvalidInput, "extract fields", fmt.Errorf("no field configuration for %q", docType))
	}

	reply, err := f.client.generate(ctx, []part{
		{Text: buildFieldExtractionPrompt(cfg)},
		documentPart(doc),
	})
	if err != nil {
		return domain.FieldExtraction{}, err
	}

	fields, ok := decodeReply[map[string]any](reply)
	if !ok {
		return domain.FieldExtraction{
			Success: false,
			Fields:  map[string]any{},
			Error:   "model reply did not contain a JSON object",
		}, nil
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return domain.FieldExtraction{Success: true, Fields: fields}, nil
}

func documentPart(doc domain.DocumentInput) part {
	return part{InlineData: &inlineData{
		MimeType: doc.MimeType,
		Data:     doc.EncodedContent(),
	}}
}
