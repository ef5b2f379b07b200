package documentai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/resilience"
)

type Config struct {
	Endpoint        string
	ProjectID       string
	Location        string
	FormProcessorID string
	OCRProcessorID  string
	Timeout         time.Duration
	Observer        ports.VendorCallObserver
}

// Extractor calls the synchronous process endpoint and flattens the reply.
type Extractor struct {
	cfg        Config
	tokens     ports.AccessTokenProvider
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(cfg Config, tokens ports.AccessTokenProvider, executor *resilience.Executor) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Extractor{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

func (e *Extractor) Extract(ctx context.Context, doc domain.DocumentInput, processor domain.ProcessorKind) (*domain.ExtractionResult, error) {
	url, err := e.processURL(processor)
	if err != nil {
		return nil, err
	}

	token, err := e.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("documentai access token: %w", err)
	}

	payload := processRequest{
		RawDocument: rawDocument{
			Content:  doc.EncodedContent(),
			MimeType: doc.MimeType,
		},
	}
	started := time.Now()
	response, err := resilience.Call(ctx, e.executor, "documentai.process", func(callCtx context.Context) (*processResponse, error) {
		var out processResponse
		if err := e.postJSON(callCtx, url, token, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}, resilience.ClassifyVendorError)
	e.observe(err, time.Since(started))
	if err != nil {
		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			return nil, domain.WrapError(domain.ErrParse, "documentai process", err)
		}
		return nil, domain.WrapError(domain.ErrVendor, "documentai process", err)
	}

	return normalizeDocument(response.Document), nil
}

func (e *Extractor) observe(err error, elapsed time.Duration) {
	if e.cfg.Observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.cfg.Observer.ObserveVendorCall("documentai", outcome, elapsed)
}

func (e *Extractor) processURL(processor domain.ProcessorKind) (string, error) {
	var processorID string
	switch processor {
	case domain.ProcessorOCR:
		processorID = e.cfg.OCRProcessorID
	case domain.ProcessorForm, "":
		processorID = e.cfg.FormProcessorID
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "select processor", fmt.Errorf("unknown processor %q", processor))
	}
	if processorID == "" || e.cfg.ProjectID == "" {
		return "", domain.WrapError(
			domain.ErrConfiguration,
			"select processor",
			fmt.Errorf("project id and %s processor id must be configured", processor),
		)
	}

	location := e.cfg.Location
	if location == "" {
		location = "us"
	}
	return fmt.Sprintf(
		"%s/v1/projects/%s/locations/%s/processors/%s:process",
		e.cfg.Endpoint, e.cfg.ProjectID, location, processorID,
	), nil
}

func normalizeDocument(doc document) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		Text:       doc.Text,
		PageCount:  len(doc.Pages),
		Entities:   make([]domain.Entity, 0, len(doc.Entities)),
		FormFields: make([]domain.FormField, 0),
	}

	for _, page := range doc.Pages {
		for _, field := range page.FormFields {
			result.FormFields = append(result.FormFields, domain.FormField{
				FieldName:  strings.TrimSpace(resolveText(field.FieldName, doc.Text)),
				FieldValue: strings.TrimSpace(resolveText(field.FieldValue, doc.Text)),
				Confidence: fieldConfidence(field),
			})
		}
	}

	for _, entity := range doc.Entities {
		result.Entities = append(result.Entities, domain.Entity{
			Type:        entity.Type,
			MentionText: entity.MentionText,
			Confidence:  entity.Confidence,
		})
	}
	return result
}

func fieldConfidence(field formField) float64 {
	if field.FieldValue != nil && field.FieldValue.Confidence > 0 {
		return field.FieldValue.Confidence
	}
	if field.FieldName != nil {
		return field.FieldName.Confidence
	}
	return 0
}

// resolveText returns literal text when present, otherwise concatenates the
// anchor's segments sliced out of fullText by byte offset.
func resolveText(l *layout, fullText string) string {
	if l == nil {
		return ""
	}
	if l.Text != "" {
		return l.Text
	}
	if l.TextAnchor == nil {
		return ""
	}
	if l.TextAnchor.Content != "" {
		return l.TextAnchor.Content
	}

	var b strings.Builder
	for _, segment := range l.TextAnchor.TextSegments {
		start := clamp(int(segment.StartIndex), 0, len(fullText))
		end := clamp(int(segment.EndIndex), 0, len(fullText))
		if start >= end {
			continue
		}
		b.WriteString(fullText[start:end])
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
