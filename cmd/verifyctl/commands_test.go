package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/recruitment-docverify/internal/bootstrap"
	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/usecase"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/extractor/pattern"
)

const permitText = "BUSINESS PERMIT\nBusiness Name: ACME CORP PH\nRegistration No: CS2019-0042\nTIN 123-456-789-000\n"

type staticExtractor struct {
	text string
}

func (e staticExtractor) Extract(context.Context, domain.DocumentInput, domain.ProcessorKind) (*domain.ExtractionResult, error) {
	return &domain.ExtractionResult{Text: e.text, PageCount: 1, Entities: []domain.Entity{}, FormFields: []domain.FormField{}}, nil
}

type staticClassifier struct {
	result domain.ClassificationResult
	err    error
}

func (c staticClassifier) Classify(context.Context, domain.DocumentInput) (domain.ClassificationResult, error) {
	return c.result, c.err
}

type staticFieldExtractor struct {
	fields map[string]any
}

func (e staticFieldExtractor) ExtractFields(context.Context, domain.DocumentInput, domain.DocumentType) (domain.FieldExtraction, error) {
	return domain.FieldExtraction{Success: true, Fields: e.fields}, nil
}

func useFakePipeline(t *testing.T, pipeline *bootstrap.Pipeline) {
	t.Helper()
	previous := newPipeline
	newPipeline = func(config.Config) (*bootstrap.Pipeline, error) { return pipeline, nil }
	t.Cleanup(func() { newPipeline = previous })
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReadDocumentDetectsMimeType(t *testing.T) {
	pdf := writeTempFile(t, "permit.pdf", []byte("%PDF-1.7 body"))
	doc, err := readDocument(pdf, domain.DocTypeMayorsPermit)
	if err != nil {
		t.Fatalf("readDocument() error = %v", err)
	}
	if doc.MimeType != "application/pdf" || doc.Filename != "permit.pdf" || doc.Type != domain.DocTypeMayorsPermit {
		t.Fatalf("unexpected document: %+v", doc)
	}

	png := writeTempFile(t, "scan", []byte("\x89PNG\r\n\x1a\n0000"))
	doc, err = readDocument(png, "")
	if err != nil {
		t.Fatalf("readDocument() error = %v", err)
	}
	if doc.MimeType != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", doc.MimeType)
	}
}

func TestReadDocumentRejectsEmptyFile(t *testing.T) {
	if _, err := readDocument(writeTempFile(t, "empty.pdf", nil), ""); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestVerifyCommandPrintsResultAndWritesWorkbook(t *testing.T) {
	useFakePipeline(t, &bootstrap.Pipeline{
		Verifier: usecase.NewVerifier(staticExtractor{text: permitText}, pattern.NewAnalyzer(), nil, 1),
		Policy:   domain.DefaultAutoVerifyPolicy(),
	})
	input := writeTempFile(t, "permit.pdf", []byte("%PDF-1.7 body"))
	reportPath := filepath.Join(t.TempDir(), "report.xlsx")

	out, err := runRoot(t, "verify", "--agency", "ACME CORP PH", "--type", "mayors_permit", "--xlsx", reportPath, input)
	if err != nil {
		t.Fatalf("verify error = %v", err)
	}

	var result domain.AggregateVerification
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.OverallStatus != domain.OverallVerified || len(result.Documents) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Documents[0].Method != domain.MethodPatternFallback {
		t.Fatalf("expected pattern fallback method, got %q", result.Documents[0].Method)
	}

	f, err := excelize.OpenFile(reportPath)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Documents", "B2"); got != "permit.pdf" {
		t.Fatalf("unexpected filename cell %q", got)
	}
}

func TestVerifyCommandRejectsUnknownType(t *testing.T) {
	useFakePipeline(t, &bootstrap.Pipeline{})
	input := writeTempFile(t, "permit.pdf", []byte("%PDF-1.7 body"))

	if _, err := runRoot(t, "verify", "--type", "passport", input); err == nil {
		t.Fatalf("expected error for unknown document type")
	}
}

func TestExtractCommandEvaluatesGate(t *testing.T) {
	useFakePipeline(t, &bootstrap.Pipeline{
		Classifier: staticClassifier{result: domain.ClassificationResult{DocumentType: domain.DocTypeValidID, Confidence: 0.85}},
		FieldExtractor: staticFieldExtractor{fields: map[string]any{
			"full_name": "Juan Dela Cruz",
			"id_number": "N01-23-456789",
		}},
		Policy: domain.DefaultAutoVerifyPolicy(),
	})
	input := writeTempFile(t, "id.jpg", []byte("\xff\xd8\xff\xe0jpeg"))

	out, err := runRoot(t, "extract", input)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var got usecase.OnboardingAssessment
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !got.Decision.CanAutoVerify {
		t.Fatalf("expected auto-verify at the inclusive thresholds, got %+v", got.Decision)
	}
}

func TestExtractCommandSkipsUnknownClassification(t *testing.T) {
	useFakePipeline(t, &bootstrap.Pipeline{
		Classifier:     staticClassifier{result: domain.UnknownClassification()},
		FieldExtractor: staticFieldExtractor{},
		Policy:         domain.DefaultAutoVerifyPolicy(),
	})
	input := writeTempFile(t, "blob.pdf", []byte("%PDF-1.7"))

	out, err := runRoot(t, "extract", input)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var got usecase.OnboardingAssessment
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Extraction.Success || got.Decision.CanAutoVerify {
		t.Fatalf("unexpected output: %+v", got)
	}
}

func TestExtractCommandDegradesClassifierFailure(t *testing.T) {
	useFakePipeline(t, &bootstrap.Pipeline{
		Classifier:     staticClassifier{err: domain.WrapError(domain.ErrVendor, "gemini generate", errors.New("status 503"))},
		FieldExtractor: staticFieldExtractor{},
		Policy:         domain.DefaultAutoVerifyPolicy(),
	})
	input := writeTempFile(t, "id.jpg", []byte("\xff\xd8\xff\xe0jpeg"))

	out, err := runRoot(t, "extract", input)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var got usecase.OnboardingAssessment
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Classification.DocumentType != domain.DocTypeUnknown || got.Decision.CanAutoVerify {
		t.Fatalf("expected unknown classification deferred to review, got %+v", got)
	}
}

func TestExtractCommandWithTypeSkipsClassifier(t *testing.T) {
	useFakePipeline(t, &bootstrap.Pipeline{
		Classifier: staticClassifier{err: errors.New("classifier must not be called")},
		FieldExtractor: staticFieldExtractor{fields: map[string]any{
			"full_name": "Juan Dela Cruz",
			"id_number": "N01-23-456789",
		}},
		Policy: domain.DefaultAutoVerifyPolicy(),
	})
	input := writeTempFile(t, "id.jpg", []byte("\xff\xd8\xff\xe0jpeg"))

	out, err := runRoot(t, "extract", "--type", "valid_id", input)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var got usecase.OnboardingAssessment
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Classification.DocumentType != domain.DocTypeValidID || !got.Decision.CanAutoVerify {
		t.Fatalf("unexpected assessment: %+v", got)
	}
}
