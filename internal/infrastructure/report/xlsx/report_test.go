package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestWriteProducesReadableWorkbook(t *testing.T) {
	report := Report{
		BatchID:    "b-1",
		AgencyName: "Acme Corp PH",
		Filenames:  []string{"sec.pdf", "bir.pdf"},
		Result: domain.AggregateVerification{
			OverallStatus: domain.OverallNeedsReview,
			Documents: []domain.VerificationResult{
				{DocumentType: domain.DocTypeSECRegistration, CompanyName: strPtr("ACME CORP PH"), Status: domain.VerificationValid, Confidence: 0.9, Method: domain.MethodAI},
				{DocumentType: domain.DocTypeBIRCertificate, Status: domain.VerificationUnreadable, Issues: []string{"Failed to process document: boom", "second"}, Method: domain.MethodFailed},
			},
			CrossReferenceIssues: []string{"TIN mismatch across documents: 1, 2"},
			Summary:              "Processed 2 document(s)",
		},
		GeneratedAt: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := Write(&buf, report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(SummarySheet, "B3"); got != "needs_review" {
		t.Fatalf("unexpected overall status cell %q", got)
	}
	rows, err := f.GetRows(DocumentsSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus two documents, got %d rows", len(rows))
	}
	if rows[1][1] != "sec.pdf" || rows[1][6] != "ACME CORP PH" {
		t.Fatalf("unexpected first document row: %v", rows[1])
	}
	if rows[2][3] != "unreadable" || rows[2][12] != "Failed to process document: boom; second" {
		t.Fatalf("unexpected second document row: %v", rows[2])
	}
	if got, _ := f.GetCellValue(CrossReferenceSheet, "A2"); got != "TIN mismatch across documents: 1, 2" {
		t.Fatalf("unexpected cross-reference cell %q", got)
	}
}

func TestReportFromBatchRequiresResult(t *testing.T) {
	_, err := ReportFromBatch(&domain.VerificationBatch{ID: "b-1", Status: domain.BatchPending}, time.Now())
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
