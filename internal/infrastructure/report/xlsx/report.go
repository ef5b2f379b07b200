package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

const (
	SummarySheet        = "Summary"
	DocumentsSheet      = "Documents"
	CrossReferenceSheet = "Cross-reference"
)

var documentHeader = []any{
	"#", "Filename", "Type", "Status", "Confidence", "Method",
	"Company name", "Registration no.", "TIN", "Date issued", "Expiry date", "Issuing authority", "Issues",
}

// Report is one verification batch rendered for reviewers.
type Report struct {
	BatchID     string
	AgencyName  string
	Filenames   []string
	Result      domain.AggregateVerification
	GeneratedAt time.Time
}

// ReportFromBatch fails for batches that have not completed.
func ReportFromBatch(batch *domain.VerificationBatch, now time.Time) (Report, error) {
	if batch == nil || batch.Result == nil {
		return Report{}, domain.WrapError(domain.ErrInvalidInput, "build report", fmt.Errorf("batch has no result yet"))
	}
	filenames := make([]string, len(batch.Documents))
	for i, doc := range batch.Documents {
		filenames[i] = doc.Filename
	}
	return Report{
		BatchID:     batch.ID,
		AgencyName:  batch.AgencyName,
		Filenames:   filenames,
		Result:      *batch.Result,
		GeneratedAt: now,
	}, nil
}

func Write(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{DocumentsSheet, CrossReferenceSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeSummary(f, report, headerStyle); err != nil {
		return err
	}
	if err := writeDocuments(f, report, headerStyle); err != nil {
		return err
	}
	if err := writeCrossReference(f, report, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report Report, headerStyle int) error {
	rows := [][]any{
		{"Batch ID", report.BatchID},
		{"Agency", report.AgencyName},
		{"Overall status", string(report.Result.OverallStatus)},
		{"Documents", len(report.Result.Documents)},
		{"Summary", report.Result.Summary},
		{"Generated at", report.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 18)
}

func writeDocuments(f *excelize.File, report Report, headerStyle int) error {
	if err := setRow(f, DocumentsSheet, 1, documentHeader); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(documentHeader), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(DocumentsSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style documents header: %w", err)
	}

	for i, doc := range report.Result.Documents {
		filename := ""
		if i < len(report.Filenames) {
			filename = report.Filenames[i]
		}
		row := []any{
			i + 1,
			filename,
			string(doc.DocumentType),
			string(doc.Status),
			doc.Confidence,
			string(doc.Method),
			deref(doc.CompanyName),
			deref(doc.RegistrationNumber),
			deref(doc.TINNumber),
			deref(doc.DateIssued),
			deref(doc.ExpiryDate),
			deref(doc.IssuingAuthority),
			strings.Join(doc.Issues, "; "),
		}
		if err := setRow(f, DocumentsSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(DocumentsSheet, "B", "M", 22)
}

func writeCrossReference(f *excelize.File, report Report, headerStyle int) error {
	if err := setRow(f, CrossReferenceSheet, 1, []any{"Issue"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(CrossReferenceSheet, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("style cross-reference header: %w", err)
	}
	for i, issue := range report.Result.CrossReferenceIssues {
		if err := setRow(f, CrossReferenceSheet, i+2, []any{issue}); err != nil {
			return err
		}
	}
	return f.SetColWidth(CrossReferenceSheet, "A", "A", 100)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
