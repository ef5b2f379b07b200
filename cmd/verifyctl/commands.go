package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
	"github.com/kirillkom/recruitment-docverify/internal/core/usecase"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/report/xlsx"
)

func verifyCmd() *cobra.Command {
	var (
		agency   string
		types    []string
		xlsxPath string
	)
	cmd := &cobra.Command{
		Use:   "verify FILE...",
		Short: "Verify an agency's business documents and cross-reference them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(types) > len(args) {
				return fmt.Errorf("got %d --type values for %d files", len(types), len(args))
			}
			docs := make([]domain.DocumentInput, 0, len(args))
			for i, path := range args {
				var docType domain.DocumentType
				if i < len(types) {
					docType = domain.ParseDocumentType(types[i])
					if docType == domain.DocTypeUnknown {
						return fmt.Errorf("unknown document type %q", types[i])
					}
				}
				doc, err := readDocument(path, docType)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			pipeline, err := newPipeline(config.Load())
			if err != nil {
				return err
			}
			result, err := pipeline.Verifier.Verify(cmd.Context(), agency, docs)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				filenames := make([]string, len(docs))
				for i, doc := range docs {
					filenames[i] = doc.Filename
				}
				if err := writeReport(xlsxPath, xlsx.Report{
					BatchID:     "local",
					AgencyName:  agency,
					Filenames:   filenames,
					Result:      *result,
					GeneratedAt: time.Now().UTC(),
				}); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&agency, "agency", "", "Agency name to cross-reference against")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Expected document type per file, in file order")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the report as an .xlsx workbook")
	return cmd
}

func writeReport(path string, report xlsx.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := xlsx.Write(f, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE",
		Short: "Classify an onboarding document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], "")
			if err != nil {
				return err
			}
			pipeline, err := newPipeline(config.Load())
			if err != nil {
				return err
			}
			classification, err := pipeline.Classifier.Classify(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), classification)
		},
	}
}

// knownTypeClassifier stands in for the vendor classifier when the operator
// already knows the document type.
type knownTypeClassifier struct {
	docType domain.DocumentType
}

func (c knownTypeClassifier) Classify(context.Context, domain.DocumentInput) (domain.ClassificationResult, error) {
	return domain.ClassificationResult{DocumentType: c.docType, Confidence: 1}, nil
}

func extractCmd() *cobra.Command {
	var docTypeFlag string
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract onboarding fields and evaluate the auto-verify gate",
		Long: "Classifies the document, extracts the fields of its type and prints the auto-verify decision.\n" +
			"With --type the classification step is skipped and treated as certain.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], "")
			if err != nil {
				return err
			}
			pipeline, err := newPipeline(config.Load())
			if err != nil {
				return err
			}

			var classifier ports.DocumentClassifier = pipeline.Classifier
			if docTypeFlag != "" {
				docType := domain.ParseDocumentType(docTypeFlag)
				if _, ok := domain.LookupDocType(docType); !ok {
					return fmt.Errorf("unknown onboarding document type %q", docTypeFlag)
				}
				classifier = knownTypeClassifier{docType: docType}
			}

			onboarding := usecase.NewOnboardingUseCase(classifier, pipeline.FieldExtractor, nil, nil, pipeline.Policy)
			assessment, err := onboarding.Assess(cmd.Context(), doc, "")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), assessment)
		},
	}
	cmd.Flags().StringVar(&docTypeFlag, "type", "", "Skip classification and extract fields for this type")
	return cmd
}
