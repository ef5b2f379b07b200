package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

type OnboardingRepository struct {
	db *sql.DB
}

func NewOnboardingRepository(db *sql.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

func (r *OnboardingRepository) SaveOnboardingDocument(ctx context.Context, doc *domain.OnboardingDocument) error {
	classificationJSON, err := json.Marshal(doc.Classification)
	if err != nil {
		return fmt.Errorf("marshal classification: %w", err)
	}
	extractionJSON, err := json.Marshal(doc.Extraction)
	if err != nil {
		return fmt.Errorf("marshal extraction: %w", err)
	}
	decisionJSON, err := json.Marshal(doc.Decision)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO onboarding_documents (
	id, candidate_id, filename, mime_type, document_type, classification, extraction, decision, status, points, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		doc.ID, doc.CandidateID, doc.Filename, doc.MimeType, string(doc.Classification.DocumentType),
		classificationJSON, extractionJSON, decisionJSON, string(doc.Status), doc.Points, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert onboarding document: %w", err)
	}
	return nil
}
