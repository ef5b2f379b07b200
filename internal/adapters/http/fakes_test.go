package httpadapter

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

type submitterFake struct {
	mu  sync.Mutex
	got []domain.VerificationRequest
	err error
}

func (f *submitterFake) Submit(_ context.Context, req domain.VerificationRequest) (*domain.VerificationBatch, error) {
	f.mu.Lock()
	f.got = append(f.got, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now().UTC()
	return &domain.VerificationBatch{
		ID:         "b-1",
		AgencyName: req.AgencyName,
		Status:     domain.BatchPending,
		Documents:  []domain.BatchDocument{{ID: "d-1", MimeType: "application/pdf"}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

type runnerFake struct {
	err error
}

func (f runnerFake) Run(_ context.Context, req domain.VerificationRequest) (*domain.VerificationBatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return completedBatch(req.AgencyName), nil
}

type readerFake struct {
	batches map[string]*domain.VerificationBatch
}

func (f readerFake) GetBatch(_ context.Context, id string) (*domain.VerificationBatch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get verification batch", context.Canceled)
	}
	return batch, nil
}

type onboardingFake struct {
	got domain.OnboardingRequest
	err error
}

func (f *onboardingFake) Process(_ context.Context, req domain.OnboardingRequest) (*domain.OnboardingDocument, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OnboardingDocument{
		ID:             "o-1",
		CandidateID:    req.CandidateID,
		Classification: domain.ClassificationResult{DocumentType: domain.DocTypeValidID, Confidence: 0.9},
		Extraction:     domain.FieldExtraction{Success: true, Fields: map[string]any{"full_name": "Juan"}},
		Decision:       domain.AutoVerifyDecision{CanAutoVerify: true},
		Status:         domain.OnboardingAutoVerified,
		Points:         15,
	}, nil
}

func completedBatch(agency string) *domain.VerificationBatch {
	name := "ACME CORP PH"
	return &domain.VerificationBatch{
		ID:         "done",
		AgencyName: agency,
		Status:     domain.BatchCompleted,
		Documents:  []domain.BatchDocument{{ID: "d-1", Filename: "sec.pdf", MimeType: "application/pdf"}},
		Result: &domain.AggregateVerification{
			OverallStatus:        domain.OverallVerified,
			Documents:            []domain.VerificationResult{{CompanyName: &name, Status: domain.VerificationValid, Confidence: 0.9}},
			CrossReferenceIssues: []string{},
			Summary:              "Processed 1 document(s): 1 valid, 0 suspicious, 0 unreadable. No cross-reference issues found.",
		},
	}
}

type testServices struct {
	submitter  *submitterFake
	onboarding *onboardingFake
	services   Services
}

func newTestServices() testServices {
	submitter := &submitterFake{}
	onboarding := &onboardingFake{}
	return testServices{
		submitter:  submitter,
		onboarding: onboarding,
		services: Services{
			Submitter: submitter,
			Runner:    runnerFake{},
			Reader: readerFake{batches: map[string]*domain.VerificationBatch{
				"done":    completedBatch("Acme Corp PH"),
				"pending": {ID: "pending", Status: domain.BatchPending},
			}},
			Onboarding: onboarding,
		},
	}
}

func newTestHandler(t *testing.T, cfg config.Config, services Services) http.Handler {
	t.Helper()
	router, err := NewRouter(cfg, services, nil)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return router.Handler()
}
