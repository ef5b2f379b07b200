package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func TestProcessByIDSuccess(t *testing.T) {
	repo := &batchRepoFake{batch: &domain.VerificationBatch{
		ID:         "batch-1",
		AgencyName: "Acme Corp PH",
		Documents: []domain.BatchDocument{
			{ID: "d1", Filename: "sec.pdf", MimeType: "application/pdf", StorageKey: "k1"},
		},
	}}
	storage := &storageFake{files: map[string]string{"k1": "%PDF-1.7"}}
	uc := NewProcessVerificationUseCase(repo, storage, NewVerifier(&extractorFake{}, &analyzerFake{}, nil, 1))

	if err := uc.ProcessByID(context.Background(), "batch-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.BatchProcessing || repo.statusCalls[1].status != domain.BatchCompleted {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.saved == nil || len(repo.saved.Documents) != 1 {
		t.Fatalf("expected saved result with one document, got %+v", repo.saved)
	}
}

func TestProcessByIDMarksFailedOnMissingStoredDocument(t *testing.T) {
	repo := &batchRepoFake{batch: &domain.VerificationBatch{
		ID:        "batch-1",
		Documents: []domain.BatchDocument{{ID: "d1", MimeType: "application/pdf", StorageKey: "missing"}},
	}}
	uc := NewProcessVerificationUseCase(repo, &storageFake{}, NewVerifier(&extractorFake{}, &analyzerFake{}, nil, 1))

	if err := uc.ProcessByID(context.Background(), "batch-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.BatchFailed {
		t.Fatalf("expected processing + failed status updates, got %+v", repo.statusCalls)
	}
	if repo.statusCalls[1].errMsg == "" {
		t.Fatalf("expected failure message recorded")
	}
}

type blockingExtractor struct{}

func (blockingExtractor) Extract(ctx context.Context, _ domain.DocumentInput, _ domain.ProcessorKind) (*domain.ExtractionResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProcessByIDMarksFailedWhenDeadlineExpires(t *testing.T) {
	repo := &batchRepoFake{
		respectCtx: true,
		batch: &domain.VerificationBatch{
			ID:        "batch-1",
			Documents: []domain.BatchDocument{{ID: "d1", MimeType: "application/pdf", StorageKey: "k1"}},
		},
	}
	storage := &storageFake{files: map[string]string{"k1": "%PDF-1.7"}}
	uc := NewProcessVerificationUseCase(repo, storage, NewVerifier(blockingExtractor{}, &analyzerFake{}, nil, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := uc.ProcessByID(ctx, "batch-1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.BatchFailed {
		t.Fatalf("expected processing + failed status updates, got %+v", repo.statusCalls)
	}
	if repo.saved != nil {
		t.Fatalf("interrupted batch must not store a result, got %+v", repo.saved)
	}
}

func TestProcessByIDCompletesAfterCallerCancels(t *testing.T) {
	repo := &batchRepoFake{
		respectCtx: true,
		batch: &domain.VerificationBatch{
			ID:        "batch-1",
			Documents: []domain.BatchDocument{{ID: "d1", Filename: "sec.pdf", MimeType: "application/pdf", StorageKey: "k1"}},
		},
	}
	storage := &storageFake{files: map[string]string{"k1": "%PDF-1.7"}}
	ctx, cancel := context.WithCancel(context.Background())
	verifier := cancellingVerifier{cancel: cancel, next: NewVerifier(&extractorFake{}, &analyzerFake{}, nil, 1)}
	uc := NewProcessVerificationUseCase(repo, storage, verifier)

	err := uc.ProcessByID(ctx, "batch-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.BatchFailed {
		t.Fatalf("expected failed status after cancellation, got %+v", repo.statusCalls)
	}
}

// cancellingVerifier cancels the caller's context once verification finishes.
type cancellingVerifier struct {
	cancel context.CancelFunc
	next   *Verifier
}

func (v cancellingVerifier) Verify(ctx context.Context, agencyName string, docs []domain.DocumentInput) (*domain.AggregateVerification, error) {
	result, err := v.next.Verify(ctx, agencyName, docs)
	v.cancel()
	return result, err
}
