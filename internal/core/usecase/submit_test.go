package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func TestSubmitStoresDocumentsAndPublishes(t *testing.T) {
	repo := &batchRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewSubmitVerificationUseCase(repo, storage, queue)

	batch, err := uc.Submit(context.Background(), domain.VerificationRequest{
		AgencyID:   "agency-1",
		AgencyName: "Acme Corp PH",
		Documents: []domain.DocumentInput{{
			Filename: "sec cert.pdf",
			MimeType: "application/pdf",
			Type:     domain.DocTypeSECRegistration,
			Base64:   base64.StdEncoding.EncodeToString([]byte("hello")),
		}},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if batch.Status != domain.BatchPending {
		t.Fatalf("expected pending status, got %s", batch.Status)
	}
	if queue.batchID != batch.ID {
		t.Fatalf("expected queued batch id %s, got %s", batch.ID, queue.batchID)
	}
	key := batch.Documents[0].StorageKey
	if !strings.HasSuffix(key, "_sec_cert.pdf") {
		t.Fatalf("expected sanitized key suffix, got %s", key)
	}
	if storage.files[key] != "hello" {
		t.Fatalf("expected decoded body stored, got %q", storage.files[key])
	}
	if repo.created == nil || repo.created.ID != batch.ID {
		t.Fatalf("expected batch created")
	}
}

func TestSubmitRejectsInvalidBase64(t *testing.T) {
	uc := NewSubmitVerificationUseCase(&batchRepoFake{}, &storageFake{}, &queueFake{})

	_, err := uc.Submit(context.Background(), domain.VerificationRequest{
		Documents: []domain.DocumentInput{{MimeType: "application/pdf", Base64: "not base64!!"}},
	})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSubmitQueueError(t *testing.T) {
	uc := NewSubmitVerificationUseCase(&batchRepoFake{}, &storageFake{}, &queueFake{err: errors.New("queue down")})

	_, err := uc.Submit(context.Background(), domain.VerificationRequest{
		Documents: []domain.DocumentInput{{MimeType: "application/pdf", Data: []byte("pdf")}},
	})
	if err == nil || !strings.Contains(err.Error(), "publish verification event") {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestRunPersistsCompletedBatch(t *testing.T) {
	repo := &batchRepoFake{}
	uc := NewRunVerificationUseCase(repo, NewVerifier(&extractorFake{}, &analyzerFake{}, nil, 1))

	batch, err := uc.Run(context.Background(), domain.VerificationRequest{
		AgencyName: "Acme",
		Documents:  []domain.DocumentInput{{Filename: "a.pdf", MimeType: "application/pdf", Data: []byte("pdf")}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if batch.Status != domain.BatchCompleted || batch.Result == nil {
		t.Fatalf("expected completed batch with result, got %+v", batch)
	}
	if repo.created == nil {
		t.Fatalf("expected batch persisted")
	}
}
