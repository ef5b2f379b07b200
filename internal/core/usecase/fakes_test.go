package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func strPtr(s string) *string { return &s }

// extractorFake returns the document filename as extracted text unless an error
// is registered for that filename.
type extractorFake struct {
	mu    sync.Mutex
	errs  map[string]error
	calls []string
}

func (f *extractorFake) Extract(_ context.Context, doc domain.DocumentInput, _ domain.ProcessorKind) (*domain.ExtractionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, doc.Filename)
	f.mu.Unlock()
	if err, ok := f.errs[doc.Filename]; ok {
		return nil, err
	}
	return &domain.ExtractionResult{Text: doc.Filename, PageCount: 1}, nil
}

// analyzerFake returns a canned result keyed by the extracted text.
type analyzerFake struct {
	results map[string]domain.VerificationResult
}

func (f *analyzerFake) Analyze(_ context.Context, extraction *domain.ExtractionResult, hints domain.AnalysisHints) (domain.VerificationResult, error) {
	if res, ok := f.results[extraction.Text]; ok {
		return res, nil
	}
	return domain.VerificationResult{
		DocumentType: hints.ExpectedType,
		Status:       domain.VerificationValid,
		Confidence:   0.9,
		Issues:       []string{},
		Method:       domain.MethodAI,
	}, nil
}

type recorderFake struct {
	mu        sync.Mutex
	documents []domain.VerificationStatus
	batches   []domain.OverallStatus
	decisions []domain.AutoVerifyDecision
}

func (r *recorderFake) RecordDocument(status domain.VerificationStatus, _ domain.AnalysisMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append(r.documents, status)
}

func (r *recorderFake) RecordBatch(status domain.OverallStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, status)
}

func (r *recorderFake) RecordAutoVerify(decision domain.AutoVerifyDecision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, decision)
}

type statusCall struct {
	status domain.BatchStatus
	errMsg string
}

type batchRepoFake struct {
	batch       *domain.VerificationBatch
	getErr      error
	createErr   error
	saveErr     error
	respectCtx  bool
	created     *domain.VerificationBatch
	saved       *domain.AggregateVerification
	statusCalls []statusCall
}

func (f *batchRepoFake) CreateBatch(_ context.Context, batch *domain.VerificationBatch) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyBatch := *batch
	f.created = &copyBatch
	return nil
}

func (f *batchRepoFake) GetBatch(context.Context, string) (*domain.VerificationBatch, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyBatch := *f.batch
	return &copyBatch, nil
}

func (f *batchRepoFake) UpdateBatchStatus(ctx context.Context, _ string, status domain.BatchStatus, errMessage string) error {
	if f.respectCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	return nil
}

func (f *batchRepoFake) SaveBatchResult(ctx context.Context, _ string, result domain.AggregateVerification) error {
	if f.respectCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &result
	return nil
}

type storageFake struct {
	files   map[string]string
	saveErr error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.files == nil {
		f.files = map[string]string{}
	}
	f.files[key] = string(raw)
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.files[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

type queueFake struct {
	batchID string
	err     error
}

func (f *queueFake) PublishVerificationRequested(_ context.Context, batchID string) error {
	if f.err != nil {
		return f.err
	}
	f.batchID = batchID
	return nil
}

func (f *queueFake) SubscribeVerificationRequested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}
