package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
	"github.com/kirillkom/recruitment-docverify/internal/core/usecase"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/extractor/pattern"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/googleauth"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/ocr/documentai"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/queue/nats"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/resilience"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/recruitment-docverify/internal/observability/metrics"
)

// Pipeline is the vendor-facing part of the service. It needs no database and
// is shared by the API, the worker and the CLI.
type Pipeline struct {
	Verifier       *usecase.Verifier
	Classifier     ports.DocumentClassifier
	FieldExtractor ports.FieldExtractor
	Policy         domain.AutoVerifyPolicy
	Metrics        *metrics.PipelineMetrics
}

// NewPipeline wires token provider, OCR and LLM adapters. Without a Gemini key
// verification falls back to pattern analysis.
func NewPipeline(cfg config.Config, registerer prometheus.Registerer) (*Pipeline, error) {
	policy, err := config.LoadAutoVerifyPolicy(cfg.AutoVerifyPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load auto-verify policy: %w", err)
	}

	pipelineMetrics := metrics.NewPipelineMetrics("docverify", registerer)
	vendorExecutor := resilience.NewExecutor(vendorResilienceConfig(cfg))

	tokens := googleauth.New(cfg.GoogleServiceAccountKey, googleauth.Options{
		TokenURL:           cfg.GoogleTokenURL,
		Timeout:            cfg.VendorTimeout,
		ResilienceExecutor: vendorExecutor,
	})
	ocr := documentai.New(documentai.Config{
		Endpoint:        cfg.DocumentAIEndpoint,
		ProjectID:       cfg.DocumentAIProjectID,
		Location:        cfg.DocumentAILocation,
		FormProcessorID: cfg.DocumentAIFormProcessorID,
		OCRProcessorID:  cfg.DocumentAIOCRProcessorID,
		Timeout:         cfg.VendorTimeout,
		Observer:        pipelineMetrics,
	}, tokens, vendorExecutor)

	llm := gemini.New(gemini.Config{
		BaseURL:         cfg.GeminiBaseURL,
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
		Timeout:         cfg.VendorTimeout,
		Observer:        pipelineMetrics,
	})

	var analyzer ports.VerificationAnalyzer
	if llm.Configured() {
		analyzer = gemini.NewAnalyzer(llm)
	} else {
		slog.Warn("gemini_key_missing", "fallback", string(domain.MethodPatternFallback))
		analyzer = pattern.NewAnalyzer()
	}

	return &Pipeline{
		Verifier:       usecase.NewVerifier(ocr, analyzer, pipelineMetrics, cfg.VerifyConcurrency),
		Classifier:     gemini.NewClassifier(llm),
		FieldExtractor: gemini.NewFieldExtractor(llm),
		Policy:         policy,
		Metrics:        pipelineMetrics,
	}, nil
}

func vendorResilienceConfig(cfg config.Config) resilience.Config {
	out := resilience.DefaultConfig()
	if cfg.VendorRetryMaxAttempts > 0 {
		out.RetryMaxAttempts = cfg.VendorRetryMaxAttempts
	}
	out.BreakerEnabled = cfg.VendorBreakerEnabled
	return out
}

type App struct {
	Config   config.Config
	Pipeline *Pipeline

	Queue         ports.MessageQueue
	Verifications ports.VerificationRepository

	SubmitUC     ports.VerificationSubmitter
	RunUC        ports.VerificationRunner
	ProcessUC    ports.VerificationProcessor
	OnboardingUC ports.OnboardingDocumentProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, registerer prometheus.Registerer) (*App, error) {
	pipeline, err := NewPipeline(cfg, registerer)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	verifications := postgres.NewVerificationRepository(db)
	onboarding := postgres.NewOnboardingRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &App{
		Config:        cfg,
		Pipeline:      pipeline,
		Queue:         queue,
		Verifications: verifications,

		SubmitUC:     usecase.NewSubmitVerificationUseCase(verifications, storage, queue),
		RunUC:        usecase.NewRunVerificationUseCase(verifications, pipeline.Verifier),
		ProcessUC:    usecase.NewProcessVerificationUseCase(verifications, storage, pipeline.Verifier),
		OnboardingUC: usecase.NewOnboardingUseCase(pipeline.Classifier, pipeline.FieldExtractor, onboarding, pipeline.Metrics, pipeline.Policy),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
