package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
	"github.com/kirillkom/recruitment-docverify/internal/observability/metrics"
)

const (
	serviceName         = "docverify-api"
	maxRequestBodyBytes = 64 << 20
	backpressureWait    = 250 * time.Millisecond
)

// Services are the inbound use cases the API exposes.
type Services struct {
	Submitter  ports.VerificationSubmitter
	Runner     ports.VerificationRunner
	Reader     ports.VerificationReader
	Onboarding ports.OnboardingDocumentProcessor
}

type Router struct {
	services  Services
	metrics   *metrics.HTTPServerMetrics
	validator *requestValidator

	apiKey            string
	rateLimitRPS      float64
	rateLimitBurst    int
	maxInFlight       int
	backpressureDelay time.Duration
}

func NewRouter(cfg config.Config, services Services, httpMetrics *metrics.HTTPServerMetrics) (*Router, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("init request validator: %w", err)
	}
	return &Router{
		services:          services,
		metrics:           httpMetrics,
		validator:         validator,
		apiKey:            cfg.APIKey,
		rateLimitRPS:      cfg.APIRateLimitRPS,
		rateLimitBurst:    cfg.APIRateLimitBurst,
		maxInFlight:       cfg.APIMaxInFlight,
		backpressureDelay: backpressureWait,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPIDocument)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("POST /v1/verifications", rt.submitVerification)
	mux.HandleFunc("POST /v1/verifications/run", rt.runVerification)
	mux.HandleFunc("GET /v1/verifications/{id}", rt.getVerification)
	mux.HandleFunc("GET /v1/verifications/{id}/report.xlsx", rt.getVerificationReport)
	mux.HandleFunc("POST /v1/onboarding/documents", rt.processOnboardingDocument)

	var handler http.Handler = mux
	handler = rt.validator.middleware(handler)
	handler = apiKeyMiddleware(handler, rt.apiKey)
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureDelay, rt.recordRejected)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst, rt.recordRejected)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) recordRejected(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
