package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

// PipelineMetrics counts verification and onboarding outcomes and vendor calls.
type PipelineMetrics struct {
	service string

	documentsTotal  *prometheus.CounterVec
	batchesTotal    *prometheus.CounterVec
	autoVerifyTotal *prometheus.CounterVec
	vendorCalls     *prometheus.CounterVec
	vendorDuration  *prometheus.HistogramVec
}

func NewPipelineMetrics(service string, registerer prometheus.Registerer) *PipelineMetrics {
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Verified documents by status and analysis method.",
		},
		[]string{"service", "status", "method"},
	)
	batchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "batches_total",
			Help:      "Aggregated verification batches by overall status.",
		},
		[]string{"service", "overall_status"},
	)
	autoVerifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "auto_verify_total",
			Help:      "Onboarding auto-verify decisions.",
		},
		[]string{"service", "decision"},
	)
	vendorCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "vendor_calls_total",
			Help:      "External vendor calls by outcome.",
		},
		[]string{"service", "vendor", "outcome"},
	)
	vendorDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "vendor_call_duration_seconds",
			Help:      "External vendor call latency including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"service", "vendor"},
	)

	registerer.MustRegister(documentsTotal, batchesTotal, autoVerifyTotal, vendorCalls, vendorDuration)

	return &PipelineMetrics{
		service:         service,
		documentsTotal:  documentsTotal,
		batchesTotal:    batchesTotal,
		autoVerifyTotal: autoVerifyTotal,
		vendorCalls:     vendorCalls,
		vendorDuration:  vendorDuration,
	}
}

func (m *PipelineMetrics) RecordDocument(status domain.VerificationStatus, method domain.AnalysisMethod) {
	m.documentsTotal.WithLabelValues(m.service, string(status), string(method)).Inc()
}

func (m *PipelineMetrics) RecordBatch(status domain.OverallStatus) {
	m.batchesTotal.WithLabelValues(m.service, string(status)).Inc()
}

func (m *PipelineMetrics) RecordAutoVerify(decision domain.AutoVerifyDecision) {
	label := "manual_review"
	if decision.CanAutoVerify {
		label = "auto_verified"
	}
	m.autoVerifyTotal.WithLabelValues(m.service, label).Inc()
}

func (m *PipelineMetrics) ObserveVendorCall(vendor, outcome string, duration time.Duration) {
	m.vendorCalls.WithLabelValues(m.service, vendor, outcome).Inc()
	m.vendorDuration.WithLabelValues(m.service, vendor).Observe(duration.Seconds())
}
