package usecase

import (
	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

type noopRecorder struct{}

func (noopRecorder) RecordDocument(domain.VerificationStatus, domain.AnalysisMethod) {}
func (noopRecorder) RecordBatch(domain.OverallStatus)                               {}
func (noopRecorder) RecordAutoVerify(domain.AutoVerifyDecision)                     {}

func recorderOrNoop(r ports.PipelineRecorder) ports.PipelineRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
