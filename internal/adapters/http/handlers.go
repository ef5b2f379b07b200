package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/report/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type documentPayload struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

func (p documentPayload) toInput() domain.DocumentInput {
	return domain.DocumentInput{
		Filename: p.Filename,
		MimeType: p.MimeType,
		Type:     domain.DocumentType(p.Type),
		Base64:   p.Content,
	}
}

type verificationRequestBody struct {
	AgencyID   string            `json:"agency_id"`
	AgencyName string            `json:"agency_name"`
	Documents  []documentPayload `json:"documents"`
}

func (b verificationRequestBody) toRequest() domain.VerificationRequest {
	docs := make([]domain.DocumentInput, 0, len(b.Documents))
	for _, doc := range b.Documents {
		docs = append(docs, doc.toInput())
	}
	return domain.VerificationRequest{
		AgencyID:   b.AgencyID,
		AgencyName: b.AgencyName,
		Documents:  docs,
	}
}

type onboardingRequestBody struct {
	CandidateID  string          `json:"candidate_id"`
	ExpectedType string          `json:"expected_type"`
	Document     documentPayload `json:"document"`
}

func (rt *Router) submitVerification(w http.ResponseWriter, r *http.Request) {
	var body verificationRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	batch, err := rt.services.Submitter.Submit(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, batch)
}

func (rt *Router) runVerification(w http.ResponseWriter, r *http.Request) {
	var body verificationRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	batch, err := rt.services.Runner.Run(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (rt *Router) getVerification(w http.ResponseWriter, r *http.Request) {
	batch, err := rt.services.Reader.GetBatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (rt *Router) getVerificationReport(w http.ResponseWriter, r *http.Request) {
	batch, err := rt.services.Reader.GetBatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if batch.Result == nil {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     fmt.Sprintf("batch is %s; report is available once completed", batch.Status),
			RequestID: requestIDFromContext(r.Context()),
		})
		return
	}

	report, err := xlsx.ReportFromBatch(batch, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="verification-%s.xlsx"`, batch.ID))
	if err := xlsx.Write(w, report); err != nil {
		slog.Error("verification_report_failed", "batch_id", batch.ID, "error", err)
	}
}

func (rt *Router) processOnboardingDocument(w http.ResponseWriter, r *http.Request) {
	var body onboardingRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	doc, err := rt.services.Onboarding.Process(r.Context(), domain.OnboardingRequest{
		CandidateID:  body.CandidateID,
		ExpectedType: domain.DocumentType(body.ExpectedType),
		Document:     body.Document.toInput(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: "invalid json body", RequestID: requestIDFromContext(r.Context())})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	requestID := requestIDFromContext(r.Context())
	message := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_failed", "request_id", requestID, "path", r.URL.Path, "error", err)
		if status == http.StatusInternalServerError {
			message = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Error: message, RequestID: requestID})
}
