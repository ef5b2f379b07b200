package documentai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "documentai status error"
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("documentai %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("documentai %s status: %s: %s", e.Operation, e.Status, e.Message)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode documentai response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (e *Extractor) postJSON(ctx context.Context, url, token string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal process request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create process request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("documentai process request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("process", resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

// statusError prefers the vendor's error.message over the bare status text.
func statusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &envelope); err == nil {
		message = strings.TrimSpace(envelope.Error.Message)
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    message,
	}
}
