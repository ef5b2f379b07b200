package usecase

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func validateRequest(req domain.VerificationRequest) error {
	if len(req.Documents) == 0 {
		return errors.New("at least one document is required")
	}
	for i, doc := range req.Documents {
		if err := validateDocument(doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}

func validateDocument(doc domain.DocumentInput) error {
	if strings.TrimSpace(doc.MimeType) == "" {
		return errors.New("mime type is required")
	}
	if doc.Base64 == "" && len(doc.Data) == 0 {
		return errors.New("content is required")
	}
	if doc.Base64 != "" {
		if _, err := base64.StdEncoding.DecodeString(doc.Base64); err != nil {
			return fmt.Errorf("content is not valid base64: %w", err)
		}
	}
	return nil
}

func decodeContent(doc domain.DocumentInput) ([]byte, error) {
	if doc.Base64 == "" {
		return doc.Data, nil
	}
	return base64.StdEncoding.DecodeString(doc.Base64)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
