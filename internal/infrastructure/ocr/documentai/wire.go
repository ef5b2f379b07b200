package documentai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type processResponse struct {
	Document document `json:"document"`
}

type document struct {
	Text     string   `json:"text"`
	Pages    []page   `json:"pages"`
	Entities []entity `json:"entities"`
}

type page struct {
	FormFields []formField `json:"formFields"`
}

type formField struct {
	FieldName  *layout `json:"fieldName"`
	FieldValue *layout `json:"fieldValue"`
}

type layout struct {
	Text       string      `json:"text"`
	TextAnchor *textAnchor `json:"textAnchor"`
	Confidence float64     `json:"confidence"`
}

type textAnchor struct {
	TextSegments []textSegment `json:"textSegments"`
	Content      string        `json:"content"`
}

type textSegment struct {
	StartIndex flexInt `json:"startIndex"`
	EndIndex   flexInt `json:"endIndex"`
}

type entity struct {
	Type        string  `json:"type"`
	MentionText string  `json:"mentionText"`
	Confidence  float64 `json:"confidence"`
}

// flexInt decodes int64 values the vendor sends either as numbers or as
// decimal strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse offset %q: %w", s, err)
		}
		*f = flexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
