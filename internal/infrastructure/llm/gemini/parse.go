package gemini

import (
	"encoding/json"
	"strings"
)

// stripCodeFence removes a surrounding Markdown code fence such as ```json.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		text = text[newline+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1], true
	}
	return "", false
}

// decodeReply unmarshals the model's JSON object. It reports false when the
// reply holds no parseable object, returning the zero value.
func decodeReply[T any](raw string) (T, bool) {
	var out T
	object, ok := extractJSONObject(stripCodeFence(raw))
	if !ok {
		return out, false
	}
	if err := json.Unmarshal([]byte(object), &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}
