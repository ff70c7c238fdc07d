package imagegen

import (
	"encoding/json"
	"fmt"

	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/redact"
)

// maxRawSnippet bounds how much of an unrecognized payload is carried in the
// error for diagnostics.
const maxRawSnippet = 512

// responseShapes is the ordered list of recognized vendor response shapes.
// Matchers run in this declared order and the first match wins; adding a new
// shape means appending here, never reordering, so existing detections stay
// stable. Each shape has a regression test keyed by its name.
var responseShapes = []struct {
	name  string
	match func(payload map[string]any) (string, bool)
}{
	{"data_array", matchDataArray},
	{"top_level_url", matchTopLevelURL},
	{"legacy_code_data", matchLegacyCodeData},
	{"output_field", matchOutputField},
}

// Normalize resolves a vendor's raw 2xx JSON payload into a single image URL
// or data URI, regardless of which of the observed response shapes the
// vendor used. It has no side effects.
//
// Returns an error wrapping generation.ErrMalformedResponse, carrying a
// truncated, redacted payload snippet, when no shape yields a URL.
func Normalize(body []byte) (string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", malformed(body)
	}

	for _, shape := range responseShapes {
		if url, ok := shape.match(payload); ok {
			return url, nil
		}
	}

	return "", malformed(body)
}

func malformed(body []byte) error {
	snippet := string(body)
	if len(snippet) > maxRawSnippet {
		snippet = snippet[:maxRawSnippet]
	}
	return fmt.Errorf("%w: %s", generation.ErrMalformedResponse, redact.String(snippet))
}

// matchDataArray handles `{"data": [{"url": ...}]}` and
// `{"data": [{"b64_json": ...}]}`. Inline base64 images become data URIs.
func matchDataArray(payload map[string]any) (string, bool) {
	items, ok := payload["data"].([]any)
	if !ok || len(items) == 0 {
		return "", false
	}

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if url, ok := entry["url"].(string); ok && url != "" {
			return url, true
		}
		if b64, ok := entry["b64_json"].(string); ok && b64 != "" {
			return "data:image/png;base64," + b64, true
		}
	}

	return "", false
}

// matchTopLevelURL handles `{"url": ...}`.
func matchTopLevelURL(payload map[string]any) (string, bool) {
	url, ok := payload["url"].(string)
	return url, ok && url != ""
}

// matchLegacyCodeData handles the legacy `{"code": 0, "data": {"image_url": ...}}`.
func matchLegacyCodeData(payload map[string]any) (string, bool) {
	code, ok := payload["code"].(float64)
	if !ok || code != 0 {
		return "", false
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return "", false
	}

	url, ok := data["image_url"].(string)
	return url, ok && url != ""
}

// matchOutputField handles `{"output": ...}` where output is a string URL, an
// object with a url field, or an array of either.
func matchOutputField(payload map[string]any) (string, bool) {
	output, present := payload["output"]
	if !present {
		return "", false
	}
	return resolveOutput(output)
}

func resolveOutput(output any) (string, bool) {
	switch v := output.(type) {
	case string:
		return v, v != ""
	case map[string]any:
		url, ok := v["url"].(string)
		return url, ok && url != ""
	case []any:
		for _, item := range v {
			if url, ok := resolveOutput(item); ok {
				return url, true
			}
		}
	}
	return "", false
}
