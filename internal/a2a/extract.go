package a2a

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/statusteacher/statusteacher/pkg/models"
)

var (
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	codePattern = regexp.MustCompile(`\b\d{3}\b`)
)

// ExtractTexts walks parts depth-first in encounter order and returns every
// non-blank text with HTML-like tags removed. A part's own text comes before
// the texts nested in its data.
func ExtractTexts(parts []Part) []string {
	var out []string
	for _, p := range parts {
		out = appendPart(out, p)
	}
	return out
}

func appendPart(out []string, p Part) []string {
	if text := StripTags(p.Text); text != "" {
		out = append(out, text)
	}
	for _, child := range nestedParts(p.Data) {
		out = appendPart(out, child)
	}
	return out
}

// nestedParts decodes data as a list of parts or a single part. Anything
// else carries no text.
func nestedParts(data json.RawMessage) []Part {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil
		}
		parts := make([]Part, 0, len(list))
		for _, raw := range list {
			var p Part
			if err := json.Unmarshal(raw, &p); err == nil {
				parts = append(parts, p)
			}
		}
		return parts
	case '{':
		var p Part
		if err := json.Unmarshal(data, &p); err != nil {
			return nil
		}
		return []Part{p}
	default:
		return nil
	}
}

// StripTags removes <...> tags and surrounding whitespace.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// DetectStatusCode returns the first standalone three-digit number in text
// that is a valid status code.
func DetectStatusCode(text string) (int, bool) {
	for _, token := range codePattern.FindAllString(text, -1) {
		code, err := strconv.Atoi(token)
		if err == nil && models.ValidStatusCode(code) {
			return code, true
		}
	}
	return 0, false
}
