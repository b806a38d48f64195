package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// ParseModelOutput validates and decodes a model response into the
// per-language content shape. Code fences around the JSON are tolerated.
func ParseModelOutput(raw string) (*studiogen.LanguageContent, error) {
	trimmed := stripCodeFence(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil, errors.New("model returned empty output")
	}

	var content studiogen.LanguageContent
	if err := json.Unmarshal([]byte(trimmed), &content); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if content.Title == "" {
		return nil, errors.New("model output missing title")
	}
	return &content, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// RenderPreview converts a generated markdown body to HTML for the panel's
// preview pane.
func RenderPreview(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}
