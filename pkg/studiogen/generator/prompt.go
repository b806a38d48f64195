// Package generator implements the per-language content generation clients
// the orchestrator calls: the hosted collaborator endpoint, direct OpenAI
// and Gemini providers, and a deterministic mock.
package generator

import (
	"fmt"
	"strings"

	"github.com/caravanpress/studio/pkg/studiogen"
	"github.com/caravanpress/studio/pkg/studiogen/locale"
)

// Prompt is the message pair sent to a model provider.
type Prompt struct {
	System string
	User   string
}

var languageNames = map[locale.Code]string{
	locale.RO: "Romanian",
	locale.EN: "English",
	locale.PL: "Polish",
	locale.HU: "Hungarian",
	locale.CS: "Czech",
}

func wordTarget(length studiogen.Length) int {
	switch length {
	case studiogen.LengthShort:
		return 400
	case studiogen.LengthLong:
		return 1500
	default:
		return 800
	}
}

// BuildPrompt maps a single-language request onto a JSON-output prompt.
func BuildPrompt(req studiogen.LanguageRequest) Prompt {
	langName := languageNames[req.Language]
	if langName == "" {
		langName = string(req.Language)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a blog article in %s about: %s\n", langName, req.Topic))
	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- Target length around %d words (±15%%).\n", wordTarget(req.Length)))
	if req.Tone != "" {
		sb.WriteString(fmt.Sprintf("- Tone: %s.\n", req.Tone))
	}
	if len(req.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("- Work in these keywords naturally: %s.\n", strings.Join(req.Keywords, ", ")))
	}
	sb.WriteString("- Structure the body with markdown headings (#, ##, ###), quotes (>) and paragraphs.\n")
	sb.WriteString("- Use **bold** and *italic* for emphasis only where it helps.\n")
	if req.IncludeSEO {
		sb.WriteString("- Include an seo object with metaTitle (max 60 chars) and metaDescription (max 160 chars).\n")
	}

	schema := `{"title": string, "excerpt": string, "body": string (markdown), "tags": [string]`
	if req.IncludeSEO {
		schema += `, "seo": {"metaTitle": string, "metaDescription": string}`
	}
	schema += `}`
	sb.WriteString("Respond with a single JSON object matching: " + schema + "\n")

	return Prompt{
		System: "You are a professional multilingual content writer. Respond with valid JSON only, no surrounding prose or code fences.",
		User:   sb.String(),
	}
}
