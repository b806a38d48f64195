package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// Mock is a deterministic generator for tests and local runs; it calls no
// external model.
type Mock struct{}

var _ studiogen.ContentGenerator = Mock{}

func (Mock) GenerateLanguage(_ context.Context, req studiogen.LanguageRequest) (*studiogen.LanguageContent, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", req.Topic))
	sb.WriteString(fmt.Sprintf("An overview of **%s** in %s.\n\n", req.Topic, req.Language))
	sb.WriteString("## Background\n\n")
	sb.WriteString("> A relevant quote sets the scene.\n\n")
	sb.WriteString("Closing thoughts with *light emphasis*.\n")

	content := &studiogen.LanguageContent{
		Title:   fmt.Sprintf("%s (%s)", req.Topic, req.Language),
		Excerpt: fmt.Sprintf("A short look at %s.", req.Topic),
		Body:    sb.String(),
		Tags:    append([]string{"mock"}, req.Keywords...),
	}
	if req.IncludeSEO {
		content.SEO = &studiogen.LanguageSEO{
			MetaTitle:       content.Title,
			MetaDescription: content.Excerpt,
		}
	}
	return content, nil
}
