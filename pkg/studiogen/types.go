package studiogen

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
	"github.com/caravanpress/studio/pkg/studiogen/locale"
	"github.com/caravanpress/studio/pkg/studiogen/richtext"
	"github.com/caravanpress/studio/pkg/studiogen/schema"
)

// Tone is the requested writing tone.
type Tone string

// Tone constants (typed).
const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
)

// Length is the requested article length.
type Length string

// Length constants (typed).
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// ImageSettings controls image handling for a generation run.
type ImageSettings struct {
	FeaturedImage       bool   `json:"featuredImage"`
	ImageKeywords       string `json:"imageKeywords,omitempty"`
	IncludeInlineImages bool   `json:"includeInlineImages"`
}

// GenerationRequest describes one document-generation run as submitted from
// the studio panel.
type GenerationRequest struct {
	Topic      string        `json:"topic"`
	CategoryID string        `json:"categoryId,omitempty"`
	Keywords   []string      `json:"keywords,omitempty"`
	Languages  []locale.Code `json:"languages"`
	Tone       Tone          `json:"tone"`
	Length     Length        `json:"length"`
	IncludeSEO bool          `json:"includeSeo"`
	Images     ImageSettings `json:"imageSettings"`
}

// Validate fails fast on requests that must never reach a network call.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	if len(r.Languages) == 0 {
		return ErrNoLanguages
	}
	for _, c := range r.Languages {
		if !locale.Valid(c) {
			return ErrUnsupportedLanguage
		}
	}
	return nil
}

// SEOContent carries per-language search metadata while content is being
// assembled.
type SEOContent struct {
	MetaTitle       locale.String `json:"metaTitle"`
	MetaDescription locale.Text   `json:"metaDescription"`
}

// GeneratedContent is built incrementally, one language at a time, and
// handed to the patch-assembly step; it is not persisted by this package.
type GeneratedContent struct {
	Title         locale.String      `json:"title"`
	Excerpt       locale.Text        `json:"excerpt"`
	Body          richtext.Localized `json:"body"`
	FeaturedImage *imagesearch.Image `json:"featuredImage,omitempty"`
	SEO           *SEOContent        `json:"seo,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
}

// LanguageRequest is a generation request narrowed to a single language.
type LanguageRequest struct {
	Topic      string      `json:"topic"`
	Language   locale.Code `json:"language"`
	Keywords   []string    `json:"keywords,omitempty"`
	Tone       Tone        `json:"tone"`
	Length     Length      `json:"length"`
	IncludeSEO bool        `json:"includeSeo"`
}

// LanguageContent is the generation endpoint's response for one language.
// Body is plain or markdown-like text; formatting into rich-text blocks
// happens locally afterwards.
type LanguageContent struct {
	Title   string       `json:"title"`
	Excerpt string       `json:"excerpt"`
	Body    string       `json:"body"`
	Tags    []string     `json:"tags,omitempty"`
	SEO     *LanguageSEO `json:"seo,omitempty"`
}

// LanguageSEO is the per-language SEO block returned by a generator.
type LanguageSEO struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

// LanguageResult records the outcome of one language's generation call.
// A failed language is skipped, not retried; Err is nil on success.
type LanguageResult struct {
	Language locale.Code
	Err      error
}

// Phase is the orchestrator's current workflow phase.
type Phase string

// Phase constants, in execution order.
const (
	PhaseIdle            Phase = "idle"
	PhaseValidating      Phase = "validating"
	PhaseSearchingImages Phase = "searching-images"
	PhaseGenerating      Phase = "generating"
	PhaseFormatting      Phase = "formatting"
	PhaseSaving          Phase = "saving"
	PhaseComplete        Phase = "complete"
	PhaseError           Phase = "error"
)

// Progress is a snapshot of an in-flight run, published by the orchestrator
// and read by the panel.
type Progress struct {
	RunID              uuid.UUID      `json:"runId"`
	Phase              Phase          `json:"phase"`
	CurrentLanguage    locale.Code    `json:"currentLanguage,omitempty"`
	CompletedLanguages []locale.Code  `json:"completedLanguages,omitempty"`
	Message            string         `json:"message,omitempty"`
	EstimatedRemaining *time.Duration `json:"estimatedRemaining,omitempty"`
}

// PatchPayload is the document patch assembled by a completed run. The
// orchestrator returns it to the caller; it never writes the document store
// itself.
type PatchPayload struct {
	Title       locale.String      `json:"title"`
	Slug        schema.Slug        `json:"slug"`
	Excerpt     locale.Text        `json:"excerpt"`
	Body        richtext.Localized `json:"body"`
	MainImage   *schema.Image      `json:"mainImage,omitempty"`
	Category    *schema.Reference  `json:"category,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	SEO         *schema.SEO        `json:"seo,omitempty"`
	PublishedAt time.Time          `json:"publishedAt"`
}

// Fields flattens the payload into the field map the patch mutation expects.
func (p *PatchPayload) Fields() map[string]any {
	fields := map[string]any{
		"title":       p.Title,
		"slug":        p.Slug,
		"excerpt":     p.Excerpt,
		"body":        p.Body,
		"publishedAt": p.PublishedAt,
	}
	if p.MainImage != nil {
		fields["mainImage"] = p.MainImage
	}
	if p.Category != nil {
		fields["category"] = p.Category
	}
	if len(p.Tags) > 0 {
		fields["tags"] = p.Tags
	}
	if p.SEO != nil {
		fields["seo"] = p.SEO
	}
	return fields
}

// GenerationResult is what a finished run returns to the caller.
type GenerationResult struct {
	RunID     uuid.UUID
	Payload   *PatchPayload
	Content   *GeneratedContent
	Languages []LanguageResult
}

// SucceededLanguages returns the languages whose generation call succeeded.
func (r *GenerationResult) SucceededLanguages() []locale.Code {
	var codes []locale.Code
	for _, lr := range r.Languages {
		if lr.Err == nil {
			codes = append(codes, lr.Language)
		}
	}
	return codes
}
