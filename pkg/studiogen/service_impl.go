package studiogen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
	"github.com/caravanpress/studio/pkg/studiogen/locale"
	"github.com/caravanpress/studio/pkg/studiogen/richtext"
	"github.com/caravanpress/studio/pkg/studiogen/schema"
)

// service implements the Service interface.
type service struct {
	searcher  ImageSearcher
	generator ContentGenerator
	docs      DocumentStore
	uploader  *ImageUploader
	tracker   *ProgressTracker
	sink      ProgressSink
	metrics   MetricsRecorder
	now       func() time.Time
}

// Option represents a functional option for configuring the service.
type Option func(*service)

// WithImageSearcher sets the photo-search collaborator.
func WithImageSearcher(s ImageSearcher) Option {
	return func(svc *service) { svc.searcher = s }
}

// WithGenerator sets the per-language content generator.
func WithGenerator(g ContentGenerator) Option {
	return func(svc *service) { svc.generator = g }
}

// WithDocumentStore sets the document store collaborator.
func WithDocumentStore(d DocumentStore) Option {
	return func(svc *service) { svc.docs = d }
}

// WithAssetStore sets the binary asset storage used for featured images.
// Without it, featured images are uploaded through the document store.
func WithAssetStore(a AssetStore) Option {
	return func(svc *service) { svc.uploader = NewImageUploader(a) }
}

// WithProgressSink adds an extra sink receiving progress snapshots. The
// option may be given more than once.
func WithProgressSink(s ProgressSink) Option {
	return func(svc *service) {
		switch cur := svc.sink.(type) {
		case nil:
			svc.sink = s
		case multiSink:
			svc.sink = append(cur, s)
		default:
			svc.sink = multiSink{cur, s}
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(svc *service) { svc.metrics = m }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(svc *service) { svc.now = now }
}

// New creates a service instance with the given options. A content generator
// is required; every other collaborator is optional.
func New(options ...Option) (Service, error) {
	svc := &service{
		tracker: NewProgressTracker(),
		metrics: NewNoopMetrics(),
		now:     time.Now,
	}
	for _, option := range options {
		option(svc)
	}

	if svc.generator == nil {
		return nil, fmt.Errorf("content generator is required")
	}
	if svc.uploader == nil && svc.docs != nil {
		svc.uploader = NewImageUploader(NewDocumentAssetStore(svc.docs))
	}
	return svc, nil
}

func (s *service) publish(p Progress) {
	s.tracker.Publish(p)
	if s.sink != nil {
		s.sink.Publish(p)
	}
}

func (s *service) Progress(runID uuid.UUID) (Progress, bool) {
	return s.tracker.Latest(runID)
}

func (s *service) SearchImages(ctx context.Context, query string) ([]imagesearch.Image, error) {
	if s.searcher == nil {
		return nil, imagesearch.ErrSearchFailed
	}
	return s.searcher.Search(ctx, query)
}

func (s *service) Apply(ctx context.Context, documentID string, payload *PatchPayload) error {
	if s.docs == nil {
		return ErrNoDocumentStore
	}
	if err := s.docs.Patch(documentID).Set(payload.Fields()).Commit(ctx); err != nil {
		return fmt.Errorf("apply payload to %s: %w", documentID, err)
	}
	return nil
}

// Generate runs the workflow phases strictly in sequence:
// validating -> searching-images (optional) -> generating -> formatting ->
// saving -> complete, with error reachable from any phase.
func (s *service) Generate(ctx context.Context, documentID string, req GenerationRequest) (*GenerationResult, error) {
	runID := uuid.New()
	started := s.now()
	s.metrics.RunStarted()
	slog.Info("generation run started", "run_id", runID, "document_id", documentID, "languages", req.Languages)

	fail := func(phase Phase, err error) error {
		s.publish(Progress{RunID: runID, Phase: PhaseError, Message: userMessage(err)})
		s.metrics.RunFinished(PhaseError, s.now().Sub(started))
		return &GenerationError{RunID: runID, Phase: phase, Err: err}
	}

	// validating
	s.publish(Progress{RunID: runID, Phase: PhaseValidating})
	if err := req.Validate(); err != nil {
		return nil, fail(PhaseValidating, err)
	}

	content := &GeneratedContent{}

	// searching-images: optional, non-fatal either way
	if req.Images.FeaturedImage {
		s.publish(Progress{RunID: runID, Phase: PhaseSearchingImages, Message: "Looking for a featured image"})
		content.FeaturedImage = s.searchFeaturedImage(ctx, req)
	}

	// generating: strictly sequential, one request per language
	rawBodies, results, err := s.generateLanguages(ctx, runID, req, content)
	if err != nil {
		return nil, fail(PhaseGenerating, err)
	}

	// formatting: purely local
	s.publish(Progress{
		RunID:              runID,
		Phase:              PhaseFormatting,
		CompletedLanguages: processedLanguages(results),
		Message:            "Formatting content",
	})
	s.formatBodies(req, content, rawBodies)

	// saving: slug, image upload, payload assembly
	s.publish(Progress{
		RunID:              runID,
		Phase:              PhaseSaving,
		CompletedLanguages: processedLanguages(results),
		Message:            "Preparing the document",
	})
	payload := s.assemblePayload(ctx, req, content)

	s.publish(Progress{
		RunID:              runID,
		Phase:              PhaseComplete,
		CompletedLanguages: processedLanguages(results),
		Message:            "Done",
	})
	s.metrics.RunFinished(PhaseComplete, s.now().Sub(started))

	return &GenerationResult{
		RunID:     runID,
		Payload:   payload,
		Content:   content,
		Languages: results,
	}, nil
}

// searchFeaturedImage queries the searcher with the image keywords or, if
// blank, the topic. A failed or empty search is non-fatal; the run proceeds
// without a featured image.
func (s *service) searchFeaturedImage(ctx context.Context, req GenerationRequest) *imagesearch.Image {
	if s.searcher == nil {
		slog.Warn("featured image requested but no image searcher configured")
		return nil
	}
	query := req.Images.ImageKeywords
	if query == "" {
		query = req.Topic
	}
	images, err := s.searcher.Search(ctx, query)
	if err != nil {
		slog.Warn("image search failed, continuing without featured image", "query", query, "error", err)
		return nil
	}
	if len(images) == 0 {
		return nil
	}
	return &images[0]
}

// generateLanguages iterates the selected languages sequentially. A failed
// language is recorded and skipped; a timeout aborts the whole run.
func (s *service) generateLanguages(ctx context.Context, runID uuid.UUID, req GenerationRequest, content *GeneratedContent) (map[locale.Code]string, []LanguageResult, error) {
	rawBodies := make(map[locale.Code]string, len(req.Languages))
	results := make([]LanguageResult, 0, len(req.Languages))
	loopStart := s.now()
	tagsTaken := false

	for i, lang := range req.Languages {
		s.publish(Progress{
			RunID:              runID,
			Phase:              PhaseGenerating,
			CurrentLanguage:    lang,
			CompletedLanguages: processedLanguages(results),
			Message:            fmt.Sprintf("Generating %s (%d/%d)", lang, i+1, len(req.Languages)),
			EstimatedRemaining: estimateRemaining(s.now().Sub(loopStart), i, len(req.Languages)),
		})

		lc, err := s.generator.GenerateLanguage(ctx, LanguageRequest{
			Topic:      req.Topic,
			Language:   lang,
			Keywords:   req.Keywords,
			Tone:       req.Tone,
			Length:     req.Length,
			IncludeSEO: req.IncludeSEO,
		})
		if err != nil {
			if isTimeout(err) {
				return nil, nil, ErrGenerationTimeout
			}
			slog.Warn("language generation failed, skipping", "language", lang, "error", err)
			s.metrics.LanguageProcessed(lang, false)
			results = append(results, LanguageResult{Language: lang, Err: err})
			continue
		}
		s.metrics.LanguageProcessed(lang, true)

		content.Title.Set(lang, lc.Title)
		content.Excerpt.Set(lang, lc.Excerpt)
		rawBodies[lang] = lc.Body
		if req.IncludeSEO && lc.SEO != nil {
			if content.SEO == nil {
				content.SEO = &SEOContent{}
			}
			content.SEO.MetaTitle.Set(lang, lc.SEO.MetaTitle)
			content.SEO.MetaDescription.Set(lang, lc.SEO.MetaDescription)
		}
		if !tagsTaken {
			content.Tags = dedupeTags(req.Keywords, lc.Tags)
			tagsTaken = true
		}
		results = append(results, LanguageResult{Language: lang})
	}

	if !tagsTaken {
		content.Tags = dedupeTags(req.Keywords, nil)
	}
	return rawBodies, results, nil
}

// formatBodies converts each language's generated text into rich-text
// blocks. A language that formats to nothing has its body omitted.
func (s *service) formatBodies(req GenerationRequest, content *GeneratedContent, rawBodies map[locale.Code]string) {
	for _, lang := range req.Languages {
		raw, ok := rawBodies[lang]
		if !ok {
			continue
		}
		blocks := richtext.FormatText(raw)
		if len(blocks) == 0 {
			slog.Warn("generated body formatted to nothing, omitting", "language", lang)
			continue
		}
		if req.Images.IncludeInlineImages {
			blocks = richtext.InsertPlaceholders(blocks, placeholderCount(req.Length))
		}
		content.Body.Set(lang, blocks)
	}
}

// assemblePayload prepares the final patch: slug from the first available
// title (romanian preferred, then english), the uploaded featured image (if
// any) and the category reference.
func (s *service) assemblePayload(ctx context.Context, req GenerationRequest, content *GeneratedContent) *PatchPayload {
	payload := &PatchPayload{
		Title:       content.Title,
		Excerpt:     content.Excerpt,
		Body:        content.Body,
		Tags:        content.Tags,
		PublishedAt: s.now().UTC(),
	}

	if title, ok := content.Title.First(locale.RO, locale.EN); ok {
		payload.Slug = schema.Slug{Current: Slugify(title)}
	}
	if req.CategoryID != "" {
		payload.Category = &schema.Reference{Ref: req.CategoryID}
	}
	if content.SEO != nil {
		payload.SEO = &schema.SEO{
			MetaTitle:       content.SEO.MetaTitle,
			MetaDescription: content.SEO.MetaDescription,
		}
	}

	if content.FeaturedImage != nil && s.uploader != nil {
		ref, err := s.uploader.Upload(ctx, *content.FeaturedImage)
		if err != nil {
			slog.Warn("featured image upload failed, continuing without image", "error", err)
		} else {
			payload.MainImage = &schema.Image{
				AssetRef: schema.Reference{Ref: ref.ID},
				Alt:      content.FeaturedImage.Alt,
				Credit:   creditLine(*content.FeaturedImage),
			}
		}
	}
	return payload
}

// processedLanguages lists every language the loop has finished with,
// successful or not. The workflow completes regardless of per-language
// outcome, so the final set always equals the requested set.
func processedLanguages(results []LanguageResult) []locale.Code {
	codes := make([]locale.Code, 0, len(results))
	for _, r := range results {
		codes = append(codes, r.Language)
	}
	return codes
}

func estimateRemaining(elapsed time.Duration, done, total int) *time.Duration {
	if done == 0 {
		return nil
	}
	remaining := elapsed / time.Duration(done) * time.Duration(total-done)
	return &remaining
}

// dedupeTags merges caller-supplied keywords with generated tags, keeping
// first occurrence order.
func dedupeTags(keywords, generated []string) []string {
	seen := make(map[string]struct{}, len(keywords)+len(generated))
	var tags []string
	for _, t := range append(append([]string{}, keywords...), generated...) {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

func placeholderCount(length Length) int {
	switch length {
	case LengthShort:
		return 1
	case LengthLong:
		return 3
	default:
		return 2
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func userMessage(err error) string {
	if errors.Is(err, ErrGenerationTimeout) {
		return ErrGenerationTimeout.Error()
	}
	return err.Error()
}
