package studiogen

import (
	"context"
	"io"
	"time"

	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
	"github.com/caravanpress/studio/pkg/studiogen/locale"
)

// ImageSearcher finds candidate images for a free-text query. An empty
// result is a valid outcome; errors are non-fatal to a generation run.
type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]imagesearch.Image, error)
}

// ContentGenerator produces content for a single language. The orchestrator
// calls it once per selected language, sequentially.
type ContentGenerator interface {
	GenerateLanguage(ctx context.Context, req LanguageRequest) (*LanguageContent, error)
}

// DocumentStore is the external headless-CMS backend holding documents and
// binary assets.
type DocumentStore interface {
	// Fetch runs a query and decodes the result into out.
	Fetch(ctx context.Context, query string, params map[string]any, out any) error

	// Patch starts a patch against the document with the given id.
	Patch(id string) DocumentPatch

	// UploadAsset stores a binary asset of the given kind (e.g. "image")
	// and returns its reference.
	UploadAsset(ctx context.Context, kind string, r io.Reader, meta AssetMetadata) (*AssetRef, error)
}

// DocumentPatch accumulates field mutations and commits them in one call.
type DocumentPatch interface {
	Set(fields map[string]any) DocumentPatch
	SetIfMissing(fields map[string]any) DocumentPatch
	Commit(ctx context.Context) error
}

// AssetMetadata is source attribution attached to an uploaded asset.
type AssetMetadata struct {
	Filename    string `json:"filename,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	SourceName  string `json:"sourceName,omitempty"`
	SourceID    string `json:"sourceId,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	CreditLine  string `json:"creditLine,omitempty"`
	Description string `json:"description,omitempty"`
}

// AssetRef identifies a stored binary asset.
type AssetRef struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// AssetStore stores image bytes and returns a reference. Implementations
// exist for the document store's asset endpoint and for S3 buckets.
type AssetStore interface {
	UploadImage(ctx context.Context, r io.Reader, meta AssetMetadata) (*AssetRef, error)
}

// ProgressSink receives progress snapshots as the orchestrator advances.
type ProgressSink interface {
	Publish(p Progress)
}

// MetricsRecorder observes run outcomes. A no-op implementation is used
// unless one is supplied.
type MetricsRecorder interface {
	RunStarted()
	RunFinished(phase Phase, d time.Duration)
	LanguageProcessed(lang locale.Code, success bool)
}

type noopMetrics struct{}

func (noopMetrics) RunStarted() {}
func (noopMetrics) RunFinished(Phase, time.Duration) {}
func (noopMetrics) LanguageProcessed(locale.Code, bool) {}

// NewNoopMetrics returns a MetricsRecorder that records nothing.
func NewNoopMetrics() MetricsRecorder { return noopMetrics{} }
