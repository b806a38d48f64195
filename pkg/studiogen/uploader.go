package studiogen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
)

const imageSourceName = "photo-search"

// ImageUploader fetches a selected search candidate and stores it in binary
// asset storage with source attribution.
type ImageUploader struct {
	assets     AssetStore
	httpClient *http.Client
}

// NewImageUploader creates an uploader backed by the given asset store.
func NewImageUploader(assets AssetStore) *ImageUploader {
	return &ImageUploader{
		assets: assets,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient overrides the client used to fetch image bytes.
func (u *ImageUploader) SetHTTPClient(hc *http.Client) {
	u.httpClient = hc
}

// Upload fetches the candidate's bytes and stores them, returning the new
// asset's reference. Any failure surfaces as ErrUploadFailed; callers treat
// it as non-fatal and fall back to no image.
func (u *ImageUploader) Upload(ctx context.Context, img imagesearch.Image) (*AssetRef, error) {
	url := img.URLs.Best()
	if url == "" {
		return nil, fmt.Errorf("%w: candidate has no usable URL", ErrUploadFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch image: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: fetch image: %s", ErrUploadFailed, resp.Status)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	description := img.Description
	if description == "" {
		description = img.Alt
	}
	meta := AssetMetadata{
		Filename:    img.ID + extensionFor(mimeType),
		MimeType:    mimeType,
		SourceName:  imageSourceName,
		SourceID:    img.ID,
		SourceURL:   img.PhotographerURL,
		CreditLine:  creditLine(img),
		Description: description,
	}

	ref, err := u.assets.UploadImage(ctx, resp.Body, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return ref, nil
}

func creditLine(img imagesearch.Image) string {
	if img.Photographer == "" {
		return ""
	}
	return fmt.Sprintf("Photo by %s", img.Photographer)
}

func extensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}

// documentAssetStore adapts a DocumentStore's asset endpoint to AssetStore.
type documentAssetStore struct {
	store DocumentStore
}

// NewDocumentAssetStore stores images through the document store's own
// binary asset storage (hosted mode).
func NewDocumentAssetStore(store DocumentStore) AssetStore {
	return &documentAssetStore{store: store}
}

func (d *documentAssetStore) UploadImage(ctx context.Context, r io.Reader, meta AssetMetadata) (*AssetRef, error) {
	return d.store.UploadAsset(ctx, "image", r, meta)
}
