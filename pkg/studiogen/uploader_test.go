package studiogen_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravanpress/studio/pkg/studiogen"
	assetmemory "github.com/caravanpress/studio/pkg/studiogen/assetstore/memory"
	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
)

func TestImageUploaderStoresBytesWithAttribution(t *testing.T) {
	imgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer imgServer.Close()

	assets := assetmemory.New()
	uploader := studiogen.NewImageUploader(assets)

	ref, err := uploader.Upload(context.Background(), imagesearch.Image{
		ID:              "img-1",
		URLs:            imagesearch.ImageURLs{Regular: imgServer.URL + "/img.png"},
		Alt:             "a happy dog",
		Photographer:    "Ana Pop",
		PhotographerURL: "https://photos.example/@ana",
	})
	require.NoError(t, err)
	require.NotNil(t, ref)

	stored, ok := assets.Asset(ref.ID)
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(stored.Data))
	assert.Equal(t, "img-1.png", stored.Meta.Filename)
	assert.Equal(t, "image/png", stored.Meta.MimeType)
	assert.Equal(t, "img-1", stored.Meta.SourceID)
	assert.Equal(t, "Photo by Ana Pop", stored.Meta.CreditLine)
	assert.Equal(t, "a happy dog", stored.Meta.Description)
}

func TestImageUploaderFetchFailureIsUploadFailed(t *testing.T) {
	imgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer imgServer.Close()

	uploader := studiogen.NewImageUploader(assetmemory.New())
	_, err := uploader.Upload(context.Background(), imagesearch.Image{
		ID:   "img-1",
		URLs: imagesearch.ImageURLs{Regular: imgServer.URL + "/img.jpg"},
	})
	assert.ErrorIs(t, err, studiogen.ErrUploadFailed)
}

func TestImageUploaderNoURLIsUploadFailed(t *testing.T) {
	uploader := studiogen.NewImageUploader(assetmemory.New())
	_, err := uploader.Upload(context.Background(), imagesearch.Image{ID: "img-1"})
	assert.ErrorIs(t, err, studiogen.ErrUploadFailed)
}
