package imagesearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
)

func TestSearchReturnsCandidates(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"id":              "img-1",
					"urls":            map[string]string{"regular": "https://photos.example/img-1.jpg"},
					"alt":             "a happy dog",
					"photographer":    "Ana Pop",
					"photographerUrl": "https://photos.example/@ana",
				},
			},
		})
	}))
	defer srv.Close()

	client := imagesearch.New(srv.URL, "test-key", imagesearch.WithPerPage(5))
	images, err := client.Search(context.Background(), "happy dog")
	require.NoError(t, err)
	require.Len(t, images, 1)

	assert.Equal(t, "img-1", images[0].ID)
	assert.Equal(t, "a happy dog", images[0].Alt)
	assert.Equal(t, "https://photos.example/img-1.jpg", images[0].URLs.Best())
	assert.Equal(t, "happy dog", gotBody["query"])
	assert.Equal(t, float64(5), gotBody["perPage"])
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	client := imagesearch.New(srv.URL, "")
	images, err := client.Search(context.Background(), "nothing")
	assert.NoError(t, err)
	assert.Empty(t, images)
}

func TestSearchServerErrorSurfacesAsSearchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := imagesearch.New(srv.URL, "key")
	_, err := client.Search(context.Background(), "dog")
	assert.ErrorIs(t, err, imagesearch.ErrSearchFailed)
}

func TestBestURLFallbackOrder(t *testing.T) {
	assert.Equal(t, "f", imagesearch.ImageURLs{Full: "f", Small: "s"}.Best())
	assert.Equal(t, "s", imagesearch.ImageURLs{Small: "s", Thumb: "t"}.Best())
	assert.Equal(t, "t", imagesearch.ImageURLs{Thumb: "t"}.Best())
	assert.Equal(t, "", imagesearch.ImageURLs{}.Best())
}
