// Package imagesearch talks to the external photo-search collaborator used
// to pick featured images for generated posts.
package imagesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSearchFailed indicates the search request could not be completed. An
// empty result set is not an error.
var ErrSearchFailed = errors.New("image search failed")

const defaultPerPage = 10

// Image is one search candidate with attribution.
type Image struct {
	ID              string    `json:"id"`
	URLs            ImageURLs `json:"urls"`
	Description     string    `json:"description,omitempty"`
	Alt             string    `json:"alt,omitempty"`
	Photographer    string    `json:"photographer,omitempty"`
	PhotographerURL string    `json:"photographerUrl,omitempty"`
}

// ImageURLs carries the candidate's resolution variants.
type ImageURLs struct {
	Thumb   string `json:"thumb,omitempty"`
	Small   string `json:"small,omitempty"`
	Regular string `json:"regular,omitempty"`
	Full    string `json:"full,omitempty"`
}

// Best returns the preferred download URL: regular, then full, then small.
func (u ImageURLs) Best() string {
	switch {
	case u.Regular != "":
		return u.Regular
	case u.Full != "":
		return u.Full
	case u.Small != "":
		return u.Small
	}
	return u.Thumb
}

// Client issues search requests against the photo-search API.
type Client struct {
	baseURL    string
	apiKey     string
	perPage    int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPerPage bounds the number of candidates requested per search.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New creates a search client for the given API base URL and key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		perPage: defaultPerPage,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query   string `json:"query"`
	PerPage int    `json:"perPage"`
}

type searchResponse struct {
	Results []Image `json:"results"`
}

// Search returns candidate images for a free-text query. A transport error
// or non-success status surfaces as ErrSearchFailed; an empty result list is
// a valid outcome.
func (c *Client) Search(ctx context.Context, query string) ([]Image, error) {
	body, err := json.Marshal(searchRequest{Query: query, PerPage: c.perPage})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrSearchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", ErrSearchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: %s: %s", ErrSearchFailed, resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}
	return parsed.Results, nil
}
