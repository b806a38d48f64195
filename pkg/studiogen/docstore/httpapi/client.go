// Package httpapi implements studiogen.DocumentStore against the hosted
// document store's JSON API (query, mutate and asset endpoints).
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caravanpress/studio/pkg/studiogen"
)

const defaultAPIVersion = "v2024-01-01"

// Config options for the document store client.
type Config struct {
	ProjectID  string // hosted project id
	Dataset    string // dataset name, e.g. "production"
	Token      string // API token with write access
	APIVersion string // defaults to v2024-01-01
	BaseURL    string // optional override, mainly for tests
}

// Client talks to the hosted document store.
type Client struct {
	baseURL    string
	dataset    string
	token      string
	httpClient *http.Client
}

// RequestError wraps a failed API call with the operation and HTTP status.
type RequestError struct {
	Op     string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("document store %s failed (status %d): %v", e.Op, e.Status, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// New creates a document store client.
func New(cfg Config) (*Client, error) {
	if cfg.Dataset == "" {
		return nil, errors.New("dataset is required")
	}
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.ProjectID == "" {
			return nil, errors.New("project id is required")
		}
		baseURL = fmt.Sprintf("https://%s.api.sanity.io/%s", cfg.ProjectID, version)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		dataset: cfg.Dataset,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

var _ studiogen.DocumentStore = (*Client)(nil)

// Fetch runs a query with parameters and decodes the "result" envelope
// into out.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode query param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.baseURL, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &RequestError{Op: "fetch", Err: err}
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return &RequestError{Op: "fetch", Status: resp.StatusCode, Err: apiError(resp.Body)}
	}

	envelope := struct {
		Result json.RawMessage `json:"result"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &RequestError{Op: "fetch", Status: resp.StatusCode, Err: err}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Result, out)
}

// Patch starts a patch against the document with the given id.
func (c *Client) Patch(id string) studiogen.DocumentPatch {
	return &patch{client: c, id: id}
}

type patch struct {
	client       *Client
	id           string
	set          map[string]any
	setIfMissing map[string]any
}

func (p *patch) Set(fields map[string]any) studiogen.DocumentPatch {
	if p.set == nil {
		p.set = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

func (p *patch) SetIfMissing(fields map[string]any) studiogen.DocumentPatch {
	if p.setIfMissing == nil {
		p.setIfMissing = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		p.setIfMissing[k] = v
	}
	return p
}

func (p *patch) Commit(ctx context.Context) error {
	patchBody := map[string]any{"id": p.id}
	if len(p.set) > 0 {
		patchBody["set"] = p.set
	}
	if len(p.setIfMissing) > 0 {
		patchBody["setIfMissing"] = p.setIfMissing
	}
	body, err := json.Marshal(map[string]any{
		"mutations": []map[string]any{{"patch": patchBody}},
	})
	if err != nil {
		return &RequestError{Op: "patch", Err: err}
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s", p.client.baseURL, p.client.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &RequestError{Op: "patch", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	p.client.authorize(req)

	resp, err := p.client.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "patch", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return &RequestError{Op: "patch", Status: resp.StatusCode, Err: apiError(resp.Body)}
	}
	return nil
}

// UploadAsset stores a binary asset and returns its reference. Attribution
// metadata travels as query parameters alongside the upload.
func (c *Client) UploadAsset(ctx context.Context, kind string, r io.Reader, meta studiogen.AssetMetadata) (*studiogen.AssetRef, error) {
	values := url.Values{}
	if meta.Filename != "" {
		values.Set("filename", meta.Filename)
	}
	if meta.Description != "" {
		values.Set("description", meta.Description)
	}
	if meta.CreditLine != "" {
		values.Set("creditLine", meta.CreditLine)
	}
	if meta.SourceName != "" {
		values.Set("sourceName", meta.SourceName)
	}
	if meta.SourceID != "" {
		values.Set("sourceId", meta.SourceID)
	}
	if meta.SourceURL != "" {
		values.Set("sourceUrl", meta.SourceURL)
	}

	endpoint := fmt.Sprintf("%s/assets/%ss/%s", c.baseURL, kind, c.dataset)
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return nil, &RequestError{Op: "upload asset", Err: err}
	}
	if meta.MimeType != "" {
		req.Header.Set("Content-Type", meta.MimeType)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Op: "upload asset", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &RequestError{Op: "upload asset", Status: resp.StatusCode, Err: apiError(resp.Body)}
	}

	envelope := struct {
		Document struct {
			ID  string `json:"_id"`
			URL string `json:"url"`
		} `json:"document"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &RequestError{Op: "upload asset", Status: resp.StatusCode, Err: err}
	}
	return &studiogen.AssetRef{ID: envelope.Document.ID, URL: envelope.Document.URL}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func apiError(body io.Reader) error {
	detail, _ := io.ReadAll(io.LimitReader(body, 1024))
	return errors.New(strings.TrimSpace(string(detail)))
}
