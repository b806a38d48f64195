package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// Endpoint calls the hosted per-language content-generation endpoint.
type Endpoint struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewEndpoint creates a client for the collaborator endpoint.
func NewEndpoint(url, token string) *Endpoint {
	return &Endpoint{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SetHTTPClient overrides the underlying HTTP client.
func (e *Endpoint) SetHTTPClient(hc *http.Client) {
	e.httpClient = hc
}

var _ studiogen.ContentGenerator = (*Endpoint)(nil)

// GenerateLanguage posts the single-language request and decodes the
// response shaped like GeneratedContent restricted to that language.
func (e *Endpoint) GenerateLanguage(ctx context.Context, req studiogen.LanguageRequest) (*studiogen.LanguageContent, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request for %s: %w", req.Language, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("generation endpoint %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var content studiogen.LanguageContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	return &content, nil
}
