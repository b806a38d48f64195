// Package secrets resolves runtime credentials from an external secret
// store, qualifying logical names by environment and caching values for a
// short window.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrSecretNotFound indicates the qualified secret does not exist in
	// the remote store.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretAccessDenied indicates the caller's identity lacks access
	// to the secret.
	ErrSecretAccessDenied = errors.New("secret access denied")
)

// Environment names accepted by the loader.
const (
	EnvProduction  = "production"
	EnvStaging     = "staging"
	EnvDevelopment = "development"
)

const cacheTTL = 5 * time.Minute

var envSuffixes = []string{"_PROD", "_STAGING", "_DEV"}

// Source is the remote secret store dependency.
type Source interface {
	AccessSecretVersion(ctx context.Context, resourceName string) ([]byte, error)
}

type cacheKey struct {
	projectID string
	name      string
}

type cacheEntry struct {
	value     string
	fetchedAt time.Time
}

// Loader resolves logical secret names against a Source.
type Loader struct {
	source      Source
	projectID   string
	environment string
	now         func() time.Time

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvironment sets the environment used for name qualification.
// Defaults to production.
func WithEnvironment(env string) Option {
	return func(l *Loader) { l.environment = env }
}

// WithClock overrides the loader's clock.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a loader backed by the given source. projectID scopes
// both the remote resource names and the cache.
func NewLoader(source Source, projectID string, opts ...Option) (*Loader, error) {
	if source == nil {
		return nil, errors.New("secrets: source is required")
	}
	if projectID == "" {
		return nil, errors.New("secrets: project id is required")
	}
	l := &Loader{
		source:      source,
		projectID:   projectID,
		environment: EnvProduction,
		now:         time.Now,
		cache:       make(map[cacheKey]cacheEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// GetOption configures a single lookup.
type GetOption func(*getOptions)

type getOptions struct {
	bypassCache bool
}

// WithBypassCache skips the cache for this lookup and refreshes the entry.
func WithBypassCache() GetOption {
	return func(o *getOptions) { o.bypassCache = true }
}

// Get resolves a logical secret name to its current value.
func (l *Loader) Get(ctx context.Context, name string, opts ...GetOption) (string, error) {
	var o getOptions
	for _, opt := range opts {
		opt(&o)
	}

	qualified := l.qualify(name)

	if l.environment == EnvDevelopment {
		if v, ok := os.LookupEnv(qualified); ok {
			slog.Warn("using local env override for secret", "name", qualified)
			return v, nil
		}
	}

	key := cacheKey{projectID: l.projectID, name: qualified}
	if !o.bypassCache {
		if v, ok := l.cached(key); ok {
			return v, nil
		}
	}

	resource := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", l.projectID, qualified)
	data, err := l.source.AccessSecretVersion(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", qualified, err)
	}

	value := string(data)
	l.mu.Lock()
	l.cache[key] = cacheEntry{value: value, fetchedAt: l.now()}
	l.mu.Unlock()
	return value, nil
}

// GetBatch resolves several names concurrently. Names that fail to resolve
// are logged and omitted; the returned map holds successes only.
func (l *Loader) GetBatch(ctx context.Context, names ...string) map[string]string {
	var mu sync.Mutex
	out := make(map[string]string, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			v, err := l.Get(ctx, name)
			if err != nil {
				slog.Error("batch secret fetch failed", "name", name, "error", err)
				return nil
			}
			mu.Lock()
			out[name] = v
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}

func (l *Loader) cached(key cacheKey) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.cache[key]
	if !ok || l.now().Sub(entry.fetchedAt) >= cacheTTL {
		return "", false
	}
	return entry.value, true
}

// qualify appends the environment suffix unless the name already carries
// one.
func (l *Loader) qualify(name string) string {
	for _, suffix := range envSuffixes {
		if strings.HasSuffix(name, suffix) {
			return name
		}
	}
	switch l.environment {
	case EnvStaging:
		return name + "_STAGING"
	case EnvDevelopment:
		return name + "_DEV"
	default:
		return name + "_PROD"
	}
}
