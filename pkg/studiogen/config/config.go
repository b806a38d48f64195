// Package config loads environment-driven configuration for the studio
// generation service and assembles a ready studiogen.Service from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/sync/errgroup"

	"github.com/caravanpress/studio/pkg/studiogen"
	s3assets "github.com/caravanpress/studio/pkg/studiogen/assetstore/s3"
	"github.com/caravanpress/studio/pkg/studiogen/docstore/httpapi"
	docmemory "github.com/caravanpress/studio/pkg/studiogen/docstore/memory"
	"github.com/caravanpress/studio/pkg/studiogen/generator"
	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
	"github.com/caravanpress/studio/pkg/studiogen/secrets"
)

// secretScheme marks a config value as a reference to the secrets loader
// rather than a literal, e.g. "secret://STUDIO_API_TOKEN".
const secretScheme = "secret://"

// ServerConfig holds everything the studio server needs to run.
type ServerConfig struct {
	Port        string `env:"STUDIO_PORT" env-default:"8080"`
	Environment string `env:"STUDIO_ENVIRONMENT" env-default:"development"`

	// Document store (hosted CMS backend). Empty ProjectID selects the
	// in-memory store for local runs.
	ProjectID string `env:"STUDIO_PROJECT_ID"`
	Dataset   string `env:"STUDIO_DATASET" env-default:"production"`
	APIToken  string `env:"STUDIO_API_TOKEN"`
	SiteURL   string `env:"STUDIO_SITE_URL" env-default:"http://localhost:3000"`

	// Secrets loader scope and API auth.
	GCPProject string `env:"STUDIO_GCP_PROJECT"`
	JWTSecret  string `env:"STUDIO_JWT_SECRET"`

	// Content generation provider: "endpoint", "openai", "gemini" or "mock".
	Provider         string `env:"STUDIO_PROVIDER" env-default:"mock"`
	ProviderEndpoint string `env:"STUDIO_PROVIDER_ENDPOINT"`
	ProviderToken    string `env:"STUDIO_PROVIDER_TOKEN"`
	OpenAIKey        string `env:"STUDIO_OPENAI_API_KEY"`
	OpenAIModel      string `env:"STUDIO_OPENAI_MODEL"`
	OpenAIBaseURL    string `env:"STUDIO_OPENAI_BASE_URL"`
	GeminiKey        string `env:"STUDIO_GEMINI_API_KEY"`
	GeminiModel      string `env:"STUDIO_GEMINI_MODEL"`

	// Photo search collaborator. Empty base URL disables image search.
	ImageSearchBaseURL string `env:"STUDIO_IMAGE_SEARCH_URL"`
	ImageSearchKey     string `env:"STUDIO_IMAGE_SEARCH_KEY"`
	ImageSearchPerPage int    `env:"STUDIO_IMAGE_SEARCH_PER_PAGE" env-default:"10"`

	// Asset storage: "docstore" uploads through the document store,
	// "s3" uploads to a self-hosted bucket.
	AssetMode         string `env:"STUDIO_ASSET_MODE" env-default:"docstore"`
	S3Region          string `env:"STUDIO_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"STUDIO_S3_BUCKET"`
	S3AccessKeyID     string `env:"STUDIO_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"STUDIO_S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"STUDIO_S3_ENDPOINT"`
	S3UsePathStyle    bool   `env:"STUDIO_S3_USE_PATH_STYLE" env-default:"false"`
	S3KeyPrefix       string `env:"STUDIO_S3_KEY_PREFIX" env-default:"assets/images"`
	S3PublicBaseURL   string `env:"STUDIO_S3_PUBLIC_BASE_URL"`

	// resolveSecret turns a logical secret name into its value. Defaults
	// to a GCP Secret Manager loader scoped to GCPProject.
	resolveSecret func(ctx context.Context, name string) (string, error)
}

// Option applies configuration on top of defaults.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		Dataset:            "production",
		SiteURL:            "http://localhost:3000",
		Provider:           "mock",
		ImageSearchPerPage: 10,
		AssetMode:          "docstore",
		S3Region:           "us-east-1",
		S3KeyPrefix:        "assets/images",
	}
}

// WithEnv reads STUDIO_* environment variables over the defaults.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		return nil
	}
}

// WithSecretResolver overrides how "secret://NAME" values are resolved.
func WithSecretResolver(resolve func(ctx context.Context, name string) (string, error)) Option {
	return func(c *ServerConfig) error {
		c.resolveSecret = resolve
		return nil
	}
}

// Validate checks the configuration for internal consistency.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("environment must be 'development', 'staging' or 'production', got %q", c.Environment)
	}

	switch c.Provider {
	case "mock":
	case "endpoint":
		if c.ProviderEndpoint == "" {
			return errors.New("provider_endpoint is required when using the endpoint provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return errors.New("openai api key is required when using the openai provider")
		}
	case "gemini":
		if c.GeminiKey == "" {
			return errors.New("gemini api key is required when using the gemini provider")
		}
	default:
		return fmt.Errorf("provider must be 'endpoint', 'openai', 'gemini' or 'mock', got %q", c.Provider)
	}

	switch c.AssetMode {
	case "docstore":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("s3 bucket is required when asset_mode is 's3'")
		}
	default:
		return fmt.Errorf("asset_mode must be 'docstore' or 's3', got %q", c.AssetMode)
	}

	if c.ProjectID != "" && c.APIToken == "" {
		return errors.New("api token is required when a project id is set")
	}

	return nil
}

// BuildService assembles the collaborators described by the configuration
// into a running studiogen.Service. Extra options are applied last so
// callers can attach metrics or progress sinks.
func (c *ServerConfig) BuildService(ctx context.Context, extra ...studiogen.Option) (studiogen.Service, error) {
	if err := c.resolveSecretRefs(ctx); err != nil {
		return nil, err
	}

	var options []studiogen.Option

	gen, err := c.buildGenerator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build generator: %w", err)
	}
	options = append(options, studiogen.WithGenerator(gen))

	store, err := c.buildDocumentStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build document store: %w", err)
	}
	options = append(options, studiogen.WithDocumentStore(store))

	if c.ImageSearchBaseURL != "" {
		searcher := imagesearch.New(c.ImageSearchBaseURL, c.ImageSearchKey,
			imagesearch.WithPerPage(c.ImageSearchPerPage))
		options = append(options, studiogen.WithImageSearcher(searcher))
	}

	if c.AssetMode == "s3" {
		assets, err := s3assets.New(s3assets.Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
			KeyPrefix:       c.S3KeyPrefix,
			PublicBaseURL:   c.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build s3 asset store: %w", err)
		}
		options = append(options, studiogen.WithAssetStore(assets))
	}

	options = append(options, extra...)
	return studiogen.New(options...)
}

func (c *ServerConfig) buildGenerator(ctx context.Context) (studiogen.ContentGenerator, error) {
	switch c.Provider {
	case "endpoint":
		return generator.NewEndpoint(c.ProviderEndpoint, c.ProviderToken), nil
	case "openai":
		gen, err := generator.NewOpenAI(c.OpenAIKey, c.OpenAIModel, c.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "gemini":
		gen, err := generator.NewGemini(ctx, c.GeminiKey, c.GeminiModel)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "mock":
		return generator.Mock{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.Provider)
	}
}

func (c *ServerConfig) buildDocumentStore() (studiogen.DocumentStore, error) {
	if c.ProjectID == "" {
		return docmemory.New(), nil
	}
	return httpapi.New(httpapi.Config{
		ProjectID: c.ProjectID,
		Dataset:   c.Dataset,
		Token:     c.APIToken,
	})
}

// resolveSecretRefs replaces every "secret://NAME" value with the secret's
// current value. References resolve concurrently; any failure aborts the
// build since a half-configured service is worse than none.
func (c *ServerConfig) resolveSecretRefs(ctx context.Context) error {
	fields := []*string{
		&c.APIToken,
		&c.JWTSecret,
		&c.ProviderToken,
		&c.OpenAIKey,
		&c.GeminiKey,
		&c.ImageSearchKey,
		&c.S3AccessKeyID,
		&c.S3SecretAccessKey,
	}

	var refs []*string
	for _, f := range fields {
		if strings.HasPrefix(*f, secretScheme) {
			refs = append(refs, f)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	resolve := c.resolveSecret
	if resolve == nil {
		loader, err := c.defaultSecretsLoader(ctx)
		if err != nil {
			return err
		}
		resolve = func(ctx context.Context, name string) (string, error) {
			return loader.Get(ctx, name)
		}
	}

	var mu sync.Mutex
	var errs []error
	g, ctx := errgroup.WithContext(ctx)
	for _, field := range refs {
		name := strings.TrimPrefix(*field, secretScheme)
		g.Go(func() error {
			v, err := resolve(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			*field = v
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

func (c *ServerConfig) defaultSecretsLoader(ctx context.Context) (*secrets.Loader, error) {
	if c.GCPProject == "" {
		return nil, errors.New("gcp project is required to resolve secret:// references")
	}
	source, err := secrets.NewGCPSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret source: %w", err)
	}
	return secrets.NewLoader(source, c.GCPProject, secrets.WithEnvironment(c.Environment))
}
