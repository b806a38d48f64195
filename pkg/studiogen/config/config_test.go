package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, "docstore", cfg.AssetMode)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("STUDIO_PORT", "9090")
	t.Setenv("STUDIO_ENVIRONMENT", "staging")
	t.Setenv("STUDIO_PROJECT_ID", "abc123")
	t.Setenv("STUDIO_API_TOKEN", "tok")
	t.Setenv("STUDIO_IMAGE_SEARCH_PER_PAGE", "5")

	cfg, err := Load(WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "abc123", cfg.ProjectID)
	assert.Equal(t, 5, cfg.ImageSearchPerPage)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *ServerConfig) {},
		},
		{
			name:    "unknown environment",
			mutate:  func(c *ServerConfig) { c.Environment = "qa" },
			wantErr: "environment",
		},
		{
			name:    "endpoint provider without url",
			mutate:  func(c *ServerConfig) { c.Provider = "endpoint" },
			wantErr: "provider_endpoint",
		},
		{
			name:    "openai provider without key",
			mutate:  func(c *ServerConfig) { c.Provider = "openai" },
			wantErr: "openai api key",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *ServerConfig) { c.Provider = "llama" },
			wantErr: "provider",
		},
		{
			name:    "s3 mode without bucket",
			mutate:  func(c *ServerConfig) { c.AssetMode = "s3" },
			wantErr: "s3 bucket",
		},
		{
			name:    "project without token",
			mutate:  func(c *ServerConfig) { c.ProjectID = "abc" },
			wantErr: "api token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildServiceWithMockProvider(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestBuildServiceResolvesSecretRefs(t *testing.T) {
	resolved := map[string]string{
		"CMS_TOKEN":  "real-token",
		"JWT_SIGNER": "real-jwt",
	}
	cfg, err := Load(
		WithSecretResolver(func(_ context.Context, name string) (string, error) {
			v, ok := resolved[name]
			if !ok {
				return "", errors.New("unknown secret")
			}
			return v, nil
		}),
		func(c *ServerConfig) error {
			c.APIToken = "secret://CMS_TOKEN"
			c.JWTSecret = "secret://JWT_SIGNER"
			return nil
		},
	)
	require.NoError(t, err)

	_, err = cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "real-token", cfg.APIToken)
	assert.Equal(t, "real-jwt", cfg.JWTSecret)
}

func TestBuildServiceSecretResolutionFailureAborts(t *testing.T) {
	cfg, err := Load(
		WithSecretResolver(func(_ context.Context, name string) (string, error) {
			return "", errors.New("permission denied")
		}),
		func(c *ServerConfig) error {
			c.ImageSearchKey = "secret://SEARCH_KEY"
			return nil
		},
	)
	require.NoError(t, err)

	_, err = cfg.BuildService(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}
