package generator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravanpress/studio/pkg/studiogen"
	"github.com/caravanpress/studio/pkg/studiogen/generator"
	"github.com/caravanpress/studio/pkg/studiogen/locale"
)

func TestBuildPrompt(t *testing.T) {
	prompt := generator.BuildPrompt(studiogen.LanguageRequest{
		Topic:      "urban beekeeping",
		Language:   locale.PL,
		Keywords:   []string{"honey", "city"},
		Tone:       studiogen.ToneCasual,
		Length:     studiogen.LengthLong,
		IncludeSEO: true,
	})

	assert.Contains(t, prompt.User, "Polish")
	assert.Contains(t, prompt.User, "urban beekeeping")
	assert.Contains(t, prompt.User, "1500 words")
	assert.Contains(t, prompt.User, "honey, city")
	assert.Contains(t, prompt.User, "metaTitle")
	assert.Contains(t, prompt.System, "JSON")
}

func TestBuildPromptOmitsSEOWhenNotRequested(t *testing.T) {
	prompt := generator.BuildPrompt(studiogen.LanguageRequest{
		Topic:    "x",
		Language: locale.RO,
		Length:   studiogen.LengthShort,
	})
	assert.NotContains(t, prompt.User, "metaTitle")
	assert.Contains(t, prompt.User, "400 words")
}

func TestParseModelOutput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"title":"T","excerpt":"E","body":"B","tags":["a"]}`,
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"title\":\"T\",\"excerpt\":\"E\",\"body\":\"B\"}\n```",
		},
		{
			name:    "empty output",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "missing title",
			raw:     `{"excerpt":"E","body":"B"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "Sure! Here is your article:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := generator.ParseModelOutput(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "T", content.Title)
		})
	}
}

func TestRenderPreview(t *testing.T) {
	html, err := generator.RenderPreview("# Hi\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestEndpointGenerateLanguage(t *testing.T) {
	var got studiogen.LanguageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(studiogen.LanguageContent{
			Title:   "Titlu",
			Excerpt: "Rezumat",
			Body:    "# Titlu\n\nCorp.",
			Tags:    []string{"go"},
		})
	}))
	defer srv.Close()

	ep := generator.NewEndpoint(srv.URL, "tok")
	content, err := ep.GenerateLanguage(context.Background(), studiogen.LanguageRequest{
		Topic:    "x",
		Language: locale.RO,
		Length:   studiogen.LengthMedium,
	})
	require.NoError(t, err)

	assert.Equal(t, locale.RO, got.Language)
	assert.Equal(t, "Titlu", content.Title)
	assert.Equal(t, []string{"go"}, content.Tags)
}

func TestEndpointSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ep := generator.NewEndpoint(srv.URL, "")
	_, err := ep.GenerateLanguage(context.Background(), studiogen.LanguageRequest{
		Topic: "x", Language: locale.EN, Length: studiogen.LengthShort,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestMockIsDeterministicAndWellFormed(t *testing.T) {
	content, err := generator.Mock{}.GenerateLanguage(context.Background(), studiogen.LanguageRequest{
		Topic:      "bees",
		Language:   locale.CS,
		Keywords:   []string{"hive"},
		IncludeSEO: true,
	})
	require.NoError(t, err)
	assert.Contains(t, content.Title, "bees")
	assert.Contains(t, content.Body, "# bees")
	assert.Contains(t, content.Tags, "hive")
	require.NotNil(t, content.SEO)
	assert.NotEmpty(t, content.SEO.MetaDescription)
}
