package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravanpress/studio/pkg/studiogen"
	docmemory "github.com/caravanpress/studio/pkg/studiogen/docstore/memory"
	"github.com/caravanpress/studio/pkg/studiogen/generator"
)

func newTestService(t *testing.T) studiogen.Service {
	t.Helper()
	svc, err := studiogen.New(
		studiogen.WithGenerator(generator.Mock{}),
		studiogen.WithDocumentStore(docmemory.New()),
	)
	require.NoError(t, err)
	return svc
}

func TestRouterHealthz(t *testing.T) {
	router := NewRouter(newTestService(t), RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRouterJWTGuard(t *testing.T) {
	router := NewRouter(newTestService(t), RouterConfig{JWTSecret: "sekrit"})

	req := httptest.NewRequest(http.MethodGet, "/api/generate/00000000-0000-0000-0000-000000000001/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "missing token must be rejected")

	tokenAuth := jwtauth.New("HS256", []byte("sekrit"), nil)
	_, tokenString, err := tokenAuth.Encode(map[string]interface{}{"sub": "studio"})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/generate/00000000-0000-0000-0000-000000000001/progress", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "valid token reaches the handler")
}

func TestRouterAPIOpenWithoutSecret(t *testing.T) {
	router := NewRouter(newTestService(t), RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/generate/00000000-0000-0000-0000-000000000001/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
