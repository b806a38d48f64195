// Package api exposes the studio generation panel's HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// GenerateHandler handles HTTP requests for content generation runs.
type GenerateHandler struct {
	svc studiogen.Service

	mu      sync.Mutex
	results map[uuid.UUID]*completedRun
}

type completedRun struct {
	documentID string
	payload    *studiogen.PatchPayload
}

// NewGenerateHandler creates a new generation handler.
func NewGenerateHandler(svc studiogen.Service) *GenerateHandler {
	return &GenerateHandler{
		svc:     svc,
		results: make(map[uuid.UUID]*completedRun),
	}
}

// Routes returns the routes for generation runs.
func (h *GenerateHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/generate", h.Generate)
	r.Get("/generate/{runID}/progress", h.Progress)
	r.Post("/generate/{runID}/apply", h.Apply)
	r.Post("/images/search", h.SearchImages)

	return r
}

// GenerateRequest is the request body for starting a generation run.
type GenerateRequest struct {
	DocumentID string `json:"documentId"`
	studiogen.GenerationRequest
}

// LanguageOutcome reports one language's result in a finished run.
type LanguageOutcome struct {
	Language string `json:"language"`
	Error    string `json:"error,omitempty"`
}

// GenerateResponse is the response body for a finished run.
type GenerateResponse struct {
	RunID     string                  `json:"runId"`
	Payload   *studiogen.PatchPayload `json:"payload"`
	Languages []LanguageOutcome       `json:"languages"`
}

// Generate runs the full workflow synchronously and returns the assembled
// patch payload. Nothing is written to the document store until the caller
// applies the run.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" {
		http.Error(w, "documentId is required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Generate(r.Context(), req.DocumentID, req.GenerationRequest)
	if err != nil {
		var genErr *studiogen.GenerationError
		status := http.StatusInternalServerError
		if errors.As(err, &genErr) && genErr.Phase == studiogen.PhaseValidating {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.mu.Lock()
	h.results[result.RunID] = &completedRun{
		documentID: req.DocumentID,
		payload:    result.Payload,
	}
	h.mu.Unlock()

	resp := GenerateResponse{
		RunID:   result.RunID.String(),
		Payload: result.Payload,
	}
	for _, lr := range result.Languages {
		outcome := LanguageOutcome{Language: string(lr.Language)}
		if lr.Err != nil {
			outcome.Error = lr.Err.Error()
		}
		resp.Languages = append(resp.Languages, outcome)
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// Progress reports the latest progress snapshot for a run.
func (h *GenerateHandler) Progress(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		http.Error(w, "Invalid run ID", http.StatusBadRequest)
		return
	}

	progress, ok := h.svc.Progress(runID)
	if !ok {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	render.JSON(w, r, progress)
}

// Apply patches the run's target document with the stored payload.
func (h *GenerateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		http.Error(w, "Invalid run ID", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	run, ok := h.results[runID]
	h.mu.Unlock()
	if !ok {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	if err := h.svc.Apply(r.Context(), run.documentID, run.payload); err != nil {
		slog.Error("apply failed", "run_id", runID, "document_id", run.documentID, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	render.JSON(w, r, map[string]string{"documentId": run.documentID, "status": "applied"})
}

// SearchImagesRequest is the request body for an image search.
type SearchImagesRequest struct {
	Query string `json:"query"`
}

// SearchImages proxies the panel's featured-image search.
func (h *GenerateHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	var req SearchImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	images, err := h.svc.SearchImages(r.Context(), req.Query)
	if err != nil {
		http.Error(w, "Image search failed", http.StatusBadGateway)
		return
	}

	render.JSON(w, r, map[string]any{"results": images})
}
