package studiogen

import (
	"context"

	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen/imagesearch"
)

// Service drives the document-generation workflow for the studio panel.
type Service interface {
	// Generate runs the full workflow for one request and returns the
	// patch payload for the target document. It does not persist anything.
	Generate(ctx context.Context, documentID string, req GenerationRequest) (*GenerationResult, error)

	// Apply commits a returned payload to the target document.
	Apply(ctx context.Context, documentID string, payload *PatchPayload) error

	// Progress returns the latest snapshot for a run.
	Progress(runID uuid.UUID) (Progress, bool)

	// SearchImages proxies the image-search collaborator for the panel's
	// picker.
	SearchImages(ctx context.Context, query string) ([]imagesearch.Image, error)
}
