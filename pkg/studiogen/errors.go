package studiogen

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrEmptyTopic indicates the request carried no topic.
	ErrEmptyTopic = errors.New("topic is required")

	// ErrNoLanguages indicates the request selected no languages.
	ErrNoLanguages = errors.New("at least one language must be selected")

	// ErrUnsupportedLanguage indicates a language outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language code")

	// ErrGenerationTimeout indicates the run took too long. It carries a
	// distinct user-facing message from other failures.
	ErrGenerationTimeout = errors.New("generation took too long, try a shorter article")

	// ErrUploadFailed indicates a featured-image upload failed. Callers
	// treat this as non-fatal and proceed without an image.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrNoDocumentStore indicates an operation needing the document store
	// was invoked on a service built without one.
	ErrNoDocumentStore = errors.New("document store not configured")
)

// GenerationError wraps a failure that aborted a run, recording the phase it
// was raised in.
type GenerationError struct {
	RunID uuid.UUID
	Phase Phase
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation run %s failed in phase %s: %v", e.RunID, e.Phase, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
