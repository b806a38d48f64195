package studiogen

import (
	"sync"

	"github.com/google/uuid"
)

// ProgressTracker retains the latest progress snapshot per run so the HTTP
// surface can poll it. It is safe for concurrent use.
type ProgressTracker struct {
	mu     sync.RWMutex
	latest map[uuid.UUID]Progress
}

// NewProgressTracker creates an empty tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{latest: make(map[uuid.UUID]Progress)}
}

// Publish implements ProgressSink.
func (t *ProgressTracker) Publish(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[p.RunID] = p
}

// Latest returns the most recent snapshot for a run.
func (t *ProgressTracker) Latest(runID uuid.UUID) (Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.latest[runID]
	return p, ok
}

// multiSink fans a snapshot out to every sink.
type multiSink []ProgressSink

func (m multiSink) Publish(p Progress) {
	for _, s := range m {
		s.Publish(p)
	}
}
