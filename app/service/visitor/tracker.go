package visitor

import (
	"math"
	"sync"
	"time"
)

// Tracker accumulates behavioral signals for a single page session.
// Scroll depth only ever grows; time-on-page is computed the first time it is
// read and frozen, no matter how much later it is read again.
type Tracker struct {
	loadedAt time.Time

	mu       sync.Mutex
	maxDepth int

	once       sync.Once
	timeOnPage time.Duration
}

func NewTracker(loadedAt time.Time) *Tracker {
	return &Tracker{loadedAt: loadedAt}
}

// Observe records a scroll position as a percentage of scrollable height.
// Out-of-range values are clamped, fractions rounded.
func (t *Tracker) Observe(percent float64) {
	depth := int(math.Round(percent))
	if depth < 0 {
		depth = 0
	}
	if depth > 100 {
		depth = 100
	}

	t.mu.Lock()
	if depth > t.maxDepth {
		t.maxDepth = depth
	}
	t.mu.Unlock()
}

func (t *Tracker) MaxScrollDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.maxDepth
}

// TimeOnPage returns the elapsed time between page load and the first call to
// this method. Subsequent calls return the same frozen value.
func (t *Tracker) TimeOnPage() time.Duration {
	t.once.Do(func() {
		t.timeOnPage = time.Since(t.loadedAt)
	})

	return t.timeOnPage
}
