package location

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/observability"
)

// DefaultTimeout bounds a single provider lookup.
const DefaultTimeout = 15 * time.Second

// ErrStaleFix is returned by Update for a fix stamped before the one already applied.
var ErrStaleFix = errors.New("stale location fix")

// Fix is a client-reported location tagged with the order it arrived in.
type Fix struct {
	Location models.UserLocation
	Seq      uint64
}

// State is a point-in-time view of the tracker.
type State struct {
	Location  *models.UserLocation `json:"location"`
	IsLoading bool                 `json:"is_loading"`
	Error     string               `json:"error,omitempty"`
	UpdatedAt *time.Time           `json:"updated_at,omitempty"`
}

// Tracker caches the last good fix from a Provider along with the loading
// and error state of the most recent lookup.
type Tracker struct {
	provider Provider
	clock    clockwork.Clock
	timeout  time.Duration
	metrics  *observability.Metrics
	seq      atomic.Uint64

	mu        sync.RWMutex
	current   *models.UserLocation
	applied   uint64
	loading   bool
	lastErr   error
	updatedAt time.Time
}

func NewTracker(provider Provider, clock clockwork.Clock, timeout time.Duration, metrics *observability.Metrics) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{
		provider: provider,
		clock:    clock,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// Refresh asks the provider for a new fix. On failure the previous fix is kept.
// A fix reported while the lookup was in flight wins over the lookup result.
func (t *Tracker) Refresh(ctx context.Context) (*models.UserLocation, error) {
	t.mu.Lock()
	t.loading = true
	started := t.applied
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	loc, err := t.provider.Locate(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if errors.Is(err, ErrNoFix) {
		t.lastErr = err
		slog.Debug("no location fix yet", "provider", t.provider.Name())
		return t.currentLocked(), err
	}
	if err != nil {
		t.lastErr = err
		t.metrics.LocationErrors.Inc()
		slog.Warn("location lookup failed", "provider", t.provider.Name(), "error", err)
		return t.currentLocked(), err
	}
	if t.applied != started {
		return t.currentLocked(), nil
	}

	t.lastErr = nil
	t.setLocked(loc)
	t.metrics.LocationUpdates.WithLabelValues(t.provider.Name()).Inc()
	return t.currentLocked(), nil
}

// Stamp tags loc with the next arrival sequence, filling in the timestamp
// when the client did not send one.
func (t *Tracker) Stamp(loc models.UserLocation) Fix {
	if loc.Timestamp.IsZero() {
		loc.Timestamp = t.clock.Now()
	}
	return Fix{Location: loc, Seq: t.seq.Add(1)}
}

// Update stores a stamped fix and forwards it to the provider when the
// provider accepts reports. Fixes older than the applied one return ErrStaleFix.
func (t *Tracker) Update(f Fix) error {
	loc := f.Location
	if err := loc.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if f.Seq <= t.applied {
		return ErrStaleFix
	}
	if r, ok := t.provider.(Reporter); ok {
		if err := r.Report(loc); err != nil {
			return err
		}
	}

	t.applied = f.Seq
	t.lastErr = nil
	t.setLocked(loc)
	t.metrics.LocationUpdates.WithLabelValues(string(ProviderTypeReported)).Inc()
	return nil
}

func (t *Tracker) setLocked(loc models.UserLocation) {
	t.current = &loc
	t.updatedAt = t.clock.Now()
}

func (t *Tracker) currentLocked() *models.UserLocation {
	if t.current == nil {
		return nil
	}
	loc := *t.current
	return &loc
}

// Current returns a copy of the last good fix, or nil when there is none.
func (t *Tracker) Current() *models.UserLocation {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentLocked()
}

func (t *Tracker) IsLoading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

func (t *Tracker) LastError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := State{
		Location:  t.currentLocked(),
		IsLoading: t.loading,
	}
	if t.lastErr != nil {
		s.Error = t.lastErr.Error()
	}
	if !t.updatedAt.IsZero() {
		at := t.updatedAt
		s.UpdatedAt = &at
	}
	return s
}

func (t *Tracker) ProviderName() string {
	return t.provider.Name()
}
