// Package location supplies the user's current position to the ranker.
package location

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-travel-safety/internal/geo"
	"github.com/mr1hm/go-travel-safety/internal/models"
)

// ErrNoFix is returned while a provider has no position to report.
var ErrNoFix = errors.New("no location fix available")

// Provider yields the user's current location or an error.
type Provider interface {
	Locate(ctx context.Context) (models.UserLocation, error)
	Name() string
}

// Reporter is implemented by providers that accept pushed fixes.
type Reporter interface {
	Report(loc models.UserLocation) error
}

type ProviderType string

const (
	// ProviderTypeStatic always returns a configured coordinate.
	ProviderTypeStatic ProviderType = "static"
	// ProviderTypeReported returns the last fix reported by a client.
	ProviderTypeReported ProviderType = "reported"
)

type ProviderConfig struct {
	Type           ProviderType
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	Clock          clockwork.Clock
}

// NewProvider builds the provider named by cfg.Type.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	switch cfg.Type {
	case ProviderTypeStatic:
		p, err := NewStaticProvider(models.UserLocation{
			Coordinate:     geo.Point{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
			AccuracyMeters: cfg.AccuracyMeters,
		}, cfg.Clock)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderTypeReported:
		return NewReportedProvider(cfg.Clock), nil
	default:
		return nil, fmt.Errorf("unsupported location provider: %q", cfg.Type)
	}
}

type StaticProvider struct {
	loc   models.UserLocation
	clock clockwork.Clock
}

func NewStaticProvider(loc models.UserLocation, clock clockwork.Clock) (*StaticProvider, error) {
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("static location: %w", err)
	}
	return &StaticProvider{loc: loc, clock: clock}, nil
}

func (p *StaticProvider) Locate(ctx context.Context) (models.UserLocation, error) {
	if err := ctx.Err(); err != nil {
		return models.UserLocation{}, err
	}
	loc := p.loc
	loc.Timestamp = p.clock.Now()
	return loc, nil
}

func (p *StaticProvider) Name() string { return string(ProviderTypeStatic) }

// ReportedProvider holds the most recent fix pushed by a client.
type ReportedProvider struct {
	clock clockwork.Clock

	mu  sync.RWMutex
	loc *models.UserLocation
}

func NewReportedProvider(clock clockwork.Clock) *ReportedProvider {
	return &ReportedProvider{clock: clock}
}

func (p *ReportedProvider) Report(loc models.UserLocation) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if loc.Timestamp.IsZero() {
		loc.Timestamp = p.clock.Now()
	}

	p.mu.Lock()
	p.loc = &loc
	p.mu.Unlock()
	return nil
}

func (p *ReportedProvider) Locate(ctx context.Context) (models.UserLocation, error) {
	if err := ctx.Err(); err != nil {
		return models.UserLocation{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.loc == nil {
		return models.UserLocation{}, ErrNoFix
	}
	return *p.loc, nil
}

func (p *ReportedProvider) Name() string { return string(ProviderTypeReported) }
