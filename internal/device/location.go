// Package device adapts the capabilities a phone would provide (position
// fix, permission prompt, phone call) to a terminal.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/safewatch/safewatch/internal/config"
)

var (
	ErrPositionUnavailable = errors.New("unable to get your current location")
	ErrLocationTimeout     = errors.New("timed out waiting for a location fix")
)

// Position is a single location fix.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters, 0 when unknown
	Timestamp time.Time
}

// String formats the coordinates with six decimals, the form used in alert
// messages.
func (p Position) String() string {
	return FormatCoords(p.Latitude, p.Longitude)
}

// FormatCoords renders "lat, lng" with six decimals.
func FormatCoords(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

// Source produces a fresh fix.
type Source func(ctx context.Context, highAccuracy bool) (Position, error)

// LocatorOptions mirrors the usual geolocation request options.
type LocatorOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Locator returns position fixes, reusing a recent one when it is younger
// than MaximumAge.
type Locator struct {
	source Source
	opts   LocatorOptions
	now    func() time.Time

	mu   sync.Mutex
	last *Position
}

// NewLocator wraps source.
func NewLocator(source Source, opts LocatorOptions) *Locator {
	return &Locator{source: source, opts: opts, now: time.Now}
}

// NewConfigLocator builds a Locator over the coordinates in cfg. A disabled
// location section yields a locator that always fails.
func NewConfigLocator(cfg config.LocationConfig) *Locator {
	opts := LocatorOptions{
		HighAccuracy: cfg.HighAccuracy,
		Timeout:      time.Duration(cfg.TimeoutMS) * time.Millisecond,
		MaximumAge:   time.Duration(cfg.MaximumAgeMS) * time.Millisecond,
	}
	return NewLocator(FixedSource(cfg), opts)
}

// FixedSource reports the configured coordinates.
func FixedSource(cfg config.LocationConfig) Source {
	return func(ctx context.Context, _ bool) (Position, error) {
		if !cfg.Enabled {
			return Position{}, ErrPositionUnavailable
		}
		if err := ctx.Err(); err != nil {
			return Position{}, err
		}
		return Position{Latitude: cfg.Latitude, Longitude: cfg.Longitude, Timestamp: time.Now()}, nil
	}
}

// CurrentPosition returns a fix, waiting at most the configured timeout.
func (l *Locator) CurrentPosition(ctx context.Context) (Position, error) {
	l.mu.Lock()
	if l.last != nil && l.opts.MaximumAge > 0 && l.now().Sub(l.last.Timestamp) <= l.opts.MaximumAge {
		p := *l.last
		l.mu.Unlock()
		return p, nil
	}
	l.mu.Unlock()

	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	type result struct {
		pos Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		p, err := l.source(ctx, l.opts.HighAccuracy)
		done <- result{p, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrLocationTimeout
		}
		return Position{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return Position{}, ErrLocationTimeout
			}
			return Position{}, r.err
		}
		if r.pos.Timestamp.IsZero() {
			r.pos.Timestamp = l.now()
		}
		l.mu.Lock()
		p := r.pos
		l.last = &p
		l.mu.Unlock()
		return r.pos, nil
	}
}
