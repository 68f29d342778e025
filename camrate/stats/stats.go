// Package stats records what render gates decide on each tick.
//
// Stores are best effort: callers log a failed Record and keep going, a
// stats backend must never slow down or stop rendering.
package stats

import (
	"context"
	"time"

	"github.com/valerio/go-camrate/camrate/gate"
)

// Event is one gate decision.
type Event struct {
	Camera  string
	Outcome gate.Outcome
	At      time.Time
}

// Store persists gate decisions.
type Store interface {
	Record(ctx context.Context, ev Event) error
}

// Counters aggregates outcomes.
type Counters struct {
	Skipped     int64
	Continuous  int64
	Requests    int64
	Unsupported int64
}

// Renders is the number of ticks that produced a render.
func (c Counters) Renders() int64 {
	return c.Continuous + c.Requests
}

func (c *Counters) add(o gate.Outcome) {
	switch o {
	case gate.Skipped:
		c.Skipped++
	case gate.RenderedContinuous:
		c.Continuous++
	case gate.RenderedRequest:
		c.Requests++
	case gate.RequestUnsupported:
		c.Unsupported++
	}
}

// Multi fans an event out to several stores. All stores see the event; the
// first error is returned.
type Multi []Store

func (m Multi) Record(ctx context.Context, ev Event) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
