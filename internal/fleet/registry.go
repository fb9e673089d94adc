// Package fleet maintains the most recent state observed for every
// neighbor. Entries expire when a rover stops advertising.
package fleet

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/log"
)

const cleanupInterval = 10 * time.Second

// Registry is the in-process fleet-state aggregator. It consumes the
// discovery hand-off channel and keeps one entry per neighbor MAC.
type Registry struct {
	entries *cache.Cache // MAC → core.Neighbor
	log     log.Logger
}

// NewRegistry creates a registry whose entries expire after ttl without
// a fresh advertisement.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		entries: cache.New(ttl, cleanupInterval),
		log:     log.GetLogger().WithField("component", "fleet"),
	}
}

// Intake consumes neighbors off the hand-off channel in arrival order
// until the channel closes or the context is cancelled. Run it on its own
// goroutine; it is the single consumer of the discovery worker's output.
func (r *Registry) Intake(ctx context.Context, in <-chan core.Neighbor) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-in:
			if !ok {
				return
			}
			r.Upsert(n)
		}
	}
}

// Upsert records the latest state for a neighbor, refreshing its TTL.
func (r *Registry) Upsert(n core.Neighbor) {
	r.entries.SetDefault(n.MAC, n)
	r.log.Debugf("fleet update: %s id=%d mode=%s", n.MAC, n.Identifier, n.Mode)
}

// Get returns the latest state for a MAC, if it has not expired.
func (r *Registry) Get(mac string) (core.Neighbor, bool) {
	v, ok := r.entries.Get(mac)
	if !ok {
		return core.Neighbor{}, false
	}
	return v.(core.Neighbor), true
}

// Snapshot returns the current fleet state as a MAC-keyed map.
func (r *Registry) Snapshot() map[string]core.Neighbor {
	items := r.entries.Items()
	out := make(map[string]core.Neighbor, len(items))
	for mac, item := range items {
		out[mac] = item.Object.(core.Neighbor)
	}
	return out
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return r.entries.ItemCount()
}
