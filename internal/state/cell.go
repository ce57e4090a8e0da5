// Package state holds the application snapshot shared between the refresh
// loop and the dashboard handlers. The refresher is the single writer;
// handlers and the websocket hub read.
package state

import (
	"sync"
	"time"

	"github.com/plantstack/plantwatch/internal/models"
)

// Snapshot is one consistent view of the dashboard's data.
type Snapshot struct {
	Series     models.Series
	Overview   models.Overview
	Settings   models.Settings
	LastUpdate time.Time
}

// Cell is the RWMutex-guarded state shared across refresh cycles.
type Cell struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewCell creates a Cell seeded with the given settings and no data yet.
func NewCell(settings models.Settings) *Cell {
	return &Cell{snapshot: Snapshot{Settings: settings}}
}

// Snapshot returns the current state. The returned series must be treated as
// read-only; the writer replaces it wholesale rather than mutating it.
func (c *Cell) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Settings returns the active dashboard settings.
func (c *Cell) Settings() models.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.Settings
}

// SetData publishes a fresh refresh result.
func (c *Cell) SetData(series models.Series, overview models.Overview, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Series = series
	c.snapshot.Overview = overview
	c.snapshot.LastUpdate = at
}

// SetSettings replaces the active settings. Callers validate first.
func (c *Cell) SetSettings(settings models.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Settings = settings
}
