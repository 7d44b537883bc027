package terrain

import (
	"sync"

	"go.uber.org/zap"
)

// World owns the current height field and its visibility cache.
// Regenerate builds a new field off to the side and swaps it in, so readers
// holding a Snapshot never see a half-written field. Regenerate and Load are
// serialised against each other by writeMu.
type World struct {
	size  int
	field *HeightField
	cache *VisibilityCache
	log   *zap.Logger

	writeMu sync.Mutex   // held for the whole of Regenerate and Load
	mu      sync.RWMutex // guards size, field and cache
}

// NewWorld creates a world of the given size and generates its first field.
func NewWorld(size int, seed int64, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{size: size, log: log}
	w.Regenerate(seed)
	return w
}

// Regenerate replaces the whole height field with one built from seed.
func (w *World) Regenerate(seed int64) *HeightField {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	// size only changes under writeMu, so it is stable here
	hf := Generate(seed, w.size)
	cache := NewVisibilityCache(hf)

	w.mu.Lock()
	w.field = hf
	w.cache = cache
	w.mu.Unlock()

	stats := cache.Stats()
	w.log.Info("terrain generated",
		zap.Int64("seed", seed),
		zap.Int("size", hf.Size),
		zap.Int("minHeight", hf.MinHeight()),
		zap.Int("maxHeight", hf.MaxHeight()),
		zap.Int("solid", stats.Solid),
		zap.Int("visible", stats.Visible),
		zap.Int("faces", stats.Faces),
		zap.Uint64("checksum", hf.Checksum()))

	return hf
}

// Load publishes an externally built field, e.g. one decoded from a snapshot.
func (w *World) Load(hf *HeightField) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	cache := NewVisibilityCache(hf)

	w.mu.Lock()
	w.size = hf.Size
	w.field = hf
	w.cache = cache
	w.mu.Unlock()

	w.log.Debug("terrain loaded",
		zap.Int64("seed", hf.Seed),
		zap.Int("size", hf.Size))
}

// Snapshot returns the current field and its cache as a consistent pair.
func (w *World) Snapshot() (*HeightField, *VisibilityCache) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.field, w.cache
}

// Field returns the current height field.
func (w *World) Field() *HeightField {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.field
}

// Seed returns the seed of the current field.
func (w *World) Seed() int64 {
	return w.Field().Seed
}

// Size returns the side length of the grid.
func (w *World) Size() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.size
}

// HeightAt returns the column height at (x, z), or 0 outside the grid.
func (w *World) HeightAt(x, z int) int {
	return w.Field().HeightAt(x, z)
}

// IsAir reports whether (x, z, y) is empty in the current field.
func (w *World) IsAir(x, z, y int) bool {
	return w.Field().IsAir(x, z, y)
}

// FaceMask returns the visible faces of (x, z, y) in the current field.
func (w *World) FaceMask(x, z, y int) FaceMask {
	_, cache := w.Snapshot()
	return cache.Mask(x, z, y)
}
