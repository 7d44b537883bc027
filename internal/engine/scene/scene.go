// Package scene ties the terrain world to an atlas and turns the visible
// voxel faces into a textured mesh.
package scene

import (
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelterrain/internal/config"
	"github.com/Faultbox/voxelterrain/internal/engine/atlas"
	"github.com/Faultbox/voxelterrain/internal/engine/terrain"
	"github.com/Faultbox/voxelterrain/internal/engine/texture"
)

// Options contains scene configuration options.
type Options struct {
	Size         int
	Seed         int64
	CubeSize     float32
	AutoClassify bool
	Tiles        *atlas.BlockSet // Explicit block tiles, wins over classification
}

// DefaultOptions returns the default scene options.
func DefaultOptions() Options {
	return Options{
		Size:         terrain.DefaultSize,
		Seed:         0,
		CubeSize:     1,
		AutoClassify: true,
	}
}

// OptionsFromConfig derives scene options from the loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Size:         cfg.World.Size,
		Seed:         cfg.World.Seed,
		CubeSize:     cfg.Export.CubeSize,
		AutoClassify: cfg.Atlas.AutoClassify,
	}
	if m := cfg.Atlas.Tiles; m != nil {
		blocks := atlas.NewBlockSet(m.Top, m.Side, m.Dirt)
		opts.Tiles = &blocks
	}
	return opts
}

// Scene manages the terrain world together with its texture atlas.
type Scene struct {
	opts  Options
	world *terrain.World
	log   *zap.Logger

	mu     sync.RWMutex
	atlas  *atlas.Atlas
	blocks atlas.BlockSet
	class  atlas.Classification
}

// New creates a scene and generates its first terrain from opts.Seed.
// The scene starts without an atlas.
func New(opts Options, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CubeSize <= 0 {
		opts.CubeSize = 1
	}

	s := &Scene{
		opts:  opts,
		world: terrain.NewWorld(opts.Size, opts.Seed, log.Named("terrain")),
		log:   log,
		atlas: &atlas.Atlas{},
	}
	s.blocks = s.resolveBlocks()
	return s
}

// World returns the underlying terrain world.
func (s *Scene) World() *terrain.World {
	return s.world
}

// Regenerate replaces the terrain with one built from seed.
func (s *Scene) Regenerate(seed int64) *terrain.HeightField {
	return s.world.Regenerate(seed)
}

// LoadField publishes a previously built height field.
func (s *Scene) LoadField(hf *terrain.HeightField) {
	s.world.Load(hf)
}

// HeightAt returns the column height at (x, z), or 0 outside the grid.
func (s *Scene) HeightAt(x, z int) int {
	return s.world.HeightAt(x, z)
}

// IsAirAt reports whether voxel (x, z, y) is empty.
func (s *Scene) IsAirAt(x, z, y int) bool {
	return s.world.IsAir(x, z, y)
}

// FaceMask returns the visible faces of voxel (x, z, y).
func (s *Scene) FaceMask(x, z, y int) terrain.FaceMask {
	return s.world.FaceMask(x, z, y)
}

// LoadAtlas decodes an atlas image from disk and makes it current.
// On failure the scene drops any previous atlas and keeps rendering with
// per-face textures; the error is returned for the caller to report.
func (s *Scene) LoadAtlas(path string) error {
	img, err := texture.Load(path)
	if err != nil {
		s.log.Warn("atlas not loaded, using per-face textures",
			zap.String("path", path),
			zap.Error(err))
		s.UseAtlasImage(nil)
		return fmt.Errorf("loading atlas: %w", err)
	}

	s.UseAtlasImage(img)
	return nil
}

// UseAtlasImage makes img the current atlas. A nil image clears the atlas.
func (s *Scene) UseAtlasImage(img image.Image) {
	a := atlas.New(img)

	var class atlas.Classification
	if a.Loaded() && s.opts.Tiles == nil && s.opts.AutoClassify {
		class = a.Classify()
	}

	s.mu.Lock()
	s.atlas = a
	s.class = class
	s.blocks = s.resolveBlocks()
	blocks := s.blocks
	s.mu.Unlock()

	if !a.Loaded() {
		return
	}
	s.log.Info("atlas loaded",
		zap.Int("width", a.Width),
		zap.Int("height", a.Height),
		zap.Int("tileSize", a.Grid.TileSize),
		zap.Int("cols", a.Grid.Cols),
		zap.Int("rows", a.Grid.Rows))
	if class.Scores != nil {
		s.log.Info("atlas classified",
			zap.Bool("valid", class.Valid),
			zap.Stringer("top", class.Top),
			zap.Stringer("side", class.Side),
			zap.Stringer("dirt", class.Dirt),
			zap.Float64("topScore", class.TopScore),
			zap.Float64("sideScore", class.SideScore),
			zap.Float64("dirtScore", class.DirtScore))
	}
	for _, t := range []atlas.Tile{blocks.Grass.Top, blocks.Grass.Side, blocks.Dirt.Top} {
		if !a.Grid.Contains(t) {
			s.log.Warn("block tile outside atlas grid", zap.Stringer("tile", t))
		}
	}
}

// resolveBlocks picks the block tiles: explicit mapping first, then a valid
// classification, then the default layout. Callers hold mu or own s.
func (s *Scene) resolveBlocks() atlas.BlockSet {
	switch {
	case s.opts.Tiles != nil:
		return *s.opts.Tiles
	case s.class.Valid:
		return atlas.FromClassification(s.class)
	default:
		return atlas.DefaultBlocks()
	}
}

// Atlas returns the current atlas. It is never nil; check Loaded.
func (s *Scene) Atlas() *atlas.Atlas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atlas
}

// Blocks returns the block tiles in use.
func (s *Scene) Blocks() atlas.BlockSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks
}

// Classification returns the last classifier result. It is the zero value
// when no classification ran.
func (s *Scene) Classification() atlas.Classification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.class
}

// BuildMesh builds the culled terrain mesh for the current field and atlas.
func (s *Scene) BuildMesh() *Mesh {
	_, cache := s.world.Snapshot()

	s.mu.RLock()
	a, blocks := s.atlas, s.blocks
	s.mu.RUnlock()

	mesh := BuildMesh(cache, a, blocks, s.opts.CubeSize)
	s.log.Debug("mesh built",
		zap.Int("faces", mesh.Faces),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
		zap.Bool("atlas", a.Loaded()))
	return mesh
}
