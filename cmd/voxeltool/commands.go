package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelterrain/internal/engine/atlas"
	"github.com/Faultbox/voxelterrain/internal/engine/export"
	"github.com/Faultbox/voxelterrain/internal/engine/scene"
	"github.com/Faultbox/voxelterrain/internal/engine/terrain"
	"github.com/Faultbox/voxelterrain/internal/engine/texture"
	"github.com/Faultbox/voxelterrain/internal/logger"
)

func (t *tool) newScene() *scene.Scene {
	return scene.New(scene.OptionsFromConfig(t.cfg), logger.Named("scene"))
}

// loadAtlas tries the configured atlas. A missing atlas is not an error:
// the scene logs it and falls back to per-face textures.
func (t *tool) loadAtlas(s *scene.Scene) {
	if t.cfg.Atlas.Path == "" {
		return
	}
	_ = s.LoadAtlas(t.cfg.Atlas.Path)
}

func printFieldStats(c *cli.Context, hf *terrain.HeightField, cache *terrain.VisibilityCache) {
	w := c.App.Writer
	stats := cache.Stats()

	fmt.Fprintf(w, "Seed:      %d\n", hf.Seed)
	fmt.Fprintf(w, "Size:      %dx%d\n", hf.Size, hf.Size)
	fmt.Fprintf(w, "Heights:   %d..%d\n", hf.MinHeight(), hf.MaxHeight())
	fmt.Fprintf(w, "Solid:     %d\n", stats.Solid)
	fmt.Fprintf(w, "Visible:   %d\n", stats.Visible)
	fmt.Fprintf(w, "Culled:    %d\n", stats.Culled())
	fmt.Fprintf(w, "Faces:     %d\n", stats.Faces)
	fmt.Fprintf(w, "Checksum:  %016x\n", hf.Checksum())
}

func (t *tool) cmdGenerate(c *cli.Context) error {
	s := t.newScene()
	hf, cache := s.World().Snapshot()
	printFieldStats(c, hf, cache)

	if c.Bool("heights") {
		w := c.App.Writer
		fmt.Fprintln(w)
		for z := range hf.Size {
			for x := range hf.Size {
				fmt.Fprintf(w, "%3d", hf.HeightAt(x, z))
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (t *tool) cmdQuery(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: voxeltool query <x> <z> [y]")
	}

	coords := make([]int, c.NArg())
	for i := range coords {
		v, err := strconv.Atoi(c.Args().Get(i))
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", c.Args().Get(i), err)
		}
		coords[i] = v
	}

	s := t.newScene()
	x, z := coords[0], coords[1]
	h := s.HeightAt(x, z)
	w := c.App.Writer
	fmt.Fprintf(w, "Column (%d,%d): height %d\n", x, z, h)

	ys := []int{h - 1}
	if len(coords) > 2 {
		ys = []int{coords[2]}
	}
	for _, y := range ys {
		fmt.Fprintf(w, "Voxel (%d,%d,%d): air=%t faces=%s\n", x, z, y, s.IsAirAt(x, z, y), s.FaceMask(x, z, y))
	}
	return nil
}

func (t *tool) cmdInspectAtlas(c *cli.Context) error {
	path := t.cfg.Atlas.Path
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	img, err := texture.Load(path)
	if err != nil {
		return err
	}
	a := atlas.New(img)
	class := a.Classify()

	w := c.App.Writer
	fmt.Fprintf(w, "Atlas:     %s\n", path)
	fmt.Fprintf(w, "Size:      %dx%d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Tile size: %d\n", a.Grid.TileSize)
	fmt.Fprintf(w, "Grid:      %d cols x %d rows\n", a.Grid.Cols, a.Grid.Rows)
	fmt.Fprintln(w)

	for _, role := range []atlas.Role{atlas.RoleTop, atlas.RoleSide, atlas.RoleDirt} {
		tile := class.Tile(role)
		uv := a.UV(tile)
		fmt.Fprintf(w, "%-10s %-8s score %7.3f  uv (%.4f,%.4f)-(%.4f,%.4f)\n",
			role, tile, class.Score(role),
			uv.U0, uv.V0, uv.U1, uv.V1)
	}
	fmt.Fprintf(w, "Valid:     %t\n", class.Valid)

	if c.Bool("scores") {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-8s %8s %8s %8s %8s %8s %8s %8s\n",
			"TILE", "GREEN", "BROWN", "TOPGRN", "BOTBRN", "TOP", "SIDE", "DIRT")
		for _, ts := range class.Scores {
			fmt.Fprintf(w, "%-8s %8.2f %8.2f %8.3f %8.3f %8.2f %8.3f %8.2f\n",
				ts.Tile, ts.Green, ts.Brown, ts.TopGreen, ts.BottomBrown,
				ts.TopScore(), ts.SideScore(), ts.DirtScore())
		}
	}
	return nil
}

var fallbackNames = map[atlas.Role]string{
	atlas.RoleTop:  "grass_top.png",
	atlas.RoleSide: "grass_side.png",
	atlas.RoleDirt: "dirt.png",
}

func (t *tool) cmdFallback(c *cli.Context) error {
	dir := c.String("dir")
	tileSize := c.Int("tile-size")
	if tileSize <= 0 {
		tileSize = t.cfg.Atlas.FallbackTileSize
	}

	images := atlas.FallbackImages(atlas.FallbackTextureSize)
	for _, role := range []atlas.Role{atlas.RoleTop, atlas.RoleSide, atlas.RoleDirt} {
		path := filepath.Join(dir, fallbackNames[role])
		if err := texture.SavePNG(path, images[role]); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	}

	path := filepath.Join(dir, "atlas.png")
	if err := texture.SavePNG(path, atlas.FallbackAtlas(tileSize)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s (3x1 tiles of %dpx)\n", path, tileSize)
	return nil
}

func (t *tool) cmdExport(c *cli.Context) error {
	s := t.newScene()
	if snap := c.String("snapshot"); snap != "" {
		hf, err := readSnapshot(snap)
		if err != nil {
			return err
		}
		s.LoadField(hf)
	}
	t.loadAtlas(s)

	mesh := s.BuildMesh()
	out := t.cfg.Export.Output
	if err := export.SaveGLB(out, mesh, export.OptionsForScene(s)); err != nil {
		return err
	}

	t.log.Info("mesh exported",
		zap.String("path", out),
		zap.Int("faces", mesh.Faces),
		zap.Bool("atlas", s.Atlas().Loaded()))
	fmt.Fprintf(c.App.Writer, "Wrote %s (%d faces, %d vertices)\n", out, mesh.Faces, len(mesh.Vertices))
	return nil
}

func readSnapshot(path string) (*terrain.HeightField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	hf, err := terrain.UnmarshalHeightField(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return hf, nil
}

func (t *tool) cmdSnapshotSave(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: voxeltool snapshot save <file>")
	}
	path := c.Args().First()

	s := t.newScene()
	hf := s.World().Field()
	data, err := hf.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Wrote %s (%d bytes, checksum %016x)\n", path, len(data), hf.Checksum())
	return nil
}

func (t *tool) cmdSnapshotLoad(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: voxeltool snapshot load <file>")
	}

	hf, err := readSnapshot(c.Args().First())
	if err != nil {
		return err
	}
	printFieldStats(c, hf, terrain.NewVisibilityCache(hf))
	return nil
}

func (t *tool) cmdConfigInit(c *cli.Context) error {
	var (
		path string
		err  error
	)
	if c.NArg() > 0 {
		path = c.Args().First()
		err = t.cfg.SaveTo(path)
	} else {
		path, err = t.cfg.Save()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}
