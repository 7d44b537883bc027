// voxeltool generates voxel terrain, inspects texture atlases and exports the
// culled terrain mesh without opening a window.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelterrain/internal/config"
	"github.com/Faultbox/voxelterrain/internal/logger"
)

// tool carries what the global flags resolve to into the commands.
type tool struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	t := &tool{}

	return &cli.App{
		Name:  "voxeltool",
		Usage: "voxel terrain generator and atlas utility",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to config file"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "log-file", Usage: "log file path (enables file logging)"},
			&cli.IntFlag{Name: "size", Usage: "terrain side length"},
			&cli.Int64Flag{Name: "seed", Usage: "terrain seed"},
			&cli.StringFlag{Name: "atlas", Aliases: []string{"a"}, Usage: "texture atlas path"},
			&cli.BoolFlag{Name: "no-classify", Usage: "use the default tile layout instead of guessing"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "export .glb path"},
		},
		Before: t.setup,
		After: func(*cli.Context) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "generate terrain and print its statistics",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "heights", Usage: "print the height grid"}},
				Action: t.cmdGenerate,
			},
			{
				Name:      "query",
				Usage:     "print height, occupancy and visible faces of a voxel",
				ArgsUsage: "<x> <z> [y]",
				Action:    t.cmdQuery,
			},
			{
				Name:      "inspect-atlas",
				Usage:     "detect an atlas grid and classify its tiles",
				ArgsUsage: "[atlas]",
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "scores", Usage: "print per-tile scores"}},
				Action:    t.cmdInspectAtlas,
			},
			{
				Name:  "fallback",
				Usage: "write the generated fallback textures and atlas as PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: ".", Usage: "output directory"},
					&cli.IntFlag{Name: "tile-size", Usage: "atlas tile size (default from config)"},
				},
				Action: t.cmdFallback,
			},
			{
				Name:  "export",
				Usage: "export the culled terrain mesh as binary glTF",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "snapshot", Usage: "export a saved height field instead of generating one"},
				},
				Action: t.cmdExport,
			},
			{
				Name:  "snapshot",
				Usage: "save and load compressed height fields",
				Subcommands: []*cli.Command{
					{
						Name:      "save",
						Usage:     "generate terrain and write it to a file",
						ArgsUsage: "<file>",
						Action:    t.cmdSnapshotSave,
					},
					{
						Name:      "load",
						Usage:     "read a snapshot and print its statistics",
						ArgsUsage: "<file>",
						Action:    t.cmdSnapshotLoad,
					},
				},
			},
			{
				Name:  "config",
				Usage: "manage the config file",
				Subcommands: []*cli.Command{
					{
						Name:      "init",
						Usage:     "write the effective config to a file",
						ArgsUsage: "[file]",
						Action:    t.cmdConfigInit,
					},
				},
			},
		},
	}
}

// setup loads config with flag overrides and initializes logging.
func (t *tool) setup(c *cli.Context) error {
	ov := config.Overrides{
		ConfigPath: c.String("config"),
		Debug:      c.Bool("debug"),
		Size:       c.Int("size"),
		AtlasPath:  c.String("atlas"),
		NoClassify: c.Bool("no-classify"),
		Output:     c.String("output"),
		LogFile:    c.String("log-file"),
	}
	if c.IsSet("seed") {
		seed := c.Int64("seed")
		ov.Seed = &seed
	}

	cfg, err := config.Load(ov)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	t.cfg = cfg
	t.log = logger.Log
	logger.Sugar.Debugf("config: %+v", cfg)
	return nil
}
