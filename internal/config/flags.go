package config

// Overrides carries command-line values that take priority over the file.
// Zero values leave the config untouched.
type Overrides struct {
	ConfigPath string
	Debug      bool
	Size       int
	Seed       *int64
	AtlasPath  string
	NoClassify bool
	Output     string
	LogFile    string
}

// applyOverrides applies CLI overrides to the config.
func applyOverrides(cfg *Config, ov Overrides) {
	if ov.Debug {
		cfg.Logging.Level = "debug"
	}
	if ov.Size > 0 {
		cfg.World.Size = ov.Size
	}
	if ov.Seed != nil {
		cfg.World.Seed = *ov.Seed
	}
	if ov.AtlasPath != "" {
		cfg.Atlas.Path = ov.AtlasPath
	}
	if ov.NoClassify {
		cfg.Atlas.AutoClassify = false
	}
	if ov.Output != "" {
		cfg.Export.Output = ov.Output
	}
	if ov.LogFile != "" {
		cfg.Logging.LogFile = ov.LogFile
	}
}
