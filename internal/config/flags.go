package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagMesh     = flag.String("mesh", "", "Path to a level-0 mesh YAML file")
	flagChunks   = flag.Int("chunks", 0, "Chunks along each side of the world")
	flagMaxLevel = flag.Int("max-level", -1, "Deepest subdivision level")
	flagGrid     = flag.Int("grid", 0, "Grid cells per chunk side when no mesh file is given")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMesh != "" {
		cfg.Mesh.Path = *flagMesh
	}
	if *flagChunks > 0 {
		cfg.Terrain.NbChunks = *flagChunks
	}
	if *flagMaxLevel >= 0 {
		cfg.Terrain.MaxSubdivLevel = *flagMaxLevel
	}
	if *flagGrid > 0 {
		cfg.Mesh.GridCells = *flagGrid
	}
}
