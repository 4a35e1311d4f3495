// terraintool builds an adaptive terrain mesh and inspects its refinement levels.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	// The command follows the global flags.
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command, rest := args[0], args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, rest)
	case "refine":
		err = cmdRefine(cfg, rest)
	case "chunk":
		err = cmdChunk(cfg, rest)
	case "near":
		err = cmdNear(cfg, rest)
	case "biome":
		err = cmdBiome(cfg, rest)
	case "global":
		err = cmdGlobal(cfg, rest)
	case "save-config":
		err = cmdSaveConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - adaptive LOD terrain utility

Usage:
  terraintool [flags] <command> [options]

Flags:
  -config <file>     Config file (default ./config.yaml, then the user config dir)
  -mesh <file>       Level-0 mesh, YAML or .gat (default: generated grid)
  -grid <n>          Grid cells per chunk side for the generated mesh
  -chunks <n>        Chunks along each side of the world
  -max-level <n>     Deepest subdivision level
  -debug             Enable debug logging

Commands:
  info                          Show world layout and level statistics
  refine [-level n] [x,y ...]   Refine chunks through the subdivision worker
  chunk <x> <y> <level>         List the triangles of a chunk (refines on demand)
  near <x> <y> <level>          List the triangles near a world position
  biome <x> <y> <level>         Show the biome at a world position
  global [n]                    Generate n whole-world levels (default: all)
  save-config <file>            Write the effective configuration

Examples:
  terraintool info
  terraintool -grid 2 -max-level 3 refine -level 3 0,0 1,1
  terraintool -mesh island.yaml chunk 4 7 2
  terraintool -mesh prontera.gat -chunks 8 info
  terraintool biome 200.5 64 3`)
}
