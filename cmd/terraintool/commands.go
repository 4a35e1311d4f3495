package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func cmdInfo(cfg *config.Config, args []string) error {
	g, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	p := g.Params()

	source := cfg.Mesh.Path
	if source == "" {
		source = fmt.Sprintf("generated grid, %d cells per chunk", cfg.Mesh.GridCells)
	}

	ocean := 0
	for x := range p.NbChunks {
		for y := range p.NbChunks {
			if g.IsOcean(x, y) {
				ocean++
			}
		}
	}

	fmt.Printf("Mesh:       %s\n", source)
	fmt.Printf("World:      %dx%d chunks of %g units (extent %g)\n", p.NbChunks, p.NbChunks, p.ChunkSize, p.MaxCoord())
	fmt.Printf("Max level:  %d\n", p.MaxSubdivLevel)
	fmt.Printf("Ocean:      %d of %d chunks\n", ocean, p.NbChunks*p.NbChunks)
	fmt.Println()
	printLevels(g)
	return nil
}

func cmdRefine(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("refine", flag.ExitOnError)
	level := fs.Int("level", cfg.Terrain.MaxSubdivLevel, "Target subdivision level")
	fs.Parse(args)

	g, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	p := g.Params()

	var reqs []terrain.Request
	if fs.NArg() == 0 {
		for x := range p.NbChunks {
			for y := range p.NbChunks {
				reqs = append(reqs, terrain.Request{X: x, Y: y, Level: *level})
			}
		}
	}
	for _, arg := range fs.Args() {
		x, y, err := parseChunk(arg)
		if err != nil {
			return err
		}
		reqs = append(reqs, terrain.Request{X: x, Y: y, Level: *level})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := 0
	worker := terrain.NewSubdivider(g, cfg.Worker.QueueSize, terrain.OnDone(func(terrain.Request) {
		done++
	}))

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return worker.Run(ctx)
	})
	eg.Go(func() error {
		defer worker.Close()
		for _, r := range reqs {
			if err := worker.Enqueue(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("refinement interrupted", zap.Int("done", done), zap.Int("requested", len(reqs)))
		}
		return err
	}

	logger.Info("refinement finished",
		zap.Int("requests", len(reqs)),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Printf("Refined %d chunk requests to level %d in %v\n", done, *level, time.Since(start).Round(time.Millisecond))
	fmt.Println()
	printAchieved(g)
	fmt.Println()
	printLevels(g)
	return nil
}

func cmdChunk(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	limit := fs.Int("n", 10, "Limit output to N triangles (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 3 {
		return errors.New("usage: terraintool chunk [-n N] <x> <y> <level>")
	}
	x, y, level, err := parseInts3(fs.Args())
	if err != nil {
		return err
	}

	g, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	if !g.Params().InRange(x, y) {
		return fmt.Errorf("chunk (%d,%d) is outside the %dx%d world", x, y, g.Params().NbChunks, g.Params().NbChunks)
	}

	views := g.TrianglesInChunk(x, y, level)
	fmt.Printf("Chunk (%d,%d) at level %d: %d triangles\n", x, y, g.AchievedLevel(x, y), len(views))
	printViews(views, *limit)
	return nil
}

func cmdNear(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("near", flag.ExitOnError)
	limit := fs.Int("n", 10, "Limit output to N triangles (0 = all)")
	refine := fs.Bool("refine", false, "Refine the enclosing chunk first")
	fs.Parse(args)

	g, pos, level, err := positionQuery(cfg, fs, "near", *refine)
	if err != nil {
		return err
	}

	views := g.TrianglesNearPos(pos, level)
	fmt.Printf("Near (%g,%g): %d triangles\n", pos.X, pos.Y, len(views))
	printViews(views, *limit)
	return nil
}

func cmdBiome(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("biome", flag.ExitOnError)
	refine := fs.Bool("refine", false, "Refine the enclosing chunk first")
	fs.Parse(args)

	g, pos, level, err := positionQuery(cfg, fs, "biome", *refine)
	if err != nil {
		return err
	}

	fmt.Printf("Biome at (%g,%g): %s\n", pos.X, pos.Y, g.Biome(pos, level))
	return nil
}

func cmdGlobal(cfg *config.Config, args []string) error {
	g, err := loadWorld(cfg)
	if err != nil {
		return err
	}

	n := g.Params().MaxSubdivLevel
	if len(args) > 0 {
		if n, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid level count %q: %w", args[0], err)
		}
	}

	start := time.Now()
	generated := 0
	for range n {
		if !g.GenerateNewSubdivisionLevel() {
			break
		}
		generated++
	}

	fmt.Printf("Generated %d global levels in %v (global level %d)\n",
		generated, time.Since(start).Round(time.Millisecond), g.GlobalLevel())
	fmt.Println()
	printLevels(g)
	return nil
}

func cmdSaveConfig(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return cfg.Save()
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", args[0])
	return nil
}

// positionQuery parses "<x> <y> <level>" as a world position and loads the world.
func positionQuery(cfg *config.Config, fs *flag.FlagSet, name string, refine bool) (*terrain.Geometry, math.Vec2, int, error) {
	var pos math.Vec2
	if fs.NArg() < 3 {
		return nil, pos, 0, fmt.Errorf("usage: terraintool %s <x> <y> <level>", name)
	}
	x, errX := strconv.ParseFloat(fs.Arg(0), 32)
	y, errY := strconv.ParseFloat(fs.Arg(1), 32)
	level, errL := strconv.Atoi(fs.Arg(2))
	if err := errors.Join(errX, errY, errL); err != nil {
		return nil, pos, 0, err
	}
	pos = math.Vec2{X: float32(x), Y: float32(y)}

	g, err := loadWorld(cfg)
	if err != nil {
		return nil, pos, 0, err
	}

	cx, cy, ok := g.Params().ChunkOf(pos)
	if !ok {
		return g, pos, level, nil
	}
	if refine {
		g.SubdivideChunk(cx, cy, level)
	}
	fmt.Printf("Chunk (%d,%d), achieved level %d\n", cx, cy, g.AchievedLevel(cx, cy))
	return g, pos, level, nil
}

func parseChunk(s string) (x, y int, err error) {
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, fmt.Errorf("invalid chunk %q, want x,y", s)
	}
	if x, err = strconv.Atoi(strings.TrimSpace(xs)); err != nil {
		return 0, 0, fmt.Errorf("invalid chunk %q: %w", s, err)
	}
	if y, err = strconv.Atoi(strings.TrimSpace(ys)); err != nil {
		return 0, 0, fmt.Errorf("invalid chunk %q: %w", s, err)
	}
	return x, y, nil
}

func parseInts3(args []string) (a, b, c int, err error) {
	var v [3]int
	for i := range v {
		if v[i], err = strconv.Atoi(args[i]); err != nil {
			return 0, 0, 0, fmt.Errorf("invalid number %q", args[i])
		}
	}
	return v[0], v[1], v[2], nil
}

func printLevels(g *terrain.Geometry) {
	fmt.Println("Level  Vertices  Triangles  Bucket entries")
	for n := 0; n <= g.Params().MaxSubdivLevel; n++ {
		s := g.LevelStats(n)
		fmt.Printf("%5d  %8d  %9d  %14d\n", n, s.Vertices, s.Triangles, s.BucketEntries)
	}
}

// printAchieved draws the achieved level of every chunk, row 0 at the bottom.
func printAchieved(g *terrain.Geometry) {
	p := g.Params()
	if p.NbChunks > 64 {
		return
	}
	fmt.Println("Achieved levels:")
	for y := p.NbChunks - 1; y >= 0; y-- {
		var b strings.Builder
		for x := range p.NbChunks {
			fmt.Fprintf(&b, "%d", g.AchievedLevel(x, y))
		}
		fmt.Printf("  %s\n", b.String())
	}
}

func printViews(views []terrain.TriangleView, limit int) {
	for i, v := range views {
		if limit > 0 && i >= limit {
			fmt.Printf("  ... and %d more\n", len(views)-limit)
			break
		}
		fmt.Printf("  %-26s %s %s %s  n=%s\n", v.Biome,
			fmtVec(v.Positions[0]), fmtVec(v.Positions[1]), fmtVec(v.Positions[2]), fmtVec(v.Normal))
	}
}

func fmtVec(v math.Vec3) string {
	return fmt.Sprintf("(%.2f,%.2f,%.2f)", v.X, v.Y, v.Z)
}
