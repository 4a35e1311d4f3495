// Package meshfile loads the coarse level-0 terrain mesh and feeds it into a
// terrain.Level. Meshes come from YAML documents, ground altitude tables
// (.gat), or a generated grid.
//
// Example document:
//
//	triangles:
//	  - biome: GRASSLAND
//	    vertices: [[0, 0, 0], [4, 0, 0], [0, 4, 0]]
package meshfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// File is a decoded mesh document.
type File struct {
	Triangles []Triangle `yaml:"triangles"`
}

// Triangle is one biome-tagged face of the coarse mesh.
type Triangle struct {
	Biome    string      `yaml:"biome"`
	Vertices [][]float32 `yaml:"vertices"` // three [x, y, z] points
}

// Load reads a mesh document from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return mf, nil
}

// Open reads a level-0 mesh from path. Files ending in .gat are read as
// altitude tables laid over the world described by params; anything else is
// a YAML mesh document.
func Open(path string, params terrain.Params) (*File, error) {
	if strings.EqualFold(filepath.Ext(path), ".gat") {
		g, err := LoadGAT(path)
		if err != nil {
			return nil, err
		}
		return g.Mesh(params), nil
	}
	return Load(path)
}

// Decode parses a mesh document.
func Decode(r io.Reader) (*File, error) {
	var mf File
	if err := yaml.NewDecoder(r).Decode(&mf); err != nil {
		if errors.Is(err, io.EOF) {
			return &mf, nil
		}
		return nil, err
	}
	return &mf, nil
}

// positions validates and converts the corners of t.
func (t *Triangle) positions() ([3]math.Vec3, error) {
	var p [3]math.Vec3
	if len(t.Vertices) != 3 {
		return p, fmt.Errorf("want 3 vertices, got %d", len(t.Vertices))
	}
	for i, v := range t.Vertices {
		if len(v) != 3 {
			return p, fmt.Errorf("vertex %d: want [x, y, z], got %d values", i, len(v))
		}
		p[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return p, nil
}

// Populate inserts every triangle of the document into lvl. Bad entries are
// skipped and reported together; the returned count is the number of
// triangles accepted.
func (mf *File) Populate(lvl *terrain.Level) (int, error) {
	var errs []error
	added := 0

	for i := range mf.Triangles {
		t := &mf.Triangles[i]

		biome, err := terrain.ParseBiome(t.Biome)
		if err != nil {
			errs = append(errs, fmt.Errorf("triangle %d: %w", i, err))
			continue
		}
		p, err := t.positions()
		if err != nil {
			errs = append(errs, fmt.Errorf("triangle %d: %w", i, err))
			continue
		}
		if _, err := lvl.AddTriangle(p, biome); err != nil {
			errs = append(errs, fmt.Errorf("triangle %d: %w", i, err))
			continue
		}
		added++
	}

	return added, errors.Join(errs...)
}
