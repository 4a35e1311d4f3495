package meshfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// Altitude table errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
)

// gatUnitsPerCell is the height unit of a GAT file relative to one cell side.
const gatUnitsPerCell = 5

// CellType is the surface class of an altitude table cell.
type CellType uint32

// Cell types.
const (
	CellWalkable      CellType = 0
	CellBlocked       CellType = 1
	CellWater         CellType = 2
	CellWalkableWater CellType = 3
	CellSnipeable     CellType = 4 // cliffs
	CellBlockedSnipe  CellType = 5
)

// Biome maps a cell type onto the terrain biome its triangles get.
func (t CellType) Biome() terrain.Biome {
	switch t {
	case CellWalkable:
		return terrain.BiomeGrassland
	case CellWater:
		return terrain.BiomeLake
	case CellWalkableWater:
		return terrain.BiomeMarsh
	case CellSnipeable:
		return terrain.BiomeScorched
	case CellBlocked, CellBlockedSnipe:
		return terrain.BiomeBare
	default:
		return terrain.BiomeUndefined
	}
}

// GATCell holds the corner altitudes of one cell, ordered bottom-left,
// bottom-right, top-left, top-right. Altitudes grow downward.
type GATCell struct {
	Heights [4]float32
	Type    CellType
}

// GAT is a ground altitude table: a width x height grid of cells.
type GAT struct {
	Major, Minor uint8
	Width        int
	Height       int
	Cells        []GATCell // row-major, y*Width + x
}

// Cell returns the cell at (x, y), or nil out of bounds.
func (g *GAT) Cell(x, y int) *GATCell {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return nil
	}
	return &g.Cells[y*g.Width+x]
}

type gatHeader struct {
	Magic         [4]byte
	Minor, Major  uint8
	Width, Height uint32
}

// DecodeGAT reads an altitude table.
func DecodeGAT(r io.Reader) (*GAT, error) {
	br := bufio.NewReader(r)

	var h gatHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedGATData)
	}
	if string(h.Magic[:]) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}
	// Cell layout is the same for 1.x through 3.x.
	if h.Major < 1 || h.Major > 3 {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedGATVersion, h.Major, h.Minor)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > 4096 || h.Height > 4096 {
		return nil, fmt.Errorf("invalid GAT dimensions: %dx%d", h.Width, h.Height)
	}

	g := &GAT{
		Major:  h.Major,
		Minor:  h.Minor,
		Width:  int(h.Width),
		Height: int(h.Height),
		Cells:  make([]GATCell, int(h.Width)*int(h.Height)),
	}
	for i := range g.Cells {
		if err := binary.Read(br, binary.LittleEndian, &g.Cells[i]); err != nil {
			return nil, fmt.Errorf("%w: cell %d", ErrTruncatedGATData, i)
		}
	}
	return g, nil
}

// LoadGAT reads an altitude table from disk.
func LoadGAT(path string) (*GAT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := DecodeGAT(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g, nil
}

// cornerHeights averages the altitude of every grid corner over the cells
// sharing it, so neighbouring cells meet at one vertex. The result is
// (Width+1) x (Height+1), row-major.
func (g *GAT) cornerHeights() []float32 {
	w := g.Width + 1
	sum := make([]float32, w*(g.Height+1))
	count := make([]uint8, len(sum))

	// Corner offsets matching GATCell.Heights.
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for y := range g.Height {
		for x := range g.Width {
			c := g.Cell(x, y)
			for i, o := range offsets {
				k := (y+o[1])*w + x + o[0]
				sum[k] += c.Heights[i]
				count[k]++
			}
		}
	}
	for k := range sum {
		sum[k] /= float32(count[k])
	}
	return sum
}

// Mesh lays the table over the world, scaled so its longer side spans the
// whole extent, and triangulates every cell whose type maps to a biome.
// Altitudes are flipped so that up is +Z.
func (g *GAT) Mesh(params terrain.Params) *File {
	side := max(g.Width, g.Height)
	cell := params.MaxCoord() / float32(side)
	scale := -cell / gatUnitsPerCell

	heights := g.cornerHeights()
	w := g.Width + 1
	point := func(i, j int) []float32 {
		return []float32{float32(i) * cell, float32(j) * cell, heights[j*w+i] * scale}
	}

	mf := &File{Triangles: make([]Triangle, 0, 2*len(g.Cells))}
	for y := range g.Height {
		for x := range g.Width {
			b := g.Cell(x, y).Type.Biome()
			if !b.Defined() {
				continue
			}
			name := b.String()
			mf.Triangles = append(mf.Triangles,
				Triangle{Biome: name, Vertices: [][]float32{point(x, y), point(x+1, y), point(x+1, y+1)}},
				Triangle{Biome: name, Vertices: [][]float32{point(x, y), point(x+1, y+1), point(x, y+1)}},
			)
		}
	}
	return mf
}
