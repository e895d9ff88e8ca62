package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// ErrInvalidSize is returned when a grid is requested with a non-positive side
var ErrInvalidSize = errors.New("grid size must be positive")

// Coords addresses a cell by row and column
type Coords struct {
	Row    int
	Column int
}

// Grid is one generation of a square board stored as a flat row-major slice.
// Every mutation except Set produces a new Grid, so holders of an older
// generation never observe a change.
type Grid struct {
	size  int
	cells []bool
}

// NewGrid creates an all-dead grid with size*size cells
func NewGrid(size int) (*Grid, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "[NewGrid] size: %d", size)
	}
	return &Grid{
		size:  size,
		cells: make([]bool, size*size),
	}, nil
}

// Resize returns a fresh all-dead grid of the new size. The previous grid's
// contents are never carried over.
func Resize(newSize int) (*Grid, error) {
	g, err := NewGrid(newSize)
	if err != nil {
		return nil, errors.Wrap(err, "[Resize] failed to allocate grid")
	}
	return g, nil
}

// Randomize returns a new grid where each cell is alive with the given
// probability. A nil rng falls back to the package-level source.
func Randomize(size int, probability float64, rng *rand.Rand) (*Grid, error) {
	g, err := NewGrid(size)
	if err != nil {
		return nil, errors.Wrap(err, "[Randomize] failed to allocate grid")
	}

	probability = min(max(probability, 0), 1)
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}
	for i := range g.cells {
		g.cells[i] = float() < probability
	}
	return g, nil
}

// Size returns the side length of the grid
func (g *Grid) Size() int {
	return g.size
}

// Len returns the number of cells
func (g *Grid) Len() int {
	return len(g.cells)
}

// ToIndex converts row/column coordinates into a linear index
func (g *Grid) ToIndex(row, column int) int {
	return row*g.size + column
}

// ToCoords converts a linear index into row/column coordinates
func (g *Grid) ToCoords(index int) Coords {
	return Coords{
		Row:    index / g.size,
		Column: index % g.size,
	}
}

// InBounds reports whether (row, column) lies on the board
func (g *Grid) InBounds(row, column int) bool {
	return row >= 0 && row < g.size && column >= 0 && column < g.size
}

// Get returns the state of a cell. Off-grid cells are dead.
func (g *Grid) Get(row, column int) bool {
	g.assertConsistent()
	if !g.InBounds(row, column) {
		return false
	}
	return g.cells[g.ToIndex(row, column)]
}

// GetIndex returns the state of the cell at index, or false when out of range
func (g *Grid) GetIndex(index int) bool {
	if index < 0 || index >= len(g.cells) {
		return false
	}
	return g.cells[index]
}

// Set writes a cell in place. It is meant for filling a grid that has not
// been handed out yet; out-of-range indices are ignored.
func (g *Grid) Set(index int, alive bool) {
	if index < 0 || index >= len(g.cells) {
		return
	}
	g.cells[index] = alive
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	g.assertConsistent()
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, cells: cells}
}

// Toggle returns a copy of the grid with the cell at index flipped
func (g *Grid) Toggle(index int) *Grid {
	next := g.Clone()
	if index >= 0 && index < len(next.cells) {
		next.cells[index] = !next.cells[index]
	}
	return next
}

// ToggleAt returns a copy of the grid with the cell at (row, column) flipped.
// Off-grid coordinates leave the copy unchanged.
func (g *Grid) ToggleAt(row, column int) *Grid {
	if !g.InBounds(row, column) {
		return g.Clone()
	}
	return g.Toggle(g.ToIndex(row, column))
}

// Cleared returns an all-dead grid of the same size
func (g *Grid) Cleared() *Grid {
	return &Grid{size: g.size, cells: make([]bool, g.size*g.size)}
}

// Equal reports whether both grids have the same size and cell states
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size || len(g.cells) != len(other.cells) {
		return false
	}
	for i, alive := range g.cells {
		if other.cells[i] != alive {
			return false
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, alive := range g.cells {
		if alive {
			count++
		}
	}
	return
}

// LiveCells returns the coordinates of every living cell in index order
func (g *Grid) LiveCells() []Coords {
	var live []Coords
	for i, alive := range g.cells {
		if alive {
			live = append(live, g.ToCoords(i))
		}
	}
	return live
}

// Hash returns an MD5 fingerprint of the grid, used for cycle detection
func (g *Grid) Hash() string {
	h := md5.New()
	buf := make([]byte, len(g.cells))
	for i, alive := range g.cells {
		if alive {
			buf[i] = 1
		}
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// reset reallocates or clears the cell slice for reuse by the pool
func (g *Grid) reset(size int) {
	g.size = size
	if cap(g.cells) < size*size {
		g.cells = make([]bool, size*size)
		return
	}
	g.cells = g.cells[:size*size]
	clear(g.cells)
}
