//go:build debug

package model

import "fmt"

// assertConsistent panics when the cell slice no longer matches the grid size.
// A mismatch is a caller bug and would silently skew neighbor counts.
func (g *Grid) assertConsistent() {
	if len(g.cells) != g.size*g.size {
		panic(fmt.Sprintf("model: grid has %d cells, want %d for size %d", len(g.cells), g.size*g.size, g.size))
	}
}
