// Package engine advances a bounded Game of Life board by one generation.
// It holds no state; every call reads one grid and returns a new one.
package engine

import (
	"github.com/sheikhrachel/gol-board/model"
	"github.com/sheikhrachel/gol-board/rules"
)

// neighborOffsets enumerates the Moore neighborhood as (row, column) deltas
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// CountLiveNeighbors returns how many of the 8 cells around index are alive.
// The board does not wrap, so off-grid neighbors count as dead.
func CountLiveNeighbors(g *model.Grid, index int) int {
	if index < 0 || index >= g.Len() {
		return 0
	}

	var (
		count = 0
		cell  = g.ToCoords(index)
	)
	for _, offset := range neighborOffsets {
		if g.Get(cell.Row+offset[0], cell.Column+offset[1]) {
			count++
		}
	}
	return count
}

// Step computes the next generation into a freshly allocated grid
func Step(g *model.Grid) *model.Grid {
	return StepPooled(g, nil)
}

// StepPooled computes the next generation, taking the output grid from pool
// when one is given. The input grid is never modified.
func StepPooled(g *model.Grid, pool *model.GridPool) *model.Grid {
	var next *model.Grid
	if pool != nil {
		next = pool.Get(g.Size())
	} else {
		next = g.Cleared()
	}

	for i := range g.Len() {
		if rules.Next(g.GetIndex(i), CountLiveNeighbors(g, i)) {
			next.Set(i, true)
		}
	}
	return next
}
