package model

import "sync"

// GridToPool returns a retired generation to the pool for reuse. Callers must
// not hand out grids that anyone else may still be reading.
func GridToPool(grid *Grid, pool *GridPool) {
	if pool == nil || grid == nil {
		return
	}

	pool.Put(grid)
}

// GridPool recycles cell slices between generations
type GridPool struct {
	pool sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Grid{}
			},
		},
	}
}

// Get retrieves an all-dead grid of the given size from the pool.
// Non-positive sizes are clamped to 1.
func (p *GridPool) Get(size int) *Grid {
	g := p.pool.Get().(*Grid)
	g.reset(max(size, 1))
	return g
}

// Put returns a grid to the pool
func (p *GridPool) Put(g *Grid) {
	p.pool.Put(g)
}
