package rules

/*
Next applies Conway's Game of Life rules (B3/S23) to one cell.

A live cell survives with two or three live neighbors and dies otherwise.
A dead cell becomes alive with exactly three live neighbors.
*/
func Next(alive bool, neighbors int) bool {
	switch {
	case alive:
		return neighbors == 2 || neighbors == 3
	default:
		return neighbors == 3
	}
}
