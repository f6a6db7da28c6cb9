package snake

// Cell is one grid position.
type Cell struct {
	X, Y int
}

// Grid describes the playfield dimensions in cells. The grid is a torus:
// movement past any edge wraps to the opposite side.
type Grid struct {
	Cols, Rows int
	TileSize   int
}

// GridForViewport derives grid dimensions from a viewport measured in
// terminal cells. The tile size shrinks with the viewport but never
// drops below one cell.
func GridForViewport(width, height int) Grid {
	tile := min(width/viewportColsDivisor, height/viewportRowsDivisor)
	if tile < 1 {
		tile = 1
	}

	cols := max(width/tile, minGridCols)
	rows := max(height/tile, minGridRows)

	return Grid{Cols: cols, Rows: rows, TileSize: tile}
}

// Wrap maps a cell onto the torus.
func (g Grid) Wrap(c Cell) Cell {
	if c.X < 0 {
		c.X = g.Cols - 1
	} else if c.X >= g.Cols {
		c.X = 0
	}
	if c.Y < 0 {
		c.Y = g.Rows - 1
	} else if c.Y >= g.Rows {
		c.Y = 0
	}
	return c
}

// Step returns the neighbouring cell in the given direction, wrapped.
func (g Grid) Step(c Cell, d Direction) Cell {
	return g.Wrap(Cell{X: c.X + d.Dx, Y: c.Y + d.Dy})
}
