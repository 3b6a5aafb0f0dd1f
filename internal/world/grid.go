package world

// Grid is a rectangular tile map with per-tile walkability.
type Grid struct {
	width    int
	height   int
	walkable []bool
}

// NewGrid creates a grid with every tile walkable.
func NewGrid(width, height int) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	g := &Grid{
		width:    width,
		height:   height,
		walkable: make([]bool, width*height),
	}
	for i := range g.walkable {
		g.walkable[i] = true
	}
	return g
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether a position lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

func (g *Grid) index(p Position) int {
	return p.Y*g.width + p.X
}

// SetWalkable marks a tile passable or blocked.
func (g *Grid) SetWalkable(p Position, walkable bool) {
	if !g.InBounds(p) {
		return
	}
	g.walkable[g.index(p)] = walkable
}

// Walkable reports whether a tile can be entered.
func (g *Grid) Walkable(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.walkable[g.index(p)]
}
