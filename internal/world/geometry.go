package world

// Position is a tile coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is one of the four cardinal movement directions.
type Direction string

const (
	DirNorth Direction = "north"
	DirSouth Direction = "south"
	DirEast  Direction = "east"
	DirWest  Direction = "west"
)

// Delta returns the tile offset for a direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirNorth:
		return 0, -1
	case DirSouth:
		return 0, 1
	case DirEast:
		return 1, 0
	case DirWest:
		return -1, 0
	}
	return 0, 0
}

// Step returns the position one tile away in the given direction.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Toward returns the direction that reduces the dominant axis distance
// from p to target. Returns false when the positions are equal.
func (p Position) Toward(target Position) (Direction, bool) {
	dx := target.X - p.X
	dy := target.Y - p.Y
	if dx == 0 && dy == 0 {
		return "", false
	}
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return DirEast, true
		}
		return DirWest, true
	}
	if dy > 0 {
		return DirSouth, true
	}
	return DirNorth, true
}

// Manhattan returns the L1 distance between two positions.
func (p Position) Manhattan(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
