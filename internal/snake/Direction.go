package snake

// Direction is a unit step on the grid. Y grows downward, matching
// terminal row order.
type Direction struct {
	Dx, Dy int
}

var (
	Up    = Direction{Dx: 0, Dy: -1}
	Down  = Direction{Dx: 0, Dy: 1}
	Left  = Direction{Dx: -1, Dy: 0}
	Right = Direction{Dx: 1, Dy: 0}
)

// Opposite reports whether following o would reverse d. Two directions
// are opposite exactly when their vectors cancel.
func (d Direction) Opposite(o Direction) bool {
	return d.Dx+o.Dx == 0 && d.Dy+o.Dy == 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}
