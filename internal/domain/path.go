package domain

// Path is an ordered travel route from start to end.
// An empty Path means no route was found.
type Path []Coordinates

func (p Path) IsEmpty() bool { return len(p) == 0 }

// Start returns the first coordinate; ok is false for an empty path.
func (p Path) Start() (Coordinates, bool) {
	if len(p) == 0 {
		return Coordinates{}, false
	}
	return p[0], true
}

// End returns the last coordinate; ok is false for an empty path.
func (p Path) End() (Coordinates, bool) {
	if len(p) == 0 {
		return Coordinates{}, false
	}
	return p[len(p)-1], true
}
