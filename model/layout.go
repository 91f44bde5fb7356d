package model

import "fmt"

type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

func (s Size) IsZero() bool {
	return s.W == 0 && s.H == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Slot names the region a chord member is drawn into.
type Slot int

const (
	FullFrame Slot = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

func (s Slot) String() string {
	switch s {
	case FullFrame:
		return "full"
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

type Placement struct {
	Position Point `json:"position"`
	Size     Size  `json:"size"`
	Slot     Slot  `json:"slot"`
}

// Overlaps reports whether two placements share any pixel.
func (p Placement) Overlaps(o Placement) bool {
	return p.Position.X < o.Position.X+o.Size.W &&
		o.Position.X < p.Position.X+p.Size.W &&
		p.Position.Y < o.Position.Y+o.Size.H &&
		o.Position.Y < p.Position.Y+p.Size.H
}
