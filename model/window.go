package model

import "github.com/pkg/errors"

var ErrInvalidWindow = errors.New("invalid render window")

// RenderWindow is a half-open [Start, End) range. A nil bound is unbounded.
type RenderWindow struct {
	Start *float64
	End   *float64
}

func NewWindow(start, end *float64) RenderWindow {
	return RenderWindow{Start: start, End: end}
}

func (w RenderWindow) Bounded() bool {
	return w.Start != nil || w.End != nil
}

func (w RenderWindow) Validate() error {
	if w.Start != nil && *w.Start < 0 {
		return errors.Wrapf(ErrInvalidWindow, "start %v is negative", *w.Start)
	}
	if w.End != nil && *w.End < 0 {
		return errors.Wrapf(ErrInvalidWindow, "end %v is negative", *w.End)
	}
	if w.Start != nil && w.End != nil && *w.Start >= *w.End {
		return errors.Wrapf(ErrInvalidWindow, "start %v is not before end %v", *w.Start, *w.End)
	}
	return nil
}

// Float is a helper for building windows from literals.
func Float(v float64) *float64 {
	return &v
}
