// Package layout maps chord members to screen regions: the first member fills
// the frame, the next four sit flush in the corners, the rest are dropped.
package layout

import (
	"math"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/model"
)

var ErrInvalidRatio = errors.New("chord size ratio must be in (0, 1]")

// corner order for member indices 1..4
var cornerSlots = [...]model.Slot{model.TopLeft, model.TopRight, model.BottomLeft, model.BottomRight}

func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return errors.Wrapf(ErrInvalidRatio, "got %v", ratio)
	}
	return nil
}

// CornersOverlap reports whether corner clips at this ratio cover each other.
func CornersOverlap(ratio float64) bool {
	return ratio > 0.5
}

func CornerSize(outputSize model.Size, ratio float64) model.Size {
	return model.Size{
		W: int(math.Floor(float64(outputSize.W) * ratio)),
		H: int(math.Floor(float64(outputSize.H) * ratio)),
	}
}

// CornerPosition puts a cornerSize clip into slot with its outer edges flush
// against the frame.
func CornerPosition(slot model.Slot, outputSize, cornerSize model.Size) model.Point {
	right := outputSize.W - cornerSize.W
	bottom := outputSize.H - cornerSize.H
	switch slot {
	case model.TopRight:
		return model.Point{X: right, Y: 0}
	case model.BottomLeft:
		return model.Point{X: 0, Y: bottom}
	case model.BottomRight:
		return model.Point{X: right, Y: bottom}
	}
	return model.Point{}
}

// Assign places member memberIndex of a chord with chordSize members. The
// second return is false when the member does not get a region.
func Assign(chordSize, memberIndex int, outputSize model.Size, ratio float64) (model.Placement, bool) {
	if memberIndex < 0 || memberIndex >= chordSize || memberIndex >= constants.MaxChordMembers {
		return model.Placement{}, false
	}
	if memberIndex == 0 {
		return model.Placement{Size: outputSize, Slot: model.FullFrame}, true
	}
	slot := cornerSlots[memberIndex-1]
	corner := CornerSize(outputSize, ratio)
	return model.Placement{
		Position: CornerPosition(slot, outputSize, corner),
		Size:     corner,
		Slot:     slot,
	}, true
}
