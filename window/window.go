// Package window restricts note events to a render window and rebases them
// so the window start becomes time zero.
package window

import (
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/util"
)

// Filter never touches the input slice. Events are copied even when the
// window is unbounded on both sides.
func Filter(events []model.NoteEvent, w model.RenderWindow) []model.NoteEvent {
	switch {
	case w.Start != nil:
		return clipAndRebase(events, *w.Start, w.End)
	case w.End != nil:
		return clipEnd(events, *w.End)
	}
	res := make([]model.NoteEvent, len(events))
	copy(res, events)
	return res
}

func clipAndRebase(events []model.NoteEvent, start float64, end *float64) []model.NoteEvent {
	var res []model.NoteEvent
	for _, e := range events {
		if e.EndTime <= start || (end != nil && e.StartTime >= *end) {
			continue
		}
		noteEnd := e.EndTime
		if end != nil {
			noteEnd = util.Min(noteEnd, *end)
		}
		res = append(res, e.WithTimes(util.Max(e.StartTime, start)-start, noteEnd-start))
	}
	return res
}

// Without an explicit start nothing is rebased, only tails get cut. Events
// starting at or after end are dropped rather than kept whole, since cutting
// them at end would leave endTime before startTime.
func clipEnd(events []model.NoteEvent, end float64) []model.NoteEvent {
	var res []model.NoteEvent
	for _, e := range events {
		if e.StartTime >= end {
			continue
		}
		if e.EndTime > end {
			e = e.WithTimes(e.StartTime, end)
		}
		res = append(res, e)
	}
	return res
}

// Shift moves both bounds by offset. Filtering rebased output with the
// window shifted by -start is a no-op.
func Shift(w model.RenderWindow, offset float64) model.RenderWindow {
	var res model.RenderWindow
	if w.Start != nil {
		res.Start = model.Float(*w.Start + offset)
	}
	if w.End != nil {
		res.End = model.Float(*w.End + offset)
	}
	return res
}
