package window

import (
	"fmt"
	"testing"

	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/stretchr/testify/assert"
)

func note(name string, start, end float64) model.NoteEvent {
	return model.NoteEvent{NoteName: name, StartTime: start, EndTime: end, Duration: end - start}
}

func sample() []model.NoteEvent {
	return []model.NoteEvent{
		note("C4", 0.0, 0.5),
		note("E4", 1.0, 3.0),
		note("G4", 2.5, 3.5),
		note("B4", 3.9, 6.0),
		note("D5", 4.0, 4.5),
		note("F5", 7.0, 8.0),
	}
}

func TestRebasesToWindowStart(t *testing.T) {
	got := Filter([]model.NoteEvent{note("E4", 1.0, 3.0)}, model.NewWindow(model.Float(2.0), model.Float(4.0)))

	assert := assert.New(t)
	assert.Len(got, 1)
	assert.InDelta(0.0, got[0].StartTime, 1e-9)
	assert.InDelta(1.0, got[0].EndTime, 1e-9)
	assert.InDelta(1.0, got[0].Duration, 1e-9)
	assert.Equal("E4", got[0].NoteName)
}

func TestDropsEventsOutsideWindow(t *testing.T) {
	got := Filter(sample(), model.NewWindow(model.Float(2.0), model.Float(4.0)))

	var names []string
	for _, e := range got {
		names = append(names, e.NoteName)
	}
	// C4 ends before the window, D5 starts on the exclusive end, F5 after it
	assert.Equal(t, []string{"E4", "G4", "B4"}, names)
	assert.InDelta(t, 1.9, got[2].StartTime, 1e-9)
	assert.InDelta(t, 2.0, got[2].EndTime, 1e-9)
}

func TestEventEndingOnWindowStartIsDropped(t *testing.T) {
	got := Filter([]model.NoteEvent{note("A4", 1.0, 2.0)}, model.NewWindow(model.Float(2.0), nil))
	assert.Empty(t, got)
}

func TestStartOnlyWindowKeepsTails(t *testing.T) {
	got := Filter(sample(), model.NewWindow(model.Float(3.0), nil))

	assert := assert.New(t)
	assert.Len(got, 4)
	assert.InDelta(0.0, got[0].StartTime, 1e-9)
	assert.InDelta(0.5, got[0].EndTime, 1e-9)
	last := got[len(got)-1]
	assert.Equal("F5", last.NoteName)
	assert.InDelta(4.0, last.StartTime, 1e-9)
	assert.InDelta(5.0, last.EndTime, 1e-9)
}

func TestEndOnlyWindowClipsWithoutRebasing(t *testing.T) {
	got := Filter(sample(), model.NewWindow(nil, model.Float(4.0)))

	assert := assert.New(t)
	assert.Len(got, 4)
	assert.InDelta(1.0, got[1].StartTime, 1e-9)
	assert.InDelta(3.0, got[1].EndTime, 1e-9)
	b4 := got[3]
	assert.Equal("B4", b4.NoteName)
	assert.InDelta(3.9, b4.StartTime, 1e-9)
	assert.InDelta(4.0, b4.EndTime, 1e-9)
	assert.InDelta(0.1, b4.Duration, 1e-9)
}

func TestEndOnlyWindowDropsEventsStartingAtOrAfterEnd(t *testing.T) {
	got := Filter(sample(), model.NewWindow(nil, model.Float(4.0)))

	var names []string
	for _, e := range got {
		names = append(names, e.NoteName)
		assert.Less(t, e.StartTime, 4.0)
		assert.GreaterOrEqual(t, e.EndTime, e.StartTime)
	}
	// D5 starts exactly at the end, F5 after it
	assert.Equal(t, []string{"C4", "E4", "G4", "B4"}, names)
}

func TestUnboundedWindowCopies(t *testing.T) {
	in := sample()
	got := Filter(in, model.RenderWindow{})
	assert.Equal(t, in, got)

	got[0].NoteName = "changed"
	assert.Equal(t, "C4", in[0].NoteName)
}

func TestDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := sample()
	Filter(in, model.NewWindow(model.Float(2.0), model.Float(4.0)))
	Filter(in, model.NewWindow(nil, model.Float(4.0)))
	assert.Equal(t, before, in)
}

func TestEmptyResult(t *testing.T) {
	got := Filter(sample(), model.NewWindow(model.Float(20.0), model.Float(30.0)))
	assert.Empty(t, got)
}

func windows() []model.RenderWindow {
	return []model.RenderWindow{
		{},
		model.NewWindow(model.Float(2.0), model.Float(4.0)),
		model.NewWindow(model.Float(0.25), nil),
		model.NewWindow(nil, model.Float(3.2)),
		model.NewWindow(model.Float(3.95), model.Float(7.5)),
	}
}

func TestDurationInvariant(t *testing.T) {
	for i, w := range windows() {
		t.Run(fmt.Sprintf("window %d", i), func(t *testing.T) {
			for _, e := range Filter(sample(), w) {
				assert.InDelta(t, e.EndTime-e.StartTime, e.Duration, 1e-12)
				assert.GreaterOrEqual(t, e.Duration, 0.0)
				assert.GreaterOrEqual(t, e.StartTime, 0.0)
			}
		})
	}
}

func TestIdempotentAfterRebasing(t *testing.T) {
	for i, w := range windows() {
		t.Run(fmt.Sprintf("window %d", i), func(t *testing.T) {
			once := Filter(sample(), w)
			rebased := w
			if w.Start != nil {
				rebased = Shift(w, -*w.Start)
			}
			twice := Filter(once, rebased)

			assert.Len(t, twice, len(once))
			for j := range once {
				assert.Equal(t, once[j].NoteName, twice[j].NoteName)
				assert.InDelta(t, once[j].StartTime, twice[j].StartTime, 1e-9)
				assert.InDelta(t, once[j].EndTime, twice[j].EndTime, 1e-9)
				assert.InDelta(t, once[j].Duration, twice[j].Duration, 1e-9)
			}
		})
	}
}

func TestShift(t *testing.T) {
	w := Shift(model.NewWindow(model.Float(2.0), model.Float(4.0)), -2.0)
	assert.Equal(t, 0.0, *w.Start)
	assert.Equal(t, 2.0, *w.End)
	assert.Nil(t, Shift(model.RenderWindow{}, 1).Start)
}
