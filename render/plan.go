package render

import (
	"github.com/quanmouren/MidiAssembleVideo/chord"
	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/layout"
	"github.com/quanmouren/MidiAssembleVideo/model"
)

// Layer is one chord member scheduled on the output timeline.
type Layer struct {
	ChordKey  float64         `json:"chord_key"`
	Index     int             `json:"index"`
	Note      model.NoteEvent `json:"note"`
	Source    string          `json:"source"`
	Start     float64         `json:"start"`
	Duration  float64         `json:"duration"`
	Placement model.Placement `json:"placement"`
}

// Dropped is a chord member beyond the last available slot.
type Dropped struct {
	ChordKey float64         `json:"chord_key"`
	Index    int             `json:"index"`
	Note     model.NoteEvent `json:"note"`
}

type PlanResult struct {
	Chords  []model.Chord `json:"chords"`
	Layers  []Layer       `json:"layers"`
	Dropped []Dropped     `json:"dropped"`
}

// Plan lays out already windowed events. Layers come out in the order they
// are to be stacked.
func Plan(events []model.NoteEvent, outputSize model.Size, ratio float64, sourceDir string, sustain float64) PlanResult {
	var res PlanResult
	res.Chords = chord.Group(events)
	for _, c := range res.Chords {
		start := c.StartTime()
		for i, n := range c.Notes {
			placement, ok := layout.Assign(len(c.Notes), i, outputSize, ratio)
			if !ok {
				res.Dropped = append(res.Dropped, Dropped{ChordKey: c.Key, Index: i, Note: n})
				continue
			}
			res.Layers = append(res.Layers, Layer{
				ChordKey:  c.Key,
				Index:     i,
				Note:      n,
				Source:    file.SourcePath(sourceDir, n.NoteName),
				Start:     start,
				Duration:  n.Duration + sustain,
				Placement: placement,
			})
		}
	}
	return res
}
