package chord

import (
	"strconv"

	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/util"
)

// Key quantizes a start time so that notes a hair apart still share a chord.
func Key(startTime float64) float64 {
	return util.RoundTo(startTime, constants.ChordKeyPrecision)
}

func CreateChordKey(key float64) string {
	return strconv.FormatFloat(key, 'f', constants.ChordKeyPrecision, 64)
}

// Group buckets events by rounded start time. Chords come out in the order
// their key was first seen, members in input order.
func Group(events []model.NoteEvent) []model.Chord {
	var chords []model.Chord
	keyToChord := make(map[float64]int)
	for _, e := range events {
		key := Key(e.StartTime)
		i, ok := keyToChord[key]
		if !ok {
			i = len(chords)
			keyToChord[key] = i
			chords = append(chords, model.Chord{Key: key})
		}
		chords[i].Notes = append(chords[i].Notes, e)
	}
	return chords
}

// NoteNames lists distinct note names in first-seen order.
func NoteNames(events []model.NoteEvent) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.NoteName)
	}
	return util.Unique(names)
}
