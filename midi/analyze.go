package midi

import (
	"os"
	"path/filepath"

	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Analyze summarizes a MIDI file for the report and the diagnostic page.
// Failures are reported in the result rather than returned.
func Analyze(path string) model.MidiAnalysis {
	if _, err := os.Stat(path); err != nil {
		return model.MidiAnalysis{Status: model.StatusError, Message: "file not found: " + path}
	}
	s, err := ReadMidiFile(path)
	if err != nil {
		return model.MidiAnalysis{Status: model.StatusError, Message: "error processing MIDI file: " + err.Error()}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info := &model.FileInfo{
		Filename: filepath.Base(path),
		Filepath: abs,
		Duration: fileDuration(s),
		Tracks:   len(s.Tracks),
		Type:     s.Format(),
	}
	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok {
		info.TicksPerBeat = uint16(ticks)
	}

	res := model.MidiAnalysis{
		Status:     model.StatusSuccess,
		FileInfo:   info,
		TrackStats: []model.TrackStats{},
		NoteCounts: make(map[string]int),
	}
	// first-seen order breaks ties for the most frequent note
	var seen []string
	for idx, track := range s.Tracks {
		stats := model.TrackStats{Name: trackName(track, idx)}
		trackNotes := make(map[string]struct{})
		for _, event := range track {
			var channel, key, velocity uint8
			if !event.Message.GetNoteStart(&channel, &key, &velocity) {
				continue
			}
			name := NoteName(key)
			if _, ok := res.NoteCounts[name]; !ok {
				seen = append(seen, name)
			}
			res.NoteCounts[name]++
			trackNotes[name] = struct{}{}
			stats.NoteCount++
		}
		stats.Notes = util.GetSortedKeys(trackNotes)
		stats.UniqueNotes = len(stats.Notes)
		res.TrackStats = append(res.TrackStats, stats)
		res.TotalNotes += stats.NoteCount
	}

	res.UniqueNotes = len(res.NoteCounts)
	res.NoteList = util.GetSortedKeys(res.NoteCounts)
	var best string
	for _, n := range seen {
		if best == "" || res.NoteCounts[n] > res.NoteCounts[best] {
			best = n
		}
	}
	if best != "" {
		res.MostFrequentNote = &best
	}
	return res
}
