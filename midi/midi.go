package midi

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName spells a MIDI key with its octave, 60 is C4.
func NoteName(key uint8) string {
	return fmt.Sprintf("%s%d", noteNames[key%12], int(key)/12-1)
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = &blank
			e = errors.Errorf("Error parsing midi file... %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "Error reading midi file...")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "Error parsing midi file...")
	}
	return res, nil
}

func trackName(track smf.Track, idx int) string {
	for _, event := range track {
		var name string
		if event.Message.GetMetaTrackName(&name) && name != "" {
			return name
		}
	}
	return fmt.Sprintf("Track_%d", idx+1)
}

func seconds(s *smf.SMF, absTicks int64) float64 {
	return float64(s.TimeAt(absTicks)) / 1e6
}

type noteKey struct {
	key     uint8
	channel uint8
}

// ParseNotes pairs note starts with their ends on the same key and channel.
// Times come from the tempo map of the whole file. A start that is never
// ended gets a default length, a start that is struck again before its end
// is ended by the new strike.
func ParseNotes(ctx context.Context, s *smf.SMF) []model.NoteEvent {
	logger := log.FromContext(ctx)
	var res []model.NoteEvent
	for idx, track := range s.Tracks {
		name := trackName(track, idx)
		active := make(map[noteKey]model.NoteEvent)
		var order []noteKey

		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				now := seconds(s, absTicks)
				k := noteKey{key: key, channel: channel}
				if prev, ok := active[k]; ok {
					res = append(res, prev.WithTimes(prev.StartTime, now))
				} else {
					order = append(order, k)
				}
				active[k] = model.NoteEvent{
					NoteName:   NoteName(key),
					NoteNumber: key,
					Channel:    channel,
					Velocity:   velocity,
					Track:      idx,
					TrackName:  name,
					StartTime:  now,
				}
			case event.Message.GetNoteEnd(&channel, &key):
				k := noteKey{key: key, channel: channel}
				if start, ok := active[k]; ok {
					res = append(res, start.WithTimes(start.StartTime, seconds(s, absTicks)))
					delete(active, k)
				}
			}
		}

		for _, k := range order {
			n, ok := active[k]
			if !ok {
				continue
			}
			logger.Warn("note has no end, using default duration", "note", n.NoteName, "track", name, "start", n.StartTime)
			res = append(res, n.WithTimes(n.StartTime, n.StartTime+constants.DefaultNoteDuration))
			delete(active, k)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartTime < res[j].StartTime
	})
	return res
}

func fileDuration(s *smf.SMF) float64 {
	var longest float64
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
		}
		if d := seconds(s, absTicks); d > longest {
			longest = d
		}
	}
	return longest
}
