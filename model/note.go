package model

// NoteEvent is one sounded note on the absolute timeline, in seconds.
// Values are never mutated once produced; derive new ones with WithTimes.
type NoteEvent struct {
	NoteName   string  `json:"note_name"`
	NoteNumber uint8   `json:"note_number"`
	Channel    uint8   `json:"channel"`
	Velocity   uint8   `json:"velocity"`
	Track      int     `json:"track"`
	TrackName  string  `json:"track_name"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Duration   float64 `json:"duration"`
}

// WithTimes returns a copy of e moved to [start, end] with Duration derived
// from the new bounds.
func (e NoteEvent) WithTimes(start, end float64) NoteEvent {
	e.StartTime = start
	e.EndTime = end
	e.Duration = end - start
	return e
}

// Chord is a run of notes sharing one rounded start key.
type Chord struct {
	Key   float64
	Notes []NoteEvent
}

// StartTime is where every member of the chord gets scheduled. It is the
// unrounded start of the first member, not the key.
func (c Chord) StartTime() float64 {
	if len(c.Notes) == 0 {
		return c.Key
	}
	return c.Notes[0].StartTime
}
