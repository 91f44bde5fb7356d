package model

type Status = string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type FileInfo struct {
	Filename     string  `json:"filename"`
	Filepath     string  `json:"filepath"`
	Duration     float64 `json:"duration"`
	Tracks       int     `json:"tracks"`
	TicksPerBeat uint16  `json:"ticks_per_beat"`
	Type         uint16  `json:"type"`
}

type TrackStats struct {
	Name        string   `json:"name"`
	NoteCount   int      `json:"note_count"`
	UniqueNotes int      `json:"unique_notes"`
	Notes       []string `json:"notes"`
}

type MidiAnalysis struct {
	Status           Status         `json:"status"`
	Message          string         `json:"message,omitempty"`
	FileInfo         *FileInfo      `json:"file_info,omitempty"`
	TrackStats       []TrackStats   `json:"track_stats,omitempty"`
	TotalNotes       int            `json:"total_notes"`
	UniqueNotes      int            `json:"unique_notes"`
	NoteCounts       map[string]int `json:"note_counts,omitempty"`
	NoteList         []string       `json:"note_list,omitempty"`
	MostFrequentNote *string        `json:"most_frequent_note"`
	Metadata         *MidiMetadata  `json:"metadata,omitempty"`
}

type MissingNotes struct {
	Status        Status   `json:"status"`
	Message       string   `json:"message,omitempty"`
	VideoFolder   string   `json:"video_folder,omitempty"`
	TotalChecked  int      `json:"total_checked"`
	Existing      int      `json:"existing"`
	Missing       int      `json:"missing"`
	MissingNotes  []string `json:"missing_notes"`
	ExistingNotes []string `json:"existing_notes"`
}

type ErrorResponse struct {
	Status Status `json:"status"`
	Error  string `json:"message"`
}

type NotesResponse struct {
	Status Status   `json:"status"`
	Notes  []string `json:"notes"`
}

type HeartbeatResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
