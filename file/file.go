package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"golang.org/x/exp/slices"
)

var videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".flv", ".wmv"}

var audioExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a"}

// SourcePath is where the clip for a note is expected, e.g. sounds/C#4.mp4.
func SourcePath(dir, noteName string) string {
	return filepath.Join(dir, noteName+constants.ClipExt)
}

func hasExt(name string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(name)))
}

// CheckMissing reports which notes have no video of any known container in
// dir. Names are compared case-insensitively.
func CheckMissing(noteNames []string, dir string) model.MissingNotes {
	info, err := os.Stat(dir)
	if err != nil {
		return model.MissingNotes{
			Status:       model.StatusError,
			Message:      fmt.Sprintf("folder '%s' does not exist", dir),
			MissingNotes: noteNames,
		}
	}
	if !info.IsDir() {
		return model.MissingNotes{
			Status:       model.StatusError,
			Message:      fmt.Sprintf("'%s' is not a folder", dir),
			MissingNotes: noteNames,
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.MissingNotes{
			Status:       model.StatusError,
			Message:      fmt.Sprintf("could not list '%s': %v", dir, err),
			MissingNotes: noteNames,
		}
	}
	existing := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !hasExt(e.Name(), videoExtensions) {
			continue
		}
		existing[strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))] = true
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	res := model.MissingNotes{
		Status:        model.StatusSuccess,
		VideoFolder:   abs,
		TotalChecked:  len(noteNames),
		MissingNotes:  []string{},
		ExistingNotes: []string{},
	}
	for _, n := range noteNames {
		if existing[strings.ToLower(n)] {
			res.ExistingNotes = append(res.ExistingNotes, n)
		} else {
			res.MissingNotes = append(res.MissingNotes, n)
		}
	}
	res.Existing = len(res.ExistingNotes)
	res.Missing = len(res.MissingNotes)
	return res
}

// AudioFiles lists the audio recordings in dir, sorted by name.
func AudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range entries {
		if !e.IsDir() && hasExt(e.Name(), audioExtensions) {
			res = append(res, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(res)
	return res, nil
}
