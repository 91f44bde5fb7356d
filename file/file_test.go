package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestSourcePath(t *testing.T) {
	assert.Equal(t, filepath.Join("sounds", "C#4.mp4"), SourcePath("sounds", "C#4"))
}

func TestCheckMissing(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "C4.mp4", "e4.MOV", "G4.txt", "A4.wav")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "B4.mp4"), 0o755))

	res := CheckMissing([]string{"C4", "E4", "G4", "A4", "B4"}, dir)

	assert := assert.New(t)
	assert.Equal(model.StatusSuccess, res.Status)
	assert.Equal(5, res.TotalChecked)
	assert.Equal(2, res.Existing)
	assert.Equal(3, res.Missing)
	assert.Equal([]string{"C4", "E4"}, res.ExistingNotes)
	assert.Equal([]string{"G4", "A4", "B4"}, res.MissingNotes)
	assert.True(filepath.IsAbs(res.VideoFolder))
}

func TestCheckMissingBadFolder(t *testing.T) {
	dir := t.TempDir()
	notes := []string{"C4", "D4"}

	res := CheckMissing(notes, filepath.Join(dir, "nope"))
	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, notes, res.MissingNotes)
	assert.Contains(t, res.Message, "does not exist")

	touch(t, dir, "plain")
	res = CheckMissing(notes, filepath.Join(dir, "plain"))
	assert.Equal(t, model.StatusError, res.Status)
	assert.Contains(t, res.Message, "is not a folder")
}

func TestAudioFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "G4.wav", "C4.MP3", "notes.txt", "E4.flac")

	files, err := AudioFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "C4.MP3"),
		filepath.Join(dir, "E4.flac"),
		filepath.Join(dir, "G4.wav"),
	}, files)

	_, err = AudioFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
