package cards

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEncoder struct {
	mu    sync.Mutex
	calls map[string]string
	fail  string
}

func (f *fakeEncoder) StillClip(imagePath, audioPath, outputPath string, fps int) error {
	if _, err := os.Stat(imagePath); err != nil {
		return err
	}
	if filepath.Base(audioPath) == f.fail {
		return errors.New("ffmpeg exited 1")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[audioPath] = outputPath
	return nil
}

func TestGenerate(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "sounds")
	for _, n := range []string{"C4.wav", "E4.mp3", "G4.flac", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, n), nil, 0o644))
	}
	enc := &fakeEncoder{calls: make(map[string]string), fail: "G4.flac"}
	opts := DefaultOptions()
	opts.Size = model.Size{W: 32, H: 32}
	opts.Workers = 2

	res, err := Generate(context.Background(), enc, in, out, opts)
	require.NoError(t, err)

	assert := assert.New(t)
	sort.Strings(res.Written)
	assert.Equal([]string{filepath.Join(out, "C4.mp4"), filepath.Join(out, "E4.mp4")}, res.Written)
	assert.Len(res.Failed, 1)
	assert.Contains(res.Failed, filepath.Join(in, "G4.flac"))
	assert.Equal(filepath.Join(out, "C4.mp4"), enc.calls[filepath.Join(in, "C4.wav")])
	assert.DirExists(out)
}

func TestGenerateEmptyFolder(t *testing.T) {
	res, err := Generate(context.Background(), &fakeEncoder{calls: map[string]string{}}, t.TempDir(), t.TempDir(), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Written)
}

func TestGenerateMissingFolder(t *testing.T) {
	_, err := Generate(context.Background(), &fakeEncoder{}, filepath.Join(t.TempDir(), "nope"), t.TempDir(), DefaultOptions())
	assert.Error(t, err)
}
