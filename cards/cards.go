// Package cards turns a folder of note recordings into placeholder note
// clips: a title card per note with the recording as its soundtrack.
package cards

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/preview"
)

// StillClipper is satisfied by media.FFmpeg.
type StillClipper interface {
	StillClip(imagePath, audioPath, outputPath string, fps int) error
}

type Options struct {
	Size    model.Size
	FPS     int
	Workers int
}

func DefaultOptions() Options {
	return Options{Size: model.Size{W: 540, H: 960}, FPS: 10, Workers: constants.DefaultPreloadWorkers}
}

type Result struct {
	Written []string
	Failed  map[string]error
}

func noteName(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func generate(enc StillClipper, audioPath, outputDir string, opts Options) (string, error) {
	name := noteName(audioPath)
	dc, err := preview.DrawCard(name, opts.Size)
	if err != nil {
		return "", err
	}
	img := filepath.Join(os.TempDir(), "card-"+uuid.New().String()+".png")
	if err := dc.SavePNG(img); err != nil {
		return "", errors.Wrap(err, "saving card")
	}
	defer os.Remove(img)

	out := file.SourcePath(outputDir, name)
	if err := enc.StillClip(img, audioPath, out, opts.FPS); err != nil {
		return "", err
	}
	return out, nil
}

// Generate writes one clip per audio file in inputDir into outputDir. A
// failed file does not stop the others.
func Generate(ctx context.Context, enc StillClipper, inputDir, outputDir string, opts Options) (Result, error) {
	logger := log.FromContext(ctx)
	res := Result{Failed: make(map[string]error)}

	audio, err := file.AudioFiles(inputDir)
	if err != nil {
		return res, errors.Wrapf(err, "listing %s", inputDir)
	}
	if len(audio) == 0 {
		logger.Warn("no audio files found", "dir", inputDir)
		return res, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return res, errors.Wrapf(err, "creating %s", outputDir)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger.Info("generating note clips", "files", len(audio), "size", opts.Size)

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Workers)
	for _, a := range audio {
		wg.Add(1)
		sem <- struct{}{}
		go func(a string) {
			defer wg.Done()
			defer func() { <-sem }()

			out, err := generate(enc, a, outputDir, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("could not generate clip", "audio", a, "err", err)
				res.Failed[a] = err
				return
			}
			logger.Debug("generated clip", "clip", out)
			res.Written = append(res.Written, out)
		}(a)
	}
	wg.Wait()
	return res, nil
}
