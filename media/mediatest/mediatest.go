// Package mediatest provides in-memory media backends for tests.
package mediatest

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/model"
)

// Info is a convenient natural clip: 540x960, 3 seconds, with audio.
func Info() media.ClipInfo {
	return media.ClipInfo{Duration: 3, Size: model.Size{W: 540, H: 960}, FPS: 30, HasAudio: true}
}

type source struct {
	path string
	info media.ClipInfo
	o    *Opener
}

func (s *source) Path() string         { return s.path }
func (s *source) Info() media.ClipInfo { return s.info }
func (s *source) Close() error {
	s.o.mu.Lock()
	defer s.o.mu.Unlock()
	s.o.closes[s.path]++
	return nil
}

// Opener serves Clips by path. Paths absent from Clips fail like a missing
// file, paths in Errs fail with that error.
type Opener struct {
	Clips map[string]media.ClipInfo
	Errs  map[string]error
	Delay time.Duration

	mu      sync.Mutex
	opens   map[string]int
	closes  map[string]int
	active  int
	maxSeen int
}

func NewOpener(clips map[string]media.ClipInfo) *Opener {
	return &Opener{
		Clips:  clips,
		Errs:   make(map[string]error),
		opens:  make(map[string]int),
		closes: make(map[string]int),
	}
}

func (o *Opener) Open(ctx context.Context, path string) (media.Source, error) {
	o.mu.Lock()
	o.active++
	if o.active > o.maxSeen {
		o.maxSeen = o.active
	}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.active--
		o.mu.Unlock()
	}()

	if o.Delay > 0 {
		time.Sleep(o.Delay)
	}
	if err, ok := o.Errs[path]; ok {
		return nil, err
	}
	info, ok := o.Clips[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}

	o.mu.Lock()
	o.opens[path]++
	o.mu.Unlock()
	return &source{path: path, info: info, o: o}, nil
}

func (o *Opener) Opens(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[path]
}

func (o *Opener) Closes(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closes[path]
}

// MaxConcurrent is the highest number of Open calls seen in flight at once.
func (o *Opener) MaxConcurrent() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.maxSeen
}

type Write struct {
	Composition media.Composition
	OutputPath  string
	Encoding    media.Encoding
}

// Writer records every composition instead of encoding it.
type Writer struct {
	Err    error
	Writes []Write
}

func (w *Writer) Write(ctx context.Context, comp media.Composition, outputPath string, enc media.Encoding) error {
	w.Writes = append(w.Writes, Write{Composition: comp, OutputPath: outputPath, Encoding: enc})
	return w.Err
}

// Backend joins an Opener and a Writer.
type Backend struct {
	*Opener
	*Writer
}
