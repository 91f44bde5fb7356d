// Package media is the decode/encode boundary. The engine only sees Source,
// Clip and Composition; FFmpeg implements Opener and Writer on top of the
// ffprobe and ffmpeg executables.
package media

import (
	"context"
	"image/color"
	"sync"

	"github.com/quanmouren/MidiAssembleVideo/model"
)

type ClipInfo struct {
	Duration float64
	Size     model.Size
	FPS      float64
	HasAudio bool
}

// Source is a loaded clip retained by a cache. Callers never edit it, they
// derive Clip handles from it.
type Source interface {
	Path() string
	Info() ClipInfo
	Close() error
}

type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

type Encoding struct {
	FPS        int
	Codec      string
	AudioCodec string
	Preset     string
	Threads    int
}

type Writer interface {
	// Write blocks until outputPath holds the complete file, or fails leaving
	// nothing at outputPath.
	Write(ctx context.Context, comp Composition, outputPath string, enc Encoding) error
}

// Composition is a flattened timeline. Layers are drawn in slice order, so
// later layers cover earlier ones.
type Composition struct {
	Size       model.Size
	Background color.RGBA
	Duration   float64
	Layers     []Clip
}

type release struct {
	once sync.Once
	fn   func()
}

// Clip is a handle on a Source scheduled on the output timeline. Edits return
// modified copies, so handles derived from one source never interfere.
type Clip struct {
	Path     string
	Info     ClipInfo
	Start    float64
	Duration float64
	Position model.Point
	Size     model.Size

	release *release
}

// NewClip returns a handle spanning the whole source at its natural size. fn
// runs once, on the first Close of the handle or any of its copies.
func NewClip(src Source, fn func()) Clip {
	info := src.Info()
	return Clip{
		Path:     src.Path(),
		Info:     info,
		Duration: info.Duration,
		Size:     info.Size,
		release:  &release{fn: fn},
	}
}

func (c Clip) Trim(duration float64) Clip {
	c.Duration = duration
	return c
}

func (c Clip) At(start float64) Clip {
	c.Start = start
	return c
}

func (c Clip) Place(p model.Point) Clip {
	c.Position = p
	return c
}

func (c Clip) Resize(size model.Size) Clip {
	c.Size = size
	return c
}

func (c Clip) End() float64 {
	return c.Start + c.Duration
}

func (c Clip) Close() {
	if c.release == nil {
		return
	}
	c.release.once.Do(func() {
		if c.release.fn != nil {
			c.release.fn()
		}
	})
}
