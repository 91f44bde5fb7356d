// Package composer builds a layered timeline from cached clips and flattens
// it into one composition. A Composer is single use: after Render, or after
// any failure, every resource it touched has been released.
package composer

import (
	"context"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/util"
)

var (
	ErrNoLayers       = errors.New("no layers to render")
	ErrComposerClosed = errors.New("composer is closed")
)

// Clips is the part of clipcache.Cache the composer needs.
type Clips interface {
	Get(ctx context.Context, id string) (media.Clip, error)
	ReleaseAll() error
}

type state int

const (
	stateEmpty state = iota
	stateAccumulating
	stateRendered
	stateFailed
)

type Option func(*Composer)

// WithOutputSize fixes the output size instead of taking it from the first
// clip.
func WithOutputSize(size model.Size) Option {
	return func(c *Composer) {
		c.size = size
	}
}

func WithBackground(bg color.RGBA) Option {
	return func(c *Composer) {
		c.background = bg
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Composer) {
		c.logger = l
	}
}

type Composer struct {
	clips      Clips
	writer     media.Writer
	size       model.Size
	background color.RGBA
	logger     *log.Logger

	layers []media.Clip
	maxEnd float64
	state  state
}

func New(clips Clips, writer media.Writer, opts ...Option) *Composer {
	c := &Composer{
		clips:      clips,
		writer:     writer,
		background: color.RGBA{A: 0xff},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) closed() bool {
	return c.state == stateRendered || c.state == stateFailed
}

// finish moves to a terminal state, closing every layer handle and releasing
// the cache. Later calls are no-ops.
func (c *Composer) finish(s state) error {
	if c.closed() {
		return nil
	}
	c.state = s
	for _, l := range c.layers {
		l.Close()
	}
	c.layers = nil
	return c.clips.ReleaseAll()
}

func (c *Composer) fail(err error) error {
	if rerr := c.finish(stateFailed); rerr != nil {
		c.logger.Warn("releasing clips after failure", "err", rerr)
	}
	return err
}

// NegotiateSize returns the output size, fixing it from the natural size of
// sourceID when none was configured.
func (c *Composer) NegotiateSize(ctx context.Context, sourceID string) (model.Size, error) {
	if c.closed() {
		return model.Size{}, ErrComposerClosed
	}
	if !c.size.IsZero() {
		return c.size, nil
	}
	clip, err := c.clips.Get(ctx, sourceID)
	if err != nil {
		return model.Size{}, c.fail(err)
	}
	defer clip.Close()
	c.size = clip.Info.Size
	c.logger.Debug("negotiated output size", "size", c.size, "from", sourceID)
	return c.size, nil
}

func (c *Composer) Size() model.Size {
	return c.size
}

// AddLayer schedules sourceID at start for at most duration seconds, placed
// at position and scaled to size (the output size when nil). Layers added
// later are drawn on top.
func (c *Composer) AddLayer(ctx context.Context, sourceID string, start, duration float64, position model.Point, size *model.Size) error {
	if c.closed() {
		return ErrComposerClosed
	}
	clip, err := c.clips.Get(ctx, sourceID)
	if err != nil {
		return c.fail(err)
	}
	if c.size.IsZero() {
		c.size = clip.Info.Size
	}

	target := c.size
	if size != nil {
		target = *size
	}
	d := util.Min(duration, clip.Info.Duration)
	if d <= 0 {
		c.logger.Warn("skipping zero length layer", "source", sourceID, "start", start)
		clip.Close()
		return nil
	}
	clip = clip.Trim(d).At(start).Place(position)
	if clip.Info.Size != target {
		clip = clip.Resize(target)
	}

	c.layers = append(c.layers, clip)
	c.maxEnd = util.Max(c.maxEnd, clip.End())
	c.state = stateAccumulating
	return nil
}

func (c *Composer) Len() int {
	return len(c.layers)
}

// Duration is the end of the latest layer.
func (c *Composer) Duration() float64 {
	return c.maxEnd
}

// Render flattens the layers in insertion order over a background spanning
// [0, Duration()] and hands the result to the writer.
func (c *Composer) Render(ctx context.Context, outputPath string, enc media.Encoding) error {
	if c.closed() {
		return ErrComposerClosed
	}
	if len(c.layers) == 0 {
		return c.fail(ErrNoLayers)
	}

	layers := make([]media.Clip, len(c.layers))
	copy(layers, c.layers)
	comp := media.Composition{
		Size:       c.size,
		Background: c.background,
		Duration:   c.maxEnd,
		Layers:     layers,
	}
	c.logger.Info("rendering", "layers", len(layers), "duration", comp.Duration, "size", comp.Size, "output", outputPath)
	if err := c.writer.Write(ctx, comp, outputPath, enc); err != nil {
		return c.fail(errors.Wrapf(err, "writing %s", outputPath))
	}
	return c.finish(stateRendered)
}
