// Package render turns note events into one composited video: window the
// events, group them into chords, place each chord member and encode the
// resulting timeline.
package render

import (
	"context"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/chord"
	"github.com/quanmouren/MidiAssembleVideo/clipcache"
	"github.com/quanmouren/MidiAssembleVideo/composer"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/layout"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/window"
)

var ErrInvalidOptions = errors.New("invalid render options")

// optionsError keeps the rejected field's own error in the chain and still
// matches ErrInvalidOptions.
type optionsError struct {
	err error
}

func (e optionsError) Error() string { return ErrInvalidOptions.Error() + ": " + e.err.Error() }

func (e optionsError) Unwrap() error { return e.err }

func (e optionsError) Is(target error) bool { return target == ErrInvalidOptions }

// Backend decodes note clips and encodes the final composition.
type Backend interface {
	media.Opener
	media.Writer
}

type Options struct {
	Window     model.RenderWindow
	OutputPath string
	SourceDir  string
	// zero means take the size of the first clip
	OutputSize     model.Size
	ChordSizeRatio float64
	// seconds added to every note so clips ring out
	Sustain        float64
	Background     color.RGBA
	Encoding       media.Encoding
	PreloadWorkers int
}

func DefaultOptions() Options {
	return Options{
		SourceDir:      constants.GetSourceDir(),
		ChordSizeRatio: constants.DefaultChordSizeRatio,
		Sustain:        constants.DefaultSustain,
		Background:     color.RGBA{A: 0xff},
		Encoding: media.Encoding{
			FPS:        constants.DefaultFPS,
			Codec:      constants.DefaultCodec,
			AudioCodec: constants.DefaultAudioCodec,
			Preset:     constants.DefaultPreset,
			Threads:    constants.DefaultThreads,
		},
		PreloadWorkers: constants.DefaultPreloadWorkers,
	}
}

func (o Options) Validate() error {
	if err := o.Window.Validate(); err != nil {
		return optionsError{err}
	}
	if err := layout.ValidateRatio(o.ChordSizeRatio); err != nil {
		return optionsError{err}
	}
	if o.Sustain < 0 {
		return errors.Wrapf(ErrInvalidOptions, "sustain %v is negative", o.Sustain)
	}
	if o.Encoding.FPS <= 0 {
		return errors.Wrapf(ErrInvalidOptions, "fps %d must be positive", o.Encoding.FPS)
	}
	if o.OutputPath == "" {
		return errors.Wrap(ErrInvalidOptions, "no output path")
	}
	return nil
}

type Result struct {
	// nothing survived the window, no file was written
	Empty      bool
	Chords     int
	Layers     int
	Dropped    []Dropped
	OutputSize model.Size
	Duration   float64
}

// Render writes the video for events to opts.OutputPath. A window that keeps
// no events is not an error: the result is marked Empty and nothing is
// written.
func Render(ctx context.Context, events []model.NoteEvent, backend Backend, opts Options) (Result, error) {
	var res Result
	if err := opts.Validate(); err != nil {
		return res, err
	}

	logger := log.FromContext(ctx).With("render", uuid.New().String())
	ctx = log.WithContext(ctx, logger)
	if layout.CornersOverlap(opts.ChordSizeRatio) {
		logger.Warn("corner clips will overlap", "ratio", opts.ChordSizeRatio)
	}

	windowed := window.Filter(events, opts.Window)
	if len(windowed) == 0 {
		logger.Warn("no notes inside the render window", "events", len(events))
		res.Empty = true
		return res, nil
	}

	cache := clipcache.New(backend, clipcache.WithLogger(logger))
	var sources []string
	for _, name := range chord.NoteNames(windowed) {
		sources = append(sources, file.SourcePath(opts.SourceDir, name))
	}
	loaded := cache.Preload(ctx, sources, opts.PreloadWorkers)
	logger.Info("preloaded note clips", "loaded", loaded, "distinct", len(sources))

	comp := composer.New(cache, backend,
		composer.WithOutputSize(opts.OutputSize),
		composer.WithBackground(opts.Background),
		composer.WithLogger(logger),
	)
	size, err := comp.NegotiateSize(ctx, file.SourcePath(opts.SourceDir, windowed[0].NoteName))
	if err != nil {
		return res, err
	}

	plan := Plan(windowed, size, opts.ChordSizeRatio, opts.SourceDir, opts.Sustain)
	for _, d := range plan.Dropped {
		logger.Warn("dropping chord member", "note", d.Note.NoteName, "chord", chord.CreateChordKey(d.ChordKey), "index", d.Index)
	}
	for _, l := range plan.Layers {
		placement := l.Placement
		if err := comp.AddLayer(ctx, l.Source, l.Start, l.Duration, placement.Position, &placement.Size); err != nil {
			return res, err
		}
	}

	res.Chords = len(plan.Chords)
	res.Layers = comp.Len()
	res.Dropped = plan.Dropped
	res.OutputSize = size
	res.Duration = comp.Duration()
	if err := comp.Render(ctx, opts.OutputPath, opts.Encoding); err != nil {
		return res, err
	}
	logger.Info("render finished", "output", opts.OutputPath, "chords", res.Chords, "layers", res.Layers, "dropped", len(res.Dropped), "duration", res.Duration)
	return res, nil
}
