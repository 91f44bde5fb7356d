package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/config"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/midi"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/render"
	"github.com/spf13/cobra"
)

var renderFlags struct {
	output     string
	start      float64
	end        float64
	sources    string
	size       string
	ratio      float64
	sustain    float64
	fps        int
	background string
	diagnose   bool
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.output, "output", "o", "output.mp4", "output video")
	f.Float64Var(&renderFlags.start, "start", 0, "window start in seconds, becomes time zero")
	f.Float64Var(&renderFlags.end, "end", 0, "window end in seconds")
	f.StringVar(&renderFlags.sources, "sources", "", "folder of note clips")
	f.StringVar(&renderFlags.size, "size", "", "output size as WxH, defaults to the first clip's size")
	f.Float64Var(&renderFlags.ratio, "ratio", 0, "corner clip size relative to the frame")
	f.Float64Var(&renderFlags.sustain, "sustain", 0, "seconds added to every note")
	f.IntVar(&renderFlags.fps, "fps", 0, "output frame rate")
	f.StringVar(&renderFlags.background, "background", "", "background color, #rrggbb")
	f.BoolVar(&renderFlags.diagnose, "diagnose", false, "start the diagnostic page when the render fails")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <file.mid>",
	Short: "Renders a MIDI file into a video",
	Long: `Renders a MIDI file into a video built from the note clips in the
sources folder. --start and --end restrict the render to part of the song.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		opts, err := renderOptions(cmd, cfg)
		if err != nil {
			return err
		}

		res, err := renderFile(cmd, args[0], opts)
		if err != nil {
			if renderFlags.diagnose {
				logger.Error("render failed, starting diagnostic page", "err", err)
				if serr := runServer(ctx, args[0], opts.SourceDir, cfg.Server.Addr); serr != nil {
					logger.Error("diagnostic server", "err", serr)
				}
			}
			return err
		}
		if res.Empty {
			fmt.Fprintln(cmd.OutOrStdout(), "no notes inside the window, nothing written")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d chords, %d layers, %d dropped, %.2fs at %s\n",
			opts.OutputPath, res.Chords, res.Layers, len(res.Dropped), res.Duration, res.OutputSize)
		return nil
	},
}

func renderFile(cmd *cobra.Command, path string, opts render.Options) (render.Result, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return render.Result{}, err
	}
	events := midi.ParseNotes(commandContext(cmd), s)
	logger.Info("parsed midi file", "file", path, "notes", len(events), "tracks", len(s.Tracks))
	return render.Render(commandContext(cmd), events, media.NewFFmpeg(), opts)
}

func parseSize(s string) (model.Size, error) {
	var size model.Size
	if _, err := fmt.Sscanf(s, "%dx%d", &size.W, &size.H); err != nil || size.W <= 0 || size.H <= 0 {
		return size, errors.Errorf("bad size %q, want WxH", s)
	}
	return size, nil
}

// renderOptions layers flags that were set over the config.
func renderOptions(cmd *cobra.Command, c config.Config) (render.Options, error) {
	f := cmd.Flags()
	if f.Changed("sources") {
		c.Sources.Dir = renderFlags.sources
	}
	if f.Changed("ratio") {
		c.Render.ChordSizeRatio = renderFlags.ratio
	}
	if f.Changed("sustain") {
		c.Render.Sustain = renderFlags.sustain
	}
	if f.Changed("fps") {
		c.Render.FPS = renderFlags.fps
	}
	if f.Changed("background") {
		c.Render.Background = renderFlags.background
	}
	if f.Changed("size") {
		size, err := parseSize(renderFlags.size)
		if err != nil {
			return render.Options{}, err
		}
		c.Render.OutputSize = size
	}

	opts, err := c.RenderOptions(renderFlags.output)
	if err != nil {
		return opts, err
	}
	if f.Changed("start") {
		opts.Window.Start = model.Float(renderFlags.start)
	}
	if f.Changed("end") {
		opts.Window.End = model.Float(renderFlags.end)
	}
	return opts, nil
}
