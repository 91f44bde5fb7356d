package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/quanmouren/MidiAssembleVideo/chord"
	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/midi"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/render"
	"github.com/quanmouren/MidiAssembleVideo/window"
	"github.com/spf13/cobra"
)

var inspectFlags struct {
	start  float64
	end    float64
	size   string
	asJSON bool
}

func init() {
	f := inspectCmd.Flags()
	f.Float64Var(&inspectFlags.start, "start", 0, "window start in seconds")
	f.Float64Var(&inspectFlags.end, "end", 0, "window end in seconds")
	f.StringVar(&inspectFlags.size, "size", "", "output size as WxH, defaults to the first clip's size")
	f.BoolVar(&inspectFlags.asJSON, "json", false, "print the plan as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the render plan",
	Long:  `Prints the chords, placements and dropped notes a render would use, without encoding anything.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}

		var w model.RenderWindow
		if cmd.Flags().Changed("start") {
			w.Start = model.Float(inspectFlags.start)
		}
		if cmd.Flags().Changed("end") {
			w.End = model.Float(inspectFlags.end)
		}
		if err := w.Validate(); err != nil {
			return err
		}
		events := window.Filter(midi.ParseNotes(ctx, s), w)
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no notes inside the window")
			return nil
		}

		size := cfg.Render.OutputSize
		if inspectFlags.size != "" {
			if size, err = parseSize(inspectFlags.size); err != nil {
				return err
			}
		}
		if size.IsZero() {
			src, err := media.NewFFmpeg().Open(ctx, file.SourcePath(cfg.Sources.Dir, events[0].NoteName))
			if err != nil {
				return err
			}
			size = src.Info().Size
			src.Close()
		}

		plan := render.Plan(events, size, cfg.Render.ChordSizeRatio, cfg.Sources.Dir, cfg.Render.Sustain)
		out := cmd.OutOrStdout()
		if inspectFlags.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		}

		fmt.Fprintf(out, "output %s, %d chords, %d layers, %d dropped\n", size, len(plan.Chords), len(plan.Layers), len(plan.Dropped))
		for _, l := range plan.Layers {
			p := l.Placement
			fmt.Fprintf(out, "chord %s  %-4s %-12s at (%d,%d) %s  %.3fs for %.3fs\n",
				chord.CreateChordKey(l.ChordKey), l.Note.NoteName, p.Slot, p.Position.X, p.Position.Y, p.Size, l.Start, l.Duration)
		}
		for _, d := range plan.Dropped {
			fmt.Fprintf(out, "chord %s  %-4s dropped (member %d)\n", chord.CreateChordKey(d.ChordKey), d.Note.NoteName, d.Index)
		}
		return nil
	},
}
