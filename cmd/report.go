package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/midi"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file.mid>",
	Short: "Prints MIDI statistics and missing clips",
	Long:  `Prints MIDI statistics and missing clips`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := midi.Analyze(args[0])
		if a.Status == model.StatusSuccess && cfg.MetadataEnabled() {
			if store := metadataStore(); store != nil {
				meta, err := store.Lookup(commandContext(cmd), a.FileInfo.Filename)
				if err != nil {
					logger.Warn("metadata lookup failed", "err", err)
				}
				a.Metadata = meta
			}
		}
		var missing *model.MissingNotes
		if a.Status == model.StatusSuccess {
			m := file.CheckMissing(a.NoteList, cfg.Sources.Dir)
			missing = &m
		}
		report(cmd.OutOrStdout(), a, missing)
		return nil
	},
}

func report(w io.Writer, a model.MidiAnalysis, missing *model.MissingNotes) {
	fmt.Fprintln(w, "===== MIDI analysis =====")
	if a.Status != model.StatusSuccess {
		fmt.Fprintf(w, "error: %s\n", a.Message)
		return
	}
	fi := a.FileInfo
	fmt.Fprintf(w, "file: %s\n", fi.Filepath)
	fmt.Fprintf(w, "format: %d, tracks: %d, ticks per beat: %d, duration: %.2fs\n", fi.Type, fi.Tracks, fi.TicksPerBeat, fi.Duration)
	if m := a.Metadata; m != nil {
		fmt.Fprintf(w, "title: %s, artist: %s, release: %s, year: %d\n", m.Title, m.Artist, m.Release, m.Year)
	}
	fmt.Fprintf(w, "total notes: %d\n", a.TotalNotes)
	fmt.Fprintf(w, "unique notes: %d\n", a.UniqueNotes)
	if a.MostFrequentNote != nil {
		fmt.Fprintf(w, "most frequent note: %s (%d)\n", *a.MostFrequentNote, a.NoteCounts[*a.MostFrequentNote])
	}
	for _, t := range a.TrackStats {
		fmt.Fprintf(w, "  %s: %d notes, %d unique\n", t.Name, t.NoteCount, t.UniqueNotes)
	}

	if missing == nil {
		return
	}
	fmt.Fprintln(w, "\n===== missing clips =====")
	if missing.Status != model.StatusSuccess {
		fmt.Fprintf(w, "error: %s\n", missing.Message)
		return
	}
	fmt.Fprintf(w, "folder: %s\n", missing.VideoFolder)
	fmt.Fprintf(w, "missing: %d of %d\n", missing.Missing, missing.TotalChecked)
	if missing.Missing > 0 {
		fmt.Fprintf(w, "missing notes: %s\n", strings.Join(missing.MissingNotes, ", "))
	}
}
