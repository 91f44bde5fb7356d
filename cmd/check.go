package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/midi"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/spf13/cobra"
)

var checkSources string

func init() {
	checkCmd.Flags().StringVar(&checkSources, "sources", "", "folder of note clips")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file.mid>",
	Short: "Lists notes without a clip",
	Long:  `Lists the notes of a MIDI file that have no clip in the sources folder. Fails when any are missing.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := cfg.Sources.Dir
		if checkSources != "" {
			sources = checkSources
		}
		a := midi.Analyze(args[0])
		if a.Status != model.StatusSuccess {
			return errors.New(a.Message)
		}

		res := file.CheckMissing(a.NoteList, sources)
		if res.Status != model.StatusSuccess {
			return errors.New(res.Message)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "checked %d notes in %s: %d present, %d missing\n", res.TotalChecked, res.VideoFolder, res.Existing, res.Missing)
		if res.Missing > 0 {
			fmt.Fprintf(out, "missing: %s\n", strings.Join(res.MissingNotes, ", "))
			return errors.Errorf("%d note clips missing", res.Missing)
		}
		return nil
	},
}
