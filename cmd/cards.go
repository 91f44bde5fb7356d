package cmd

import (
	"fmt"

	"github.com/quanmouren/MidiAssembleVideo/cards"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/spf13/cobra"
)

var cardsFlags struct {
	output  string
	size    string
	fps     int
	workers int
}

func init() {
	defaults := cards.DefaultOptions()
	f := cardsCmd.Flags()
	f.StringVarP(&cardsFlags.output, "output", "o", "", "folder for the generated clips, defaults to the sources folder")
	f.StringVar(&cardsFlags.size, "size", defaults.Size.String(), "clip size as WxH")
	f.IntVar(&cardsFlags.fps, "fps", defaults.FPS, "clip frame rate")
	f.IntVar(&cardsFlags.workers, "workers", defaults.Workers, "clips encoded at once")
	rootCmd.AddCommand(cardsCmd)
}

var cardsCmd = &cobra.Command{
	Use:   "cards <audio folder>",
	Short: "Generates placeholder note clips from recordings",
	Long: `Generates one clip per recording in the audio folder (C4.wav becomes
C4.mp4): a colored title card with the note name and the recording as sound.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := parseSize(cardsFlags.size)
		if err != nil {
			return err
		}
		out := cardsFlags.output
		if out == "" {
			out = cfg.Sources.Dir
		}
		opts := cards.Options{Size: size, FPS: cardsFlags.fps, Workers: cardsFlags.workers}

		res, err := cards.Generate(commandContext(cmd), media.NewFFmpeg(), args[0], out, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated %d clips in %s, %d failed\n", len(res.Written), out, len(res.Failed))
		return nil
	},
}
