package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/config"
	"github.com/quanmouren/MidiAssembleVideo/preview"
	"github.com/spf13/cobra"
)

var previewFlags struct {
	output string
	size   string
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.output, "output", "o", "layout.png", "output PNG")
	previewCmd.Flags().StringVar(&previewFlags.size, "size", "540x960", "frame size as WxH")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <note>...",
	Short: "Draws the layout of one chord",
	Long:  `Draws where the members of one chord would be placed, in the order given, to a PNG.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := parseSize(previewFlags.size)
		if err != nil {
			return err
		}
		bg, err := config.ParseColor(cfg.Render.Background)
		if err != nil {
			return err
		}

		regions, dropped := preview.Layout(args, size, cfg.Render.ChordSizeRatio)
		for _, d := range dropped {
			logger.Warn("no slot left for note", "note", d)
		}
		dc, err := preview.DrawLayout(regions, size, bg)
		if err != nil {
			return err
		}
		if err := dc.SavePNG(previewFlags.output); err != nil {
			return errors.Wrap(err, "saving preview")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", previewFlags.output, size)
		return nil
	},
}
