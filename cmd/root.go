package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "midiassemblevideo",
	Short: "Assembles note clips into a video following a MIDI file",
	Long: `Assembles one video from a folder of note clips (sounds/C4.mp4, ...):
every note of the MIDI file triggers its clip, simultaneous notes share the
frame as one full frame clip plus up to four corner clips.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return errors.Wrapf(err, "bad --log-level %q", logLevel)
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           level,
			ReportTimestamp: true,
		})
		log.SetDefault(logger)

		cfg, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

// commandContext carries the root logger for packages that log through the
// context.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return log.WithContext(ctx, logger)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
