package cmd

import (
	"context"

	"github.com/quanmouren/MidiAssembleVideo/db"
	"github.com/quanmouren/MidiAssembleVideo/server"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	sources string
	addr    string
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.sources, "sources", "", "folder of note clips")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <file.mid>",
	Short: "Serves the diagnostic page for a MIDI file",
	Long: `Serves the diagnostic page for a MIDI file: its statistics and the note
clips missing from the sources folder. Stops once the page stops sending
heartbeats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := cfg.Sources.Dir
		if serveFlags.sources != "" {
			sources = serveFlags.sources
		}
		addr := cfg.Server.Addr
		if serveFlags.addr != "" {
			addr = serveFlags.addr
		}
		return runServer(commandContext(cmd), args[0], sources, addr)
	},
}

// metadataStore is nil unless a metadata table is configured.
func metadataStore() server.MetadataSource {
	if !cfg.MetadataEnabled() {
		return nil
	}
	store, err := db.New(cfg.Metadata.Endpoint, cfg.Metadata.Region, cfg.Metadata.Table)
	if err != nil {
		logger.Warn("metadata disabled", "err", err)
		return nil
	}
	return store
}

func runServer(ctx context.Context, midiPath, sourceDir, addr string) error {
	s := server.New(ctx, midiPath, sourceDir, server.Options{
		Page:             cfg.Server.Page,
		HeartbeatTimeout: cfg.Server.HeartbeatTimeout,
		Metadata:         metadataStore(),
	})
	a := s.Analysis()
	if m := s.Missing(); m != nil {
		logger.Info("midi file analyzed", "file", midiPath, "notes", a.TotalNotes, "unique", a.UniqueNotes, "missing", m.Missing)
	} else {
		logger.Warn("midi file could not be analyzed", "file", midiPath, "message", a.Message)
	}
	return s.Run(ctx, addr)
}
