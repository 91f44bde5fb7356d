// Package server is the diagnostic page backend: it reports what a MIDI file
// needs and which note clips are missing, and stops itself once the page
// stops sending heartbeats.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/file"
	"github.com/quanmouren/MidiAssembleVideo/midi"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/rs/cors"
)

// MetadataSource is satisfied by db.Store.
type MetadataSource interface {
	Lookup(ctx context.Context, filename string) (*model.MidiMetadata, error)
}

type Options struct {
	Page string
	// zero disables the watchdog
	HeartbeatTimeout time.Duration
	Metadata         MetadataSource
}

type Server struct {
	midiPath  string
	sourceDir string
	page      string
	timeout   time.Duration

	analysis model.MidiAnalysis
	missing  *model.MissingNotes

	heartbeat func(func())
	done      chan struct{}
	doneOnce  sync.Once
}

// New analyzes midiPath and checks sourceDir once, up front.
func New(ctx context.Context, midiPath, sourceDir string, opts Options) *Server {
	logger := log.FromContext(ctx)
	s := &Server{
		midiPath:  midiPath,
		sourceDir: sourceDir,
		page:      opts.Page,
		timeout:   opts.HeartbeatTimeout,
		done:      make(chan struct{}),
	}
	if s.page == "" {
		s.page = constants.DefaultPagePath
	}

	s.analysis = midi.Analyze(midiPath)
	if s.analysis.Status == model.StatusSuccess {
		missing := file.CheckMissing(s.analysis.NoteList, sourceDir)
		s.missing = &missing
		if opts.Metadata != nil {
			meta, err := opts.Metadata.Lookup(ctx, filepath.Base(midiPath))
			if err != nil {
				logger.Warn("metadata lookup failed", "file", midiPath, "err", err)
			}
			s.analysis.Metadata = meta
		}
	}

	if s.timeout > 0 {
		s.heartbeat = debounce.New(s.timeout)
		s.heartbeat(s.expire)
	}
	return s
}

func (s *Server) expire() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed when no heartbeat arrived within the timeout.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) Analysis() model.MidiAnalysis {
	return s.analysis
}

func (s *Server) Missing() *model.MissingNotes {
	return s.missing
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("could not encode response", "err", err)
	}
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.analysis)
}

func (s *Server) handleMissingNotes(w http.ResponseWriter, r *http.Request) {
	if s.missing == nil {
		writeJSON(w, model.ErrorResponse{Status: model.StatusError, Error: "analysis not finished"})
		return
	}
	writeJSON(w, s.missing)
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	if s.missing == nil || s.missing.Status != model.StatusSuccess {
		writeJSON(w, model.ErrorResponse{Status: model.StatusError, Error: "could not get note list"})
		return
	}
	writeJSON(w, model.NotesResponse{Status: model.StatusSuccess, Notes: s.missing.MissingNotes})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	if s.heartbeat != nil {
		s.heartbeat(s.expire)
	}
	writeJSON(w, model.HeartbeatResponse{Status: "alive", Time: time.Now().Format(time.ANSIC)})
}

func abs(path string) string {
	if res, err := filepath.Abs(path); err == nil {
		return res
	}
	return path
}

func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"midi_file":     abs(s.midiPath),
		"video_folder":  abs(s.sourceDir),
		"analysis_time": time.Now().Format(time.ANSIC),
		"status":        "running",
	}
	if fi := s.analysis.FileInfo; s.analysis.Status == model.StatusSuccess && fi != nil {
		info["filename"] = fi.Filename
		info["filepath"] = fi.Filepath
		info["duration"] = fi.Duration
		info["tracks"] = fi.Tracks
		info["ticks_per_beat"] = fi.TicksPerBeat
		info["type"] = fi.Type
	}
	writeJSON(w, info)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.page)
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analysis", s.handleAnalysis).Methods("GET")
	api.HandleFunc("/missing_notes", s.handleMissingNotes).Methods("GET")
	api.HandleFunc("/notes", s.handleNotes).Methods("GET")
	api.HandleFunc("/heartbeat", s.handleHeartbeat).Methods("GET")
	api.HandleFunc("/file_info", s.handleFileInfo).Methods("GET")
	router.HandleFunc("/", s.handlePage).Methods("GET")
	return cors.Default().Handler(router)
}

// Run serves on addr until ctx is cancelled or the heartbeat watchdog fires.
func (s *Server) Run(ctx context.Context, addr string) error {
	logger := log.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logger.Info("diagnostic server running", "url", "http://"+addr+"/")

	select {
	case err := <-errc:
		return errors.Wrap(err, "diagnostic server")
	case <-ctx.Done():
		logger.Info("stopping diagnostic server")
	case <-s.done:
		logger.Info("page closed, stopping diagnostic server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
