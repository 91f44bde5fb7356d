// Package config loads the YAML settings file. Values missing from the file
// keep their defaults.
package config

import (
	"image/color"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/quanmouren/MidiAssembleVideo/render"
	"gopkg.in/yaml.v3"
)

type RenderConfig struct {
	FPS            int        `yaml:"fps"`
	Codec          string     `yaml:"codec"`
	AudioCodec     string     `yaml:"audio_codec"`
	Preset         string     `yaml:"preset"`
	Threads        int        `yaml:"threads"`
	Background     string     `yaml:"background"`
	ChordSizeRatio float64    `yaml:"chord_size_ratio"`
	Sustain        float64    `yaml:"sustain"`
	OutputSize     model.Size `yaml:"output_size"`
	PreloadWorkers int        `yaml:"preload_workers"`
}

type SourcesConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Addr             string        `yaml:"addr"`
	HeartbeatTimeout time.Duration `yaml:"heartbeat_timeout"`
	Page             string        `yaml:"page"`
}

type MetadataConfig struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Sources  SourcesConfig  `yaml:"sources"`
	Server   ServerConfig   `yaml:"server"`
	Metadata MetadataConfig `yaml:"metadata"`
}

func Default() Config {
	return Config{
		Render: RenderConfig{
			FPS:            constants.DefaultFPS,
			Codec:          constants.DefaultCodec,
			AudioCodec:     constants.DefaultAudioCodec,
			Preset:         constants.DefaultPreset,
			Threads:        constants.DefaultThreads,
			Background:     constants.DefaultBackground,
			ChordSizeRatio: constants.DefaultChordSizeRatio,
			Sustain:        constants.DefaultSustain,
			PreloadWorkers: constants.DefaultPreloadWorkers,
		},
		Sources: SourcesConfig{Dir: constants.GetSourceDir()},
		Server: ServerConfig{
			Addr:             constants.DefaultServerAddr,
			HeartbeatTimeout: constants.DefaultHeartbeatTimeout,
			Page:             constants.DefaultPagePath,
		},
		Metadata: MetadataConfig{Table: constants.DefaultMetadataTable},
	}
}

// Load overlays the file at path on Default. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "error reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "error parsing config file")
	}
	return cfg, nil
}

// ParseColor accepts #rgb and #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "bad color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func (c RenderConfig) Encoding() media.Encoding {
	return media.Encoding{
		FPS:        c.FPS,
		Codec:      c.Codec,
		AudioCodec: c.AudioCodec,
		Preset:     c.Preset,
		Threads:    c.Threads,
	}
}

// RenderOptions builds render options for outputPath. The window is left
// unbounded.
func (c Config) RenderOptions(outputPath string) (render.Options, error) {
	bg, err := ParseColor(c.Render.Background)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		OutputPath:     outputPath,
		SourceDir:      c.Sources.Dir,
		OutputSize:     c.Render.OutputSize,
		ChordSizeRatio: c.Render.ChordSizeRatio,
		Sustain:        c.Render.Sustain,
		Background:     bg,
		Encoding:       c.Render.Encoding(),
		PreloadWorkers: c.Render.PreloadWorkers,
	}, nil
}

// MetadataEnabled is true once a DynamoDB endpoint or a non-default table is
// configured.
func (c Config) MetadataEnabled() bool {
	return c.Metadata.Endpoint != "" || (c.Metadata.Table != "" && c.Metadata.Table != constants.DefaultMetadataTable)
}
