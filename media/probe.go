package media

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/model"
)

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbe(data []byte) (ClipInfo, error) {
	var out probeOutput
	var info ClipInfo
	if err := json.Unmarshal(data, &out); err != nil {
		return info, errors.Wrap(err, "decoding ffprobe output")
	}

	var hasVideo bool
	var streamDuration float64
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if hasVideo {
				continue
			}
			hasVideo = true
			info.Size = model.Size{W: s.Width, H: s.Height}
			info.FPS = parseRate(s.AvgFrameRate)
			if info.FPS == 0 {
				info.FPS = parseRate(s.RFrameRate)
			}
			streamDuration, _ = strconv.ParseFloat(s.Duration, 64)
		case "audio":
			info.HasAudio = true
		}
	}
	if !hasVideo {
		return info, errors.New("no video stream")
	}

	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil || d <= 0 {
		d = streamDuration
	}
	if d <= 0 {
		return info, errors.New("unknown clip duration")
	}
	info.Duration = d
	return info, nil
}

// ffprobe reports rates as "30000/1001"
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func (f *FFmpeg) probe(ctx context.Context, path string) (ClipInfo, error) {
	args := []string{"-v", "error", "-print_format", "json", "-show_streams", "-show_format", path}
	cmd := exec.CommandContext(ctx, f.FFprobePath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return ClipInfo{}, errors.Wrapf(err, "ffprobe %s: %s", path, strings.TrimSpace(stderr.String()))
	}
	info, err := parseProbe(out)
	if err != nil {
		return info, errors.Wrapf(err, "probing %s", path)
	}
	return info, nil
}

type probedSource struct {
	path string
	info ClipInfo
	// held open for the render pass so the clip cannot vanish mid-encode
	f *os.File
}

func (s *probedSource) Path() string   { return s.path }
func (s *probedSource) Info() ClipInfo { return s.info }
func (s *probedSource) Close() error   { return s.f.Close() }

// Open fails with an error matching os.ErrNotExist when path is absent.
func (f *FFmpeg) Open(ctx context.Context, path string) (Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening clip")
	}
	info, err := f.probe(ctx, path)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &probedSource{path: path, info: info, f: file}, nil
}
