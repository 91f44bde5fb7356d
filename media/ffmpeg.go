package media

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
)

type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		FFmpegPath:  constants.GetFFmpegPath(),
		FFprobePath: constants.GetFFprobePath(),
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("0x%02x%02x%02x", c.R, c.G, c.B)
}

func backgroundSource(comp Composition, fps int) string {
	return fmt.Sprintf("color=c=%s:s=%dx%d:d=%s:r=%d",
		hexColor(comp.Background), comp.Size.W, comp.Size.H, formatSeconds(comp.Duration), fps)
}

// sourceInputs gives each distinct clip path one ffmpeg input, numbered from
// 1 in first-use order, and maps every layer to its input.
func sourceInputs(comp Composition) (paths []string, inputOf []int) {
	index := make(map[string]int)
	inputOf = make([]int, len(comp.Layers))
	for i, l := range comp.Layers {
		in, ok := index[l.Path]
		if !ok {
			paths = append(paths, l.Path)
			in = len(paths)
			index[l.Path] = in
		}
		inputOf[i] = in
	}
	return paths, inputOf
}

// splitStreams fans one stream of an input out to every layer reading it and
// returns the label each layer reads from. Layers with uses false get no label.
func splitStreams(inputOf []int, uses func(layer int) bool, stream, filter string) (chains []string, labels []string) {
	labels = make([]string, len(inputOf))
	var order []int
	readers := make(map[int][]int)
	for i, in := range inputOf {
		if !uses(i) {
			continue
		}
		if _, ok := readers[in]; !ok {
			order = append(order, in)
		}
		readers[in] = append(readers[in], i)
	}
	for _, in := range order {
		layers := readers[in]
		if len(layers) == 1 {
			labels[layers[0]] = fmt.Sprintf("%d:%s", in, stream)
			continue
		}
		var outs strings.Builder
		for _, i := range layers {
			labels[i] = fmt.Sprintf("s%s%d_%d", stream, in, i)
			fmt.Fprintf(&outs, "[%s]", labels[i])
		}
		chains = append(chains, fmt.Sprintf("[%d:%s]%s=%d%s", in, stream, filter, len(layers), outs.String()))
	}
	return chains, labels
}

// BuildFilterGraph stacks every layer over input 0 (the background) in slice
// order. Layers cut from the same clip share one input through split and
// asplit. It returns the graph and the audio output label, empty when no
// layer carries audio.
func BuildFilterGraph(comp Composition) (graph string, audioLabel string) {
	_, inputOf := sourceInputs(comp)
	chains, video := splitStreams(inputOf, func(int) bool { return true }, "v", "split")
	audioChains, audioIn := splitStreams(inputOf, func(i int) bool { return comp.Layers[i].Info.HasAudio }, "a", "asplit")
	chains = append(chains, audioChains...)

	var audio []string
	prev := "0:v"
	for i, l := range comp.Layers {
		size := l.Size
		if size.IsZero() {
			size = l.Info.Size
		}
		chains = append(chains, fmt.Sprintf("[%s]trim=duration=%s,setpts=PTS-STARTPTS+%s/TB,scale=%d:%d[v%d]",
			video[i], formatSeconds(l.Duration), formatSeconds(l.Start), size.W, size.H, i))
		out := fmt.Sprintf("o%d", i)
		chains = append(chains, fmt.Sprintf("[%s][v%d]overlay=x=%d:y=%d:eof_action=pass:enable='between(t,%s,%s)'[%s]",
			prev, i, l.Position.X, l.Position.Y, formatSeconds(l.Start), formatSeconds(l.End()), out))
		prev = out

		if l.Info.HasAudio {
			delay := int64(l.Start * 1000)
			chains = append(chains, fmt.Sprintf("[%s]atrim=duration=%s,asetpts=PTS-STARTPTS,adelay=delays=%d:all=1[a%d]",
				audioIn[i], formatSeconds(l.Duration), delay, i))
			audio = append(audio, fmt.Sprintf("[a%d]", i))
		}
	}
	chains = append(chains, fmt.Sprintf("[%s]format=yuv420p[vout]", prev))

	switch len(audio) {
	case 0:
	case 1:
		audioLabel = strings.Trim(audio[0], "[]")
	default:
		chains = append(chains, fmt.Sprintf("%samix=inputs=%d:duration=longest:dropout_transition=0:normalize=0[aout]",
			strings.Join(audio, ""), len(audio)))
		audioLabel = "aout"
	}
	return strings.Join(chains, ";\n"), audioLabel
}

func buildWriteArgs(comp Composition, enc Encoding, scriptPath, audioLabel, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", backgroundSource(comp, enc.FPS)}
	paths, _ := sourceInputs(comp)
	for _, p := range paths {
		args = append(args, "-i", p)
	}
	args = append(args, "-filter_complex_script", scriptPath, "-map", "[vout]")
	if audioLabel != "" {
		args = append(args, "-map", "["+audioLabel+"]", "-c:a", enc.AudioCodec)
	} else {
		args = append(args, "-an")
	}
	args = append(args,
		"-c:v", enc.Codec,
		"-preset", enc.Preset,
		"-r", strconv.Itoa(enc.FPS),
		"-threads", strconv.Itoa(enc.Threads),
		"-t", formatSeconds(comp.Duration),
		"-movflags", "+faststart",
		outputPath,
	)
	return args
}

// tempSibling is a hidden file next to path so the final rename stays on one
// filesystem.
func tempSibling(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, filepath.Ext(base))+"-"+uuid.New().String()+filepath.Ext(base))
}

func (f *FFmpeg) Write(ctx context.Context, comp Composition, outputPath string, enc Encoding) error {
	logger := log.FromContext(ctx)
	if len(comp.Layers) == 0 {
		return errors.New("composition has no layers")
	}

	graph, audioLabel := BuildFilterGraph(comp)
	script := filepath.Join(os.TempDir(), "filtergraph-"+uuid.New().String()+".txt")
	if err := os.WriteFile(script, []byte(graph), 0o644); err != nil {
		return errors.Wrap(err, "writing filter graph")
	}
	defer os.Remove(script)

	tmp := tempSibling(outputPath)
	args := buildWriteArgs(comp, enc, script, audioLabel, tmp)
	logger.Debug("encoding", "layers", len(comp.Layers), "duration", comp.Duration, "size", comp.Size, "tmp", tmp)
	if err := f.run(args); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "moving rendered file into place")
	}
	return nil
}

// StillClip muxes a still image with an audio file into a clip that lasts as
// long as the audio.
func (f *FFmpeg) StillClip(imagePath, audioPath, outputPath string, fps int) error {
	tmp := tempSibling(outputPath)
	args := []string{"-y", "-hide_banner", "-loglevel", "error",
		"-loop", "1", "-framerate", strconv.Itoa(fps), "-i", imagePath,
		"-i", audioPath,
		"-c:v", constants.DefaultCodec, "-tune", "stillimage", "-pix_fmt", "yuv420p",
		"-c:a", constants.DefaultAudioCodec, "-preset", constants.DefaultPreset,
		"-shortest",
		tmp,
	}
	if err := f.run(args); err != nil {
		os.Remove(tmp)
		return err
	}
	return errors.Wrap(os.Rename(tmp, outputPath), "moving clip into place")
}

// the encode is not cancelled from our side, it either finishes or fails
func (f *FFmpeg) run(args []string) error {
	cmd := exec.Command(f.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		fullCmd := f.FFmpegPath + " " + strings.Join(args, " ")
		return errors.Wrapf(err, "error executing FFmpeg command: %s; %s", fullCmd, strings.TrimSpace(stderr.String()))
	}
	return nil
}
