package constants

import (
	"os"
	"time"
)

func GetSourceDir() string {
	path := os.Getenv("SOURCE_PATH")
	if path != "" {
		return path
	}
	return "sounds"
}

func GetFFmpegPath() string {
	path := os.Getenv("FFMPEG_PATH")
	if path != "" {
		return path
	}
	return "ffmpeg"
}

func GetFFprobePath() string {
	path := os.Getenv("FFPROBE_PATH")
	if path != "" {
		return path
	}
	return "ffprobe"
}

// start times are rounded to this many decimals before grouping into chords,
// which absorbs float jitter from tick to second conversion
const ChordKeyPrecision = 4

// 1 full frame + 4 corners
const MaxChordMembers = 5

const ClipExt = ".mp4"

// notes without a matching note off get this duration (seconds)
const DefaultNoteDuration = 1.0

const (
	DefaultFPS            = 15
	DefaultCodec          = "libx264"
	DefaultAudioCodec     = "aac"
	DefaultPreset         = "fast"
	DefaultThreads        = 16
	DefaultSustain        = 0.4
	DefaultChordSizeRatio = 0.44
	DefaultBackground     = "#000000"
	DefaultPreloadWorkers = 8
)

const (
	DefaultServerAddr       = "127.0.0.1:5000"
	DefaultHeartbeatTimeout = 5 * time.Second
	DefaultPagePath         = "HTML/piano.html"
)

// BatchGetItem upper bound
const MetadataBatchSize = 100

const DefaultMetadataTable = "midiassemblevideo-metadata"
