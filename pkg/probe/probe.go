// Package probe reads media metadata through an external ffprobe
// binary. The pipeline treats it as a pure function path -> Metadata
// that may fail per file; a failed probe degrades that file's metadata
// to unknown and never aborts a run.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jrsndl/EditIndexHelper/pkg/timecode"
)

// Metadata is the consumed subset of an ffprobe report, plus the
// derived timecode range.
type Metadata struct {
	Width          int
	Height         int
	PixelAspect    string // "1:1"
	FPSRaw         string // "24/1"
	FPS            float64
	DurationSecs   float64
	DurationFrames int
	Category       string // "video", "still" or "unknown"
	Timecode       string // embedded start timecode, "" when absent

	// TCInFrames/TCOutFrames bound the embedded timecode range;
	// HasTimecode gates their validity.
	HasTimecode bool
	TCInFrames  int
	TCOutFrames int
	TCOut       string
}

// Prober shells out to a configured ffprobe binary.
type Prober struct {
	FfprobePath string
}

// New creates a Prober; an empty path falls back to "ffprobe" on PATH.
func New(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{FfprobePath: ffprobePath}
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed, derived metadata.
func (p *Prober) Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, p.FfprobePath,
		"-hide_banner",
		"-loglevel", "fatal",
		"-show_error",
		"-show_format",
		"-show_streams",
		"-print_format", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out, path)
}

// ParseJSON converts raw ffprobe JSON output into Metadata. Exported
// for testing without a real ffprobe binary.
func ParseJSON(data []byte, path string) (*Metadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildMetadata(&raw, path), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType         string            `json:"codec_type"`
	CodecTagString    string            `json:"codec_tag_string"`
	Width             int               `json:"width"`
	Height            int               `json:"height"`
	SampleAspectRatio string            `json:"sample_aspect_ratio"`
	RFrameRate        string            `json:"r_frame_rate"`
	NbFrames          string            `json:"nb_frames"`
	Duration          string            `json:"duration"`
	Tags              map[string]string `json:"tags"`
}

func buildMetadata(raw *ffprobeOutput, path string) *Metadata {
	md := &Metadata{Category: Category(path)}

	var video *ffprobeStream
	for i := range raw.Streams {
		if raw.Streams[i].CodecType == "video" {
			video = &raw.Streams[i]
			break
		}
	}
	if video != nil {
		md.Width = video.Width
		md.Height = video.Height
		md.PixelAspect = video.SampleAspectRatio
		md.FPSRaw = video.RFrameRate
		md.FPS = parseRate(video.RFrameRate)
		md.DurationSecs = parseFloat(video.Duration)
		md.DurationFrames = parseInt(video.NbFrames)
		if md.FPS > 0 && md.DurationSecs > 0 {
			md.DurationFrames = int(math.Round(md.FPS * md.DurationSecs))
		}
	}

	// Timecode lives in a dedicated tmcd stream's tags.
	for i := range raw.Streams {
		if raw.Streams[i].CodecTagString == "tmcd" {
			md.Timecode = raw.Streams[i].Tags["timecode"]
			break
		}
	}

	if md.Timecode != "" && md.DurationFrames > 0 {
		in, err := timecode.ToFrames(md.Timecode, md.FPS)
		if err == nil {
			md.HasTimecode = true
			md.TCInFrames = in
			md.TCOutFrames = in + md.DurationFrames - 1
			md.TCOut = timecode.FromFrames(md.TCOutFrames, md.FPS)
		}
	}

	return md
}

// Tokens returns the metadata fields as rule placeholders.
func (m *Metadata) Tokens() map[string]string {
	tokens := map[string]string{
		"width":           strconv.Itoa(m.Width),
		"height":          strconv.Itoa(m.Height),
		"pa":              m.PixelAspect,
		"fps_raw":         m.FPSRaw,
		"fps":             strconv.FormatFloat(m.FPS, 'g', -1, 64),
		"duration_frames": strconv.Itoa(m.DurationFrames),
		"duration_secs":   strconv.FormatFloat(m.DurationSecs, 'g', -1, 64),
		"category":        m.Category,
		"timecode":        m.Timecode,
		"tc_out":          m.TCOut,
	}
	if m.HasTimecode {
		tokens["tc_in_frames"] = strconv.Itoa(m.TCInFrames)
		tokens["tc_out_frames"] = strconv.Itoa(m.TCOutFrames)
	}
	return tokens
}

var videoExt = map[string]bool{
	"mov": true, "avi": true, "mpg": true, "mpeg": true, "mp2": true,
	"mpv": true, "mp4": true, "m4v": true, "gov": true, "qt": true,
	"r3d": true, "mxf": true,
}

var stillExt = map[string]bool{
	"dpx": true, "cin": true, "jpg": true, "jpeg": true, "tif": true,
	"tiff": true, "rgb": true, "sgi": true, "tga": true, "png": true,
	"exr": true, "dng": true,
}

// Category classifies a file by extension into "video", "still" or
// "unknown".
func Category(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch {
	case ext == "":
		return "unknown"
	case stillExt[ext]:
		return "still"
	case videoExt[ext]:
		return "video"
	default:
		return "unknown"
	}
}

func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		a := parseFloat(num)
		b := parseFloat(den)
		if b == 0 {
			return 0
		}
		return a / b
	}
	return parseFloat(s)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
