// Package timecode converts between HH:MM:SS:FF timecodes and frame
// counts at a given frame rate. Fractional rates are handled with the
// rounded integer frame-rate convention used by edit lists: 23.976
// counts like 24, 29.97 like 30.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToFrames converts a HH:MM:SS:FF timecode to an absolute frame count
// at the given frame rate.
func ToFrames(tc string, fps float64) (int, error) {
	parts := strings.Split(tc, ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("timecode %q: expected HH:MM:SS:FF", tc)
	}

	fields := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, fmt.Errorf("timecode %q: field %d: %w", tc, i+1, err)
		}
		fields[i] = v
	}

	rate := float64(intRate(fps))
	seconds := fields[0]*3600 + fields[1]*60 + fields[2] + fields[3]/rate
	return int(math.Round(seconds * rate)), nil
}

// FromFrames converts an absolute frame count to a HH:MM:SS:FF timecode
// at the given frame rate.
func FromFrames(frames int, fps float64) string {
	rate := intRate(fps)
	h := frames / (3600 * rate)
	m := (frames / (60 * rate)) % 60
	s := (frames % (60 * rate)) / rate
	f := frames % (60 * rate) % rate
	return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, f)
}

func intRate(fps float64) int {
	r := int(math.Round(fps))
	if r < 1 {
		r = 1
	}
	return r
}
