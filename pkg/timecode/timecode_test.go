package timecode_test

import (
	"testing"

	"github.com/jrsndl/EditIndexHelper/pkg/timecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFrames(t *testing.T) {
	tests := []struct {
		name   string
		tc     string
		fps    float64
		frames int
	}{
		{"zero", "00:00:00:00", 24, 0},
		{"one_second", "00:00:01:00", 24, 24},
		{"one_hour", "01:00:00:00", 24, 86400},
		{"frames_only", "00:00:00:12", 24, 12},
		{"fractional_rate_counts_whole", "00:00:01:00", 23.976, 24},
		{"thirty", "00:01:00:00", 29.97, 1800},
		{"ten_seconds_at_hour", "01:00:10:00", 24, 86640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timecode.ToFrames(tt.tc, tt.fps)
			require.NoError(t, err)
			assert.Equal(t, tt.frames, got)
		})
	}
}

func TestToFramesErrors(t *testing.T) {
	_, err := timecode.ToFrames("01:00:00", 24)
	assert.Error(t, err)

	_, err = timecode.ToFrames("aa:00:00:00", 24)
	assert.Error(t, err)

	_, err = timecode.ToFrames("", 24)
	assert.Error(t, err)
}

func TestFromFrames(t *testing.T) {
	assert.Equal(t, "00:00:00:00", timecode.FromFrames(0, 24))
	assert.Equal(t, "00:00:01:00", timecode.FromFrames(24, 24))
	assert.Equal(t, "01:00:00:00", timecode.FromFrames(86400, 24))
	assert.Equal(t, "00:10:00:05", timecode.FromFrames(14405, 24))
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []string{"00:00:00:01", "01:02:03:04", "10:59:59:23"} {
		frames, err := timecode.ToFrames(tc, 24)
		require.NoError(t, err)
		assert.Equal(t, tc, timecode.FromFrames(frames, 24))
	}
}
