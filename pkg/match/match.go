// Package match joins edit index rows to media files on regex-derived
// keys. The join is many-to-many: every row/file combination with equal
// keys becomes a pair, and an optional timecode gate can narrow the
// result.
package match

import (
	"github.com/rs/zerolog"

	"github.com/jrsndl/EditIndexHelper/pkg/editindex"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
	"github.com/jrsndl/EditIndexHelper/pkg/media"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/jrsndl/EditIndexHelper/pkg/probe"
	"github.com/jrsndl/EditIndexHelper/pkg/rules"
)

// Clip is a discovered media file together with its probed metadata.
// Meta is nil when the probe failed; the clip still participates in
// name matching.
type Clip struct {
	File media.File
	Meta *probe.Metadata
}

// Pair is one matched (row, clip) combination and the key both sides
// derived.
type Pair struct {
	Row  editindex.Row
	Clip Clip
	Key  string
}

// Stats reports the join outcome for the run summary. Unmatched rows
// and files are expected outcomes, not errors.
type Stats struct {
	Rows             int
	Clips            int
	Pairs            int
	RowsUnmatched    int
	ClipsUnmatched   int
	RowsKeyless      int // rows whose key rule produced nothing
	ClipsKeyless     int
	TimecodeRejected int // key matches discarded by the timecode gate
}

// Matcher derives keys and joins the two sides per the compiled
// matching rule.
type Matcher struct {
	cfg    *prefs.Compiled
	logger zerolog.Logger
}

// New creates a matcher for the given preferences.
func New(cfg *prefs.Compiled) *Matcher {
	return &Matcher{
		cfg:    cfg,
		logger: logging.GetLogger("match"),
	}
}

// Match joins rows and clips. Pairs come back grouped by clip in
// enumeration order, rows in load order within each key; two runs over
// the same inputs produce identical output.
func (m *Matcher) Match(rows []editindex.Row, clips []Clip) ([]Pair, *Stats) {
	stats := &Stats{Rows: len(rows), Clips: len(clips)}

	// Key index over rows, built once; preserves row order per key.
	index := make(map[string][]int)
	rowMatched := make([]bool, len(rows))
	for i, row := range rows {
		key, ok := m.cfg.CSVKey.Apply(row.Columns[m.cfg.Matching.Column])
		if !ok || key == "" {
			stats.RowsKeyless++
			continue
		}
		index[key] = append(index[key], i)
	}

	var pairs []Pair
	for _, clip := range clips {
		subject := rules.Expand(m.cfg.Matching.Media, clip.File.Tokens())
		key, ok := m.cfg.MediaKey.Apply(subject)
		if !ok || key == "" {
			stats.ClipsKeyless++
			stats.ClipsUnmatched++
			m.logger.Debug().Str("file", clip.File.FileName).
				Msg("Failed to derive matching key for media file")
			continue
		}

		found := false
		for _, i := range index[key] {
			if m.cfg.Matching.MatchTimecode && !timecodeCompatible(rows[i], clip) {
				stats.TimecodeRejected++
				m.logger.Debug().Str("file", clip.File.FileName).
					Str("csv", rows[i].File).Int("line", rows[i].Line).
					Msg("Key match rejected by timecode gate")
				continue
			}
			pairs = append(pairs, Pair{Row: rows[i], Clip: clip, Key: key})
			rowMatched[i] = true
			found = true
		}
		if !found {
			stats.ClipsUnmatched++
			m.logger.Debug().Str("file", clip.File.FileName).Str("key", key).
				Msg("No matching csv line for media file")
		}
	}

	for i := range rows {
		if !rowMatched[i] {
			stats.RowsUnmatched++
		}
	}
	stats.Pairs = len(pairs)

	m.logger.Info().
		Int("pairs", stats.Pairs).
		Int("rows", stats.Rows).
		Int("clips", stats.Clips).
		Int("rowsUnmatched", stats.RowsUnmatched).
		Int("clipsUnmatched", stats.ClipsUnmatched).
		Msg("Matching complete")

	return pairs, stats
}

// timecodeCompatible requires the row's source range to lie inside the
// clip's embedded timecode range. Any missing operand fails the gate.
func timecodeCompatible(row editindex.Row, clip Clip) bool {
	if clip.Meta == nil || !clip.Meta.HasTimecode {
		return false
	}
	in, out, ok := row.SourceRange()
	if !ok {
		return false
	}
	return in >= clip.Meta.TCInFrames && out <= clip.Meta.TCOutFrames
}
