// Package editindex loads edit index csv files into canonical rows:
// discovery with filters, version grouping, header renaming, required
// column checks, skip rules and timecode frame derivation.
package editindex

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/jrsndl/EditIndexHelper/pkg/scan"
	"github.com/jrsndl/EditIndexHelper/pkg/timecode"
)

// Timecode columns that get derived frame counts next to them.
var tcColumns = []string{"csv_sin", "csv_sout", "csv_rin", "csv_rout"}

// Row is one surviving edit index line, keyed by canonical column
// names, tagged with its origin for diagnostics. Rows are read-only
// once returned from Load.
type Row struct {
	Columns map[string]string
	Frames  map[string]int // csv_sin_frames etc.; absent when unparseable
	File    string         // originating csv path
	Line    int            // 1-based line number in that file
}

// Tokens returns the row's columns as rule placeholders, with derived
// frame counts included.
func (r Row) Tokens() map[string]string {
	tokens := make(map[string]string, len(r.Columns)+len(r.Frames))
	for k, v := range r.Columns {
		tokens[k] = v
	}
	for k, v := range r.Frames {
		tokens[k] = strconv.Itoa(v)
	}
	return tokens
}

// RecordInFrames returns the record-in frame count used for EDL
// ordering; ok is false when the column was absent or unparseable.
func (r Row) RecordInFrames() (int, bool) {
	v, ok := r.Frames["csv_rin_frames"]
	return v, ok
}

// SourceRange returns the source in/out frame counts for the timecode
// matching gate.
func (r Row) SourceRange() (in, out int, ok bool) {
	in, inOK := r.Frames["csv_sin_frames"]
	out, outOK := r.Frames["csv_sout_frames"]
	return in, out, inOK && outOK
}

// LoadStats counts what discovery and parsing did, for the run summary.
type LoadStats struct {
	FilesFound   int
	FilesGrouped int // dropped as non-highest group members
	FilesSkipped int // unreadable, missing required columns, or all rows skipped
	RowsParsed   int
	RowsSkipped  int
}

// Source loads edit index rows according to compiled preferences.
type Source struct {
	cfg    *prefs.Compiled
	logger zerolog.Logger
}

// NewSource creates a row source for the given preferences.
func NewSource(cfg *prefs.Compiled) *Source {
	return &Source{
		cfg:    cfg,
		logger: logging.GetLogger("editindex"),
	}
}

// Load enumerates, groups and parses the edit index files, returning
// surviving rows in file-then-line order. No csv files at all is an
// error; individual unreadable or invalid files are skipped and
// counted.
func (s *Source) Load() ([]Row, *LoadStats, error) {
	search := s.cfg.SearchCSV
	paths, err := scan.Files(search.RootFolder, scan.Filters{
		Include:   search.FilterInclude,
		Exclude:   search.FilterExclude,
		Pattern:   search.Pattern,
		Recursive: search.Recursive,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, errors.Newf(errors.ErrIndexNoFiles,
			"no csv files found at %s", search.RootFolder)
	}

	stats := &LoadStats{FilesFound: len(paths)}

	// Grouping drops non-surviving versions before any file is opened.
	if s.cfg.GroupingActive() {
		survivors := GroupSurvivors(paths, s.cfg.GroupCommon, s.cfg.GroupSort, s.cfg.GroupCSV.HighestOnly)
		stats.FilesGrouped = len(paths) - len(survivors)
		paths = survivors
		s.logger.Info().Int("files", len(paths)).Msg("Csv files after grouping")
	}

	var rows []Row
	for _, path := range paths {
		fileRows, err := s.loadFile(path, stats)
		if err != nil {
			s.logger.Error().Err(err).Str("file", filepath.Base(path)).Msg("Skipping csv file")
			stats.FilesSkipped++
			continue
		}
		if len(fileRows) == 0 {
			s.logger.Warn().Str("file", filepath.Base(path)).
				Msg("Csv file has no valid lines, skipping file")
			stats.FilesSkipped++
			continue
		}
		s.logger.Debug().Str("file", filepath.Base(path)).
			Int("rows", len(fileRows)).Msg("Adding csv file")
		rows = append(rows, fileRows...)
	}

	if len(rows) == 0 {
		return nil, stats, errors.Newf(errors.ErrIndexNoFiles,
			"no readable csv files found at %s", search.RootFolder)
	}

	s.logger.Info().Int("rows", len(rows)).Int("files", len(paths)).Msg("Edit index loaded")
	return rows, stats, nil
}

// loadFile parses one csv file; it returns the surviving rows, or an
// error when the whole file must be discarded.
func (s *Source) loadFile(path string, stats *LoadStats) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIndexRead, "opening %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIndexRead, "reading header of %s", path)
	}

	canonical := s.canonicalHeader(header)

	if s.cfg.SearchCSV.CheckRequiredColumns {
		if missing := missingRequired(canonical, s.cfg.CSVColumns.Required); len(missing) > 0 {
			return nil, errors.Newf(errors.ErrIndexRead,
				"csv file %s is missing required column(s) %v", filepath.Base(path), missing)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.logger.Warn().Err(err).Str("file", filepath.Base(path)).
				Int("line", line).Msg("Unparseable csv line, skipping")
			stats.RowsSkipped++
			continue
		}

		row := s.buildRow(canonical, record, path, line)
		stats.RowsParsed++

		if s.skipRow(row) {
			stats.RowsSkipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// canonicalHeader renames source headers to canonical names. Headers
// without a rename entry keep their original name; on duplicate header
// names the later column wins.
func (s *Source) canonicalHeader(header []string) []string {
	toCanonical := make(map[string]string, len(s.cfg.CSVColumns.Rename))
	for canonical, source := range s.cfg.CSVColumns.Rename {
		toCanonical[source] = canonical
	}

	out := make([]string, len(header))
	for i, name := range header {
		if canonical, ok := toCanonical[name]; ok {
			out[i] = canonical
		} else {
			out[i] = name
		}
	}
	return out
}

func (s *Source) buildRow(header []string, record []string, path string, line int) Row {
	columns := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		// Later duplicate columns overwrite earlier ones.
		columns[name] = record[i]
	}

	frames := make(map[string]int, len(tcColumns))
	for _, col := range tcColumns {
		value := columns[col]
		if value == "" {
			continue
		}
		n, err := timecode.ToFrames(value, s.cfg.EDL.FrameRate)
		if err != nil {
			s.logger.Debug().Str("file", filepath.Base(path)).Int("line", line).
				Str("column", col).Str("value", value).Msg("Malformed timecode")
			continue
		}
		frames[col+"_frames"] = n
	}

	return Row{Columns: columns, Frames: frames, File: path, Line: line}
}

// skipRow applies the configured skip rules in order; any passing rule
// excludes the row. This is the intended exclusion mechanism, so it is
// silent apart from counters.
func (s *Source) skipRow(row Row) bool {
	for _, skip := range s.cfg.Skip {
		if skip.Rule.Pass(row.Columns[skip.Column]) {
			return true
		}
	}
	return false
}

func missingRequired(header []string, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}

	var missing []string
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
