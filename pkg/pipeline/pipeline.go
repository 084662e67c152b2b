// Package pipeline wires the stages together: preferences, edit index
// rows, media discovery and probing, matching, and EDL export. The run
// is a single-threaded batch; everything below configuration severity
// recovers locally so the run still produces whatever output is
// derivable.
package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jrsndl/EditIndexHelper/pkg/edl"
	"github.com/jrsndl/EditIndexHelper/pkg/editindex"
	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
	"github.com/jrsndl/EditIndexHelper/pkg/match"
	"github.com/jrsndl/EditIndexHelper/pkg/media"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/jrsndl/EditIndexHelper/pkg/probe"
	"github.com/jrsndl/EditIndexHelper/pkg/scan"
)

// Result aggregates the counters and artifacts of one run.
type Result struct {
	Index       *editindex.LoadStats
	Match       *match.Stats
	MediaFound  int
	ProbeFailed int
	Lists       []edl.List
	Written     int
	WriteErrors []error
}

// Runner executes the pipeline against compiled preferences.
type Runner struct {
	cfg    *prefs.Compiled
	logger zerolog.Logger

	// prober is swappable for tests.
	prober func(ctx context.Context, path string) (*probe.Metadata, error)
}

// New compiles the preferences and builds a runner; a bad rule or
// missing section fails here, before any I/O.
func New(p *prefs.Prefs) (*Runner, error) {
	cfg, err := p.Compile()
	if err != nil {
		return nil, err
	}

	prober := probe.New(resolveTool(cfg.MediaMeta.FfprobePath))
	r := &Runner{
		cfg:    cfg,
		logger: logging.GetLogger("pipeline"),
		prober: prober.Probe,
	}
	r.checkTools()
	return r, nil
}

// Run executes the whole pipeline and writes the resulting EDLs.
// A run with zero matches is still a completed run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	rows, indexStats, err := editindex.NewSource(r.cfg).Load()
	result.Index = indexStats
	if err != nil {
		return result, err
	}

	clips, err := r.loadClips(ctx, result)
	if err != nil {
		return result, err
	}

	pairs, matchStats := match.New(r.cfg).Match(rows, clips)
	result.Match = matchStats

	exporter := edl.New(r.cfg)
	result.Lists = exporter.Build(pairs)
	result.Written, result.WriteErrors = exporter.Write(result.Lists)

	r.logger.Info().
		Int("edls", result.Written).
		Int("pairs", matchStats.Pairs).
		Msg("Run complete")
	return result, nil
}

// loadClips discovers media files and probes each one. Probe failures
// degrade that clip's metadata to unknown; they never abort the run.
func (r *Runner) loadClips(ctx context.Context, result *Result) ([]match.Clip, error) {
	search := r.cfg.SearchMedia
	files, err := media.Find(search.RootFolder, scan.Filters{
		Include:   search.FilterInclude,
		Exclude:   search.FilterExclude,
		Pattern:   search.Pattern,
		Recursive: search.Recursive,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrMediaNoFiles,
			"folder %s has no media files", search.RootFolder)
	}
	result.MediaFound = len(files)

	clips := make([]match.Clip, 0, len(files))
	for _, file := range files {
		meta, err := r.prober(ctx, file.FullPath)
		if err != nil {
			r.logger.Error().Err(err).Str("file", file.FileName).
				Msg("Failed to read metadata from file")
			result.ProbeFailed++
			meta = nil
		}
		clips = append(clips, match.Clip{File: file, Meta: meta})
	}
	return clips, nil
}

// checkTools warns about missing external tools up front; a missing
// probe binary degrades metadata per file rather than aborting.
func (r *Runner) checkTools() {
	ffprobe := resolveTool(r.cfg.MediaMeta.FfprobePath)
	if !toolAvailable(ffprobe) {
		r.logger.Warn().Str("path", ffprobe).
			Msg("Ffprobe not found, media metadata will be unknown")
	}
	if oiio := r.cfg.MediaMeta.OiioPath; oiio != "" && !toolAvailable(resolveTool(oiio)) {
		r.logger.Warn().Str("path", oiio).Msg("OiioTool not found")
	}
}

// resolveTool expands "./"-relative tool paths against the executable
// directory and appends .exe on Windows.
func resolveTool(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "./") {
		if exe, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exe), path[2:])
		}
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(path), ".exe") {
		path += ".exe"
	}
	return path
}

func toolAvailable(path string) bool {
	if path == "" {
		return false
	}
	if strings.ContainsAny(path, `/\`) {
		_, err := os.Stat(path)
		return err == nil
	}
	// Bare names resolve through PATH.
	_, err := exec.LookPath(path)
	return err == nil
}
