package prefs

import (
	"fmt"
	"regexp"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
	"github.com/jrsndl/EditIndexHelper/pkg/rules"
)

// CompiledSkip pairs a compiled skip rule with the column it reads.
type CompiledSkip struct {
	Column string
	Rule   *rules.Compiled
}

// Compiled is the validated, regex-compiled form of Prefs. Every rule
// pattern is compiled here, once, so a bad pattern aborts before any
// file I/O happens.
type Compiled struct {
	*Prefs

	Skip     []CompiledSkip
	CSVKey   *rules.Compiled
	MediaKey *rules.Compiled
	Reel     *rules.Compiled
	Clip     *rules.Compiled
	ClipPath *rules.Compiled

	// Grouping regexes compile softly: when either is invalid the
	// originals disabled grouping with an error log rather than
	// aborting, and versioned files all pass through.
	GroupCommon *regexp.Regexp
	GroupSort   *regexp.Regexp
}

// Compile validates the preferences and compiles every configured rule.
func (p *Prefs) Compile() (*Compiled, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	c := &Compiled{Prefs: p}

	for i, skip := range p.CSVSkip {
		compiled, err := rules.Compile(skip.Rule(), fmt.Sprintf("csv_match_skip[%d].pattern", i))
		if err != nil {
			return nil, err
		}
		if skip.Column == "" {
			return nil, errors.Newf(errors.ErrConfigValid,
				"csv_match_skip[%d] has no column", i)
		}
		c.Skip = append(c.Skip, CompiledSkip{Column: skip.Column, Rule: compiled})
	}

	var err error
	c.CSVKey, err = rules.Compile(rules.Rule{
		Pattern: p.Matching.CSVPattern,
		Repl:    p.Matching.CSVRepl,
	}, "csv_matching.csv_pattern")
	if err != nil {
		return nil, err
	}

	c.MediaKey, err = rules.Compile(rules.Rule{
		Source:  p.Matching.Media,
		Pattern: p.Matching.MediaPattern,
		Repl:    p.Matching.MediaRepl,
	}, "csv_matching.media_pattern")
	if err != nil {
		return nil, err
	}

	c.Reel, err = rules.Compile(p.EDLReel.Rule(), "edl_reel.pattern")
	if err != nil {
		return nil, err
	}
	c.Clip, err = rules.Compile(p.EDLClip.Rule(), "edl_clip.pattern")
	if err != nil {
		return nil, err
	}
	c.ClipPath, err = rules.Compile(p.EDLClipPath.Rule(), "edl_clip_path.pattern")
	if err != nil {
		return nil, err
	}

	if p.GroupCSV.Enabled {
		c.GroupCommon, c.GroupSort = compileGrouping(p.GroupCSV)
	}

	return c, nil
}

// GroupingActive reports whether version grouping is enabled and both
// grouping regexes compiled.
func (c *Compiled) GroupingActive() bool {
	return c.GroupCommon != nil && c.GroupSort != nil
}

func compileGrouping(g Group) (common, sort *regexp.Regexp) {
	logger := logging.GetLogger("prefs")

	common, err := regexp.Compile(g.Common)
	if err != nil {
		logger.Error().Err(err).Str("pattern", g.Common).
			Msg("Grouping regex not valid, no grouping done")
		return nil, nil
	}
	sort, err = regexp.Compile(g.Sort)
	if err != nil {
		logger.Error().Err(err).Str("pattern", g.Sort).
			Msg("Grouping regex not valid, no grouping done")
		return nil, nil
	}
	return common, sort
}

func (p *Prefs) validate() error {
	if len(p.CSVColumns.Rename) == 0 {
		return errors.New(errors.ErrConfigValid, "csv_columns.rename section is missing")
	}
	if p.Matching.Column == "" {
		return errors.New(errors.ErrConfigValid, "csv_matching.column is missing")
	}
	if p.Matching.Media == "" {
		return errors.New(errors.ErrConfigValid, "csv_matching.media is missing")
	}
	if p.EDL.FrameRate <= 0 {
		return errors.Newf(errors.ErrConfigValid, "edl.frame_rate %v is not a valid rate", p.EDL.FrameRate)
	}
	if p.EDL.MaxReel <= 0 {
		return errors.Newf(errors.ErrConfigValid, "edl.max_reel %d must be positive", p.EDL.MaxReel)
	}
	return nil
}
