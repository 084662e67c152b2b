// Package edl renders matched pairs into CMX-style edit decision
// lists: reel derivation, annotation lines, event blocks and output
// naming.
package edl

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
	"github.com/jrsndl/EditIndexHelper/pkg/match"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/jrsndl/EditIndexHelper/pkg/rules"
)

// FallbackReel is the conventional reel for clips whose reel rule
// found nothing.
const FallbackReel = "AX"

// List is one rendered edit list ready to write.
type List struct {
	Path   string // target file path
	Title  string
	Body   string
	Events int
}

// Exporter renders and writes EDLs per the compiled preferences.
type Exporter struct {
	cfg    *prefs.Compiled
	logger zerolog.Logger
}

// New creates an exporter.
func New(cfg *prefs.Compiled) *Exporter {
	return &Exporter{
		cfg:    cfg,
		logger: logging.GetLogger("edl"),
	}
}

// Build groups pairs by their originating csv file, orders each group
// by record-in timecode and renders one edit list per group. Two calls
// over the same pairs produce byte-identical lists.
func (e *Exporter) Build(pairs []match.Pair) []List {
	groups := make(map[string][]match.Pair)
	var order []string
	for _, pair := range pairs {
		key := pair.Row.File
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], pair)
	}

	var lists []List
	for _, csvFile := range order {
		group := groups[csvFile]
		sort.SliceStable(group, func(i, j int) bool {
			return recordIn(group[i]) < recordIn(group[j])
		})

		title := e.title(csvFile, group)
		body := e.render(title, group)

		lists = append(lists, List{
			Path:   path.Join(e.root(group), title+".edl"),
			Title:  title,
			Body:   body,
			Events: len(group),
		})
	}
	return lists
}

// Write writes each list to its path, creating directories as needed.
// A failed write is reported per list and does not stop the others.
func (e *Exporter) Write(lists []List) (written int, errs []error) {
	for _, list := range lists {
		if err := os.MkdirAll(filepath.Dir(list.Path), 0755); err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrEdlWrite, "creating folder for %s", list.Path))
			continue
		}
		if err := os.WriteFile(list.Path, []byte(list.Body), 0644); err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrEdlWrite, "writing %s", list.Path))
			continue
		}
		e.logger.Info().Str("path", list.Path).Int("events", list.Events).Msg("Created edl")
		written++
	}
	return written, errs
}

// render serializes one ordered group into EDL text.
func (e *Exporter) render(title string, group []match.Pair) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if e.cfg.EDL.DropFrame {
		b.WriteString("FCM: DROP FRAME\n\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n\n")
	}

	for i, pair := range group {
		e.renderEvent(&b, pair, i+1)
	}
	return b.String()
}

// renderEvent writes one event block: the edit line followed by any
// derived annotation lines.
func (e *Exporter) renderEvent(b *strings.Builder, pair match.Pair, number int) {
	tokens := pairTokens(pair)

	reel := e.reel(tokens)
	tcs := pair.Row.Columns["csv_sin"] + " " + pair.Row.Columns["csv_sout"] + " " +
		pair.Row.Columns["csv_rin"] + " " + pair.Row.Columns["csv_rout"]

	fmt.Fprintf(b, "%03d  %-*s V     C        %s\n", number, e.cfg.EDL.MaxReel, reel, tcs)

	if e.cfg.EDLClip.Export {
		if line, ok := annotate(e.cfg.Clip, tokens); ok {
			b.WriteString(line + "\n")
		}
	}
	if e.cfg.EDLClipPath.Export {
		if line, ok := annotate(e.cfg.ClipPath, tokens); ok {
			b.WriteString(line + "\n")
		}
	}
}

// reel derives the reel identifier, falling back to AX and truncating
// to max_reel characters.
func (e *Exporter) reel(tokens map[string]string) string {
	out, _ := e.cfg.Reel.Apply(rules.Expand(e.cfg.EDLReel.Source, tokens))
	if out == "" {
		out = FallbackReel
	}
	runes := []rune(out)
	if len(runes) > e.cfg.EDL.MaxReel {
		out = string(runes[:e.cfg.EDL.MaxReel])
	}
	return out
}

// annotate runs one export rule; a failed find yields no line, which
// is not an error.
func annotate(rule *rules.Compiled, tokens map[string]string) (string, bool) {
	out, matched := rule.Apply(rules.Expand(rule.Source, tokens))
	if !matched {
		return "", false
	}
	return out, true
}

// pairTokens merges row columns, probed metadata and media fields into
// one placeholder map for export rules.
func pairTokens(pair match.Pair) map[string]string {
	tokens := pair.Row.Tokens()
	if pair.Clip.Meta != nil {
		for k, v := range pair.Clip.Meta.Tokens() {
			tokens[k] = v
		}
	}
	for k, v := range pair.Clip.File.Tokens() {
		tokens[k] = v
	}
	tokens["media_key"] = pair.Key
	return tokens
}

// title picks the edit list name from the naming preferences.
func (e *Exporter) title(csvFile string, group []match.Pair) string {
	cfg := e.cfg.EDL

	name := cfg.EDLNameCustom
	switch {
	case cfg.EDLNameFromCSV:
		name = strings.TrimSuffix(filepath.Base(csvFile), filepath.Ext(csvFile))
	case cfg.EDLNameFromMediaFolder:
		dir := group[0].Clip.File.Dir
		name = path.Base(dir)
	}
	return cfg.EDLNamePrefix + name + cfg.EDLNameSuffix
}

// root picks the output folder from the naming preferences.
func (e *Exporter) root(group []match.Pair) string {
	cfg := e.cfg.EDL
	mediaDir := group[0].Clip.File.Dir

	switch {
	case cfg.UseMediaRoot:
		return mediaDir
	case cfg.UseMediaRootUp:
		return path.Dir(mediaDir)
	default:
		return strings.ReplaceAll(cfg.CustomFolder, "\\", "/")
	}
}

func recordIn(pair match.Pair) int {
	n, ok := pair.Row.RecordInFrames()
	if !ok {
		// Rows without a record-in sort first, deterministically.
		return -1
	}
	return n
}
