// Package prefs loads and validates the tool preferences: column
// renaming, skip rules, the matching rule, search filters, grouping,
// metadata tool paths and EDL export rules.
//
// Preferences are read once at startup, compiled (every regex validated
// up front), and passed to the pipeline as an immutable value. Nothing
// in the pipeline reads ambient configuration state.
package prefs

import "github.com/jrsndl/EditIndexHelper/pkg/rules"

// Prefs is the full preferences document. Unknown keys in the source
// file are ignored; missing keys take the embedded defaults.
type Prefs struct {
	CSVColumns  Columns     `koanf:"csv_columns" json:"csv_columns" toml:"csv_columns" yaml:"csv_columns"`
	CSVSkip     []SkipRule  `koanf:"csv_match_skip" json:"csv_match_skip" toml:"csv_match_skip" yaml:"csv_match_skip"`
	Matching    Matching    `koanf:"csv_matching" json:"csv_matching" toml:"csv_matching" yaml:"csv_matching"`
	SearchCSV   Search      `koanf:"search_csv" json:"search_csv" toml:"search_csv" yaml:"search_csv"`
	GroupCSV    Group       `koanf:"group_csv" json:"group_csv" toml:"group_csv" yaml:"group_csv"`
	SearchMedia Search      `koanf:"search_media" json:"search_media" toml:"search_media" yaml:"search_media"`
	MediaMeta   MediaMeta   `koanf:"media_meta" json:"media_meta" toml:"media_meta" yaml:"media_meta"`
	EDL         EDL         `koanf:"edl" json:"edl" toml:"edl" yaml:"edl"`
	EDLReel     ExportRule  `koanf:"edl_reel" json:"edl_reel" toml:"edl_reel" yaml:"edl_reel"`
	EDLClip     ExportRule  `koanf:"edl_clip" json:"edl_clip" toml:"edl_clip" yaml:"edl_clip"`
	EDLClipPath ExportRule  `koanf:"edl_clip_path" json:"edl_clip_path" toml:"edl_clip_path" yaml:"edl_clip_path"`
}

// Columns maps canonical field names (csv_reel, csv_sin, ...) onto the
// source column headers, and lists which canonical names are required.
type Columns struct {
	Rename   map[string]string `koanf:"rename" json:"rename" toml:"rename" yaml:"rename"`
	Required []string          `koanf:"required" json:"required" toml:"required" yaml:"required"`
}

// SkipRule is a row filter: when the rule passes against the named
// column's value, the row is excluded from further processing.
type SkipRule struct {
	Column  string `koanf:"column" json:"column" toml:"column" yaml:"column"`
	Pattern string `koanf:"pattern" json:"pattern" toml:"pattern" yaml:"pattern"`
	Repl    string `koanf:"repl" json:"repl" toml:"repl" yaml:"repl"`
	Equals  string `koanf:"equals" json:"equals" toml:"equals" yaml:"equals"`
	Invert  bool   `koanf:"invert" json:"invert" toml:"invert" yaml:"invert"`
}

// Rule converts the skip rule into its engine form.
func (s SkipRule) Rule() rules.Rule {
	return rules.Rule{
		Column:  s.Column,
		Pattern: s.Pattern,
		Repl:    s.Repl,
		Equals:  s.Equals,
		Invert:  s.Invert,
	}
}

// Matching configures key derivation on both sides of the join.
type Matching struct {
	Column        string `koanf:"column" json:"column" toml:"column" yaml:"column"`
	CSVPattern    string `koanf:"csv_pattern" json:"csv_pattern" toml:"csv_pattern" yaml:"csv_pattern"`
	CSVRepl       string `koanf:"csv_repl" json:"csv_repl" toml:"csv_repl" yaml:"csv_repl"`
	Media         string `koanf:"media" json:"media" toml:"media" yaml:"media"`
	MediaPattern  string `koanf:"media_pattern" json:"media_pattern" toml:"media_pattern" yaml:"media_pattern"`
	MediaRepl     string `koanf:"media_repl" json:"media_repl" toml:"media_repl" yaml:"media_repl"`
	MatchTimecode bool   `koanf:"match_timecode" json:"match_timecode" toml:"match_timecode" yaml:"match_timecode"`
}

// Search configures a filtered file enumeration under a root folder.
type Search struct {
	RootFolder           string `koanf:"root_folder" json:"root_folder" toml:"root_folder" yaml:"root_folder"`
	FilterInclude        string `koanf:"filter_include" json:"filter_include" toml:"filter_include" yaml:"filter_include"`
	FilterExclude        string `koanf:"filter_exclude" json:"filter_exclude" toml:"filter_exclude" yaml:"filter_exclude"`
	Pattern              string `koanf:"pattern" json:"pattern" toml:"pattern" yaml:"pattern"`
	Recursive            bool   `koanf:"recursive" json:"recursive" toml:"recursive" yaml:"recursive"`
	CheckRequiredColumns bool   `koanf:"check_required_columns" json:"check_required_columns" toml:"check_required_columns" yaml:"check_required_columns"`
}

// Group configures version grouping of edit index files: files sharing
// the common capture form a group, and with HighestOnly set only the
// file ranking last by the sort capture is parsed.
type Group struct {
	Enabled     bool   `koanf:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	Common      string `koanf:"common" json:"common" toml:"common" yaml:"common"`
	Sort        string `koanf:"sort" json:"sort" toml:"sort" yaml:"sort"`
	HighestOnly bool   `koanf:"highest_only" json:"highest_only" toml:"highest_only" yaml:"highest_only"`
}

// MediaMeta holds paths to the external metadata tools.
type MediaMeta struct {
	FfprobePath string `koanf:"ffprobe_path" json:"ffprobe_path" toml:"ffprobe_path" yaml:"ffprobe_path"`
	OiioPath    string `koanf:"oiio_path" json:"oiio_path" toml:"oiio_path" yaml:"oiio_path"`
}

// EDL holds frame rate, reel length and output naming options.
type EDL struct {
	FrameRate              float64 `koanf:"frame_rate" json:"frame_rate" toml:"frame_rate" yaml:"frame_rate"`
	DropFrame              bool    `koanf:"drop_frame" json:"drop_frame" toml:"drop_frame" yaml:"drop_frame"`
	MaxReel                int     `koanf:"max_reel" json:"max_reel" toml:"max_reel" yaml:"max_reel"`
	UseMediaRoot           bool    `koanf:"use_media_root" json:"use_media_root" toml:"use_media_root" yaml:"use_media_root"`
	UseMediaRootUp         bool    `koanf:"use_media_root_up" json:"use_media_root_up" toml:"use_media_root_up" yaml:"use_media_root_up"`
	CustomFolder           string  `koanf:"custom_folder" json:"custom_folder" toml:"custom_folder" yaml:"custom_folder"`
	EDLNameFromCSV         bool    `koanf:"edl_name_from_csv" json:"edl_name_from_csv" toml:"edl_name_from_csv" yaml:"edl_name_from_csv"`
	EDLNameFromMediaFolder bool    `koanf:"edl_name_from_media_folder" json:"edl_name_from_media_folder" toml:"edl_name_from_media_folder" yaml:"edl_name_from_media_folder"`
	EDLNameCustom          string  `koanf:"edl_name_custom" json:"edl_name_custom" toml:"edl_name_custom" yaml:"edl_name_custom"`
	EDLNamePrefix          string  `koanf:"edl_name_prefix" json:"edl_name_prefix" toml:"edl_name_prefix" yaml:"edl_name_prefix"`
	EDLNameSuffix          string  `koanf:"edl_name_suffix" json:"edl_name_suffix" toml:"edl_name_suffix" yaml:"edl_name_suffix"`
}

// ExportRule derives one output field (reel or annotation line) from a
// token source; Export gates whether the derived line is emitted.
type ExportRule struct {
	Source  string `koanf:"source" json:"source" toml:"source" yaml:"source"`
	Pattern string `koanf:"pattern" json:"pattern" toml:"pattern" yaml:"pattern"`
	Repl    string `koanf:"repl" json:"repl" toml:"repl" yaml:"repl"`
	Export  bool   `koanf:"export" json:"export" toml:"export" yaml:"export"`
}

// Rule converts the export rule into its engine form.
func (e ExportRule) Rule() rules.Rule {
	return rules.Rule{
		Source:  e.Source,
		Pattern: e.Pattern,
		Repl:    e.Repl,
	}
}
