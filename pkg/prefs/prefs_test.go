package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrefs(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	p, err := prefs.Default()
	require.NoError(t, err)

	assert.Equal(t, "csv_reel", p.Matching.Column)
	assert.Equal(t, "{clean_name_no_sep}", p.Matching.Media)
	assert.Equal(t, 24.0, p.EDL.FrameRate)
	assert.Equal(t, 8, p.EDL.MaxReel)
	assert.Contains(t, p.CSVColumns.Required, "csv_sin")
	assert.Equal(t, "Source In", p.CSVColumns.Rename["csv_sin"])

	_, err = p.Compile()
	require.NoError(t, err, "embedded defaults must always compile")
}

func TestLoadJSONOverridesDefaults(t *testing.T) {
	path := writePrefs(t, "prefs.json", `{
		"edl": {"frame_rate": 25, "max_reel": 16},
		"search_csv": {"root_folder": "/idx"}
	}`)

	p, err := prefs.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25.0, p.EDL.FrameRate)
	assert.Equal(t, 16, p.EDL.MaxReel)
	assert.Equal(t, "/idx", p.SearchCSV.RootFolder)
	// Untouched keys keep defaults.
	assert.Equal(t, "csv_reel", p.Matching.Column)
}

func TestLoadTOML(t *testing.T) {
	path := writePrefs(t, "prefs.toml", `
[edl]
frame_rate = 30.0

[csv_matching]
match_timecode = true
`)

	p, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, p.EDL.FrameRate)
	assert.True(t, p.Matching.MatchTimecode)
}

func TestLoadYAML(t *testing.T) {
	path := writePrefs(t, "prefs.yaml", `
edl:
  drop_frame: true
group_csv:
  enabled: true
`)

	p, err := prefs.Load(path)
	require.NoError(t, err)
	assert.True(t, p.EDL.DropFrame)
	assert.True(t, p.GroupCSV.Enabled)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := prefs.Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfigLoad))
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := writePrefs(t, "prefs.ini", "[edl]")
		_, err := prefs.Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed_json", func(t *testing.T) {
		path := writePrefs(t, "prefs.json", "{not json")
		_, err := prefs.Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfigParse))
	})
}

func TestCompileRejectsBadRegex(t *testing.T) {
	p, err := prefs.Default()
	require.NoError(t, err)
	p.Matching.CSVPattern = "("

	_, err = p.Compile()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRuleInvalid))
	assert.Contains(t, err.Error(), "csv_matching.csv_pattern")
}

func TestCompileRejectsSkipRuleWithoutColumn(t *testing.T) {
	p, err := prefs.Default()
	require.NoError(t, err)
	p.CSVSkip = append(p.CSVSkip, prefs.SkipRule{Pattern: ".*"})

	_, err = p.Compile()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigValid))
}

func TestCompileValidation(t *testing.T) {
	p, err := prefs.Default()
	require.NoError(t, err)
	p.EDL.FrameRate = 0

	_, err = p.Compile()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigValid))
}

func TestGroupingSoftFailure(t *testing.T) {
	p, err := prefs.Default()
	require.NoError(t, err)
	p.GroupCSV.Enabled = true
	p.GroupCSV.Common = "("

	c, err := p.Compile()
	require.NoError(t, err, "invalid grouping regex disables grouping, not the run")
	assert.False(t, c.GroupingActive())
}
