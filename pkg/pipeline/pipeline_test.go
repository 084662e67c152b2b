package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/jrsndl/EditIndexHelper/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexCSV = "Reel,V,Source In,Source Out,Record In,Record Out\n" +
	"ABCDEFGHIJKLMNOP,V1,01:00:00:00,01:00:10:00,01:00:00:00,01:00:10:00\n"

func setupRun(t *testing.T, mutate func(*prefs.Prefs)) (*Runner, string, string) {
	t.Helper()

	csvRoot := t.TempDir()
	mediaRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(csvRoot, "edit.csv"), []byte(indexCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(mediaRoot, "ABCDEFGHIJKLMNOP_v2.mov"), []byte("x"), 0644))

	p, err := prefs.Default()
	require.NoError(t, err)
	p.SearchCSV.RootFolder = csvRoot
	p.SearchMedia.RootFolder = mediaRoot
	p.CSVSkip = nil
	if mutate != nil {
		mutate(p)
	}

	r, err := New(p)
	require.NoError(t, err)
	// No real ffprobe in tests.
	r.prober = func(ctx context.Context, path string) (*probe.Metadata, error) {
		return &probe.Metadata{Category: probe.Category(path)}, nil
	}
	return r, csvRoot, mediaRoot
}

func TestRunEndToEnd(t *testing.T) {
	r, _, mediaRoot := setupRun(t, nil)

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Match)
	assert.Equal(t, 1, result.Match.Pairs)
	assert.Equal(t, 1, result.MediaFound)
	assert.Equal(t, 1, result.Written)

	content, err := os.ReadFile(filepath.Join(mediaRoot, "edit.edl"))
	require.NoError(t, err)
	body := string(content)
	assert.Contains(t, body, "TITLE: edit\n")
	assert.Contains(t, body, "FCM: NON-DROP FRAME\n")
	// Both sides reduced to the same 14-character key prefix.
	assert.Contains(t, body, "001  ABCDEFGH V     C        01:00:00:00 01:00:10:00 01:00:00:00 01:00:10:00")
	assert.Contains(t, body, "* FROM CLIP NAME: ABCDEFGHIJKLMNOP_v2.mov")
}

func TestRunIdempotent(t *testing.T) {
	r, _, mediaRoot := setupRun(t, nil)

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(mediaRoot, "edit.edl"))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(mediaRoot, "edit.edl"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunZeroMatchesCompletes(t *testing.T) {
	r, _, _ := setupRun(t, func(p *prefs.Prefs) {
		p.Matching.CSVPattern = `^(ZZZ)$`
	})

	result, err := r.Run(context.Background())
	require.NoError(t, err, "zero matches is still a completed run")
	assert.Equal(t, 0, result.Match.Pairs)
	assert.Equal(t, 1, result.Match.ClipsUnmatched)
	assert.Empty(t, result.Lists)
}

func TestRunProbeFailureDegrades(t *testing.T) {
	r, _, _ := setupRun(t, nil)
	r.prober = func(ctx context.Context, path string) (*probe.Metadata, error) {
		return nil, assert.AnError
	}

	result, err := r.Run(context.Background())
	require.NoError(t, err, "probe failures must never abort the run")
	assert.Equal(t, 1, result.ProbeFailed)
	assert.Equal(t, 1, result.Match.Pairs)
}

func TestRunUnreachableMediaRoot(t *testing.T) {
	r, _, _ := setupRun(t, func(p *prefs.Prefs) {
		p.SearchMedia.RootFolder = "/does/not/exist"
	})

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRootUnreachable))
}

func TestRunBadRuleFailsBeforeIO(t *testing.T) {
	p, err := prefs.Default()
	require.NoError(t, err)
	p.Matching.CSVPattern = "("

	_, err = New(p)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRuleInvalid))
}

func TestSummary(t *testing.T) {
	r, _, _ := setupRun(t, nil)
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	out := Summary(result)
	assert.Contains(t, out, "Run summary")
	assert.Contains(t, out, "1 pairs")
	assert.Contains(t, out, "1 of 1 written")
}
