package edl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsndl/EditIndexHelper/pkg/edl"
	"github.com/jrsndl/EditIndexHelper/pkg/editindex"
	"github.com/jrsndl/EditIndexHelper/pkg/match"
	"github.com/jrsndl/EditIndexHelper/pkg/media"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiled(t *testing.T, mutate func(*prefs.Prefs)) *prefs.Compiled {
	t.Helper()
	p, err := prefs.Default()
	require.NoError(t, err)
	if mutate != nil {
		mutate(p)
	}
	c, err := p.Compile()
	require.NoError(t, err)
	return c
}

func pair(csvFile, reel, rin string, rinFrames int, mediaPath string) match.Pair {
	return match.Pair{
		Row: editindex.Row{
			Columns: map[string]string{
				"csv_reel": reel,
				"csv_sin":  "01:00:00:00",
				"csv_sout": "01:00:10:00",
				"csv_rin":  rin,
				"csv_rout": "01:00:10:00",
			},
			Frames: map[string]int{"csv_rin_frames": rinFrames},
			File:   csvFile,
		},
		Clip: match.Clip{File: media.Parse(mediaPath)},
		Key:  reel,
	}
}

func TestBuildSingleList(t *testing.T) {
	e := edl.New(compiled(t, nil))

	lists := e.Build([]match.Pair{
		pair("/idx/edit.csv", "SHOT010", "01:00:00:00", 86400, "/media/day01/SHOT010_v2.mov"),
	})
	require.Len(t, lists, 1)

	list := lists[0]
	assert.Equal(t, "edit", list.Title)
	assert.Equal(t, "/media/day01/edit.edl", list.Path)
	assert.Equal(t, 1, list.Events)

	lines := strings.Split(list.Body, "\n")
	assert.Equal(t, "TITLE: edit", lines[0])
	assert.Equal(t, "FCM: NON-DROP FRAME", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "001  SHOT010_ V     C        01:00:00:00 01:00:10:00 01:00:00:00 01:00:10:00", lines[3])
	assert.Equal(t, "* FROM CLIP NAME: SHOT010_v2.mov", lines[4])
}

func TestReelFallbackAndTruncation(t *testing.T) {
	t.Run("fallback_ax", func(t *testing.T) {
		e := edl.New(compiled(t, func(p *prefs.Prefs) {
			p.EDLReel.Pattern = `^(\d+)$` // never matches the clean name
		}))
		lists := e.Build([]match.Pair{
			pair("/idx/edit.csv", "X", "01:00:00:00", 0, "/m/CLIP.mov"),
		})
		require.Len(t, lists, 1)
		assert.Contains(t, lists[0].Body, "001  AX       V")
	})

	t.Run("truncated_to_max_reel", func(t *testing.T) {
		e := edl.New(compiled(t, func(p *prefs.Prefs) {
			p.EDL.MaxReel = 4
			p.EDLReel.Pattern = "^(.*)$"
		}))
		lists := e.Build([]match.Pair{
			pair("/idx/edit.csv", "X", "01:00:00:00", 0, "/m/LONGREELNAME.mov"),
		})
		assert.Contains(t, lists[0].Body, "001  LONG V")
	})
}

func TestBuildOrdersByRecordIn(t *testing.T) {
	e := edl.New(compiled(t, nil))

	lists := e.Build([]match.Pair{
		pair("/idx/edit.csv", "LATE", "01:00:10:00", 86640, "/m/LATE.mov"),
		pair("/idx/edit.csv", "EARLY", "01:00:00:00", 86400, "/m/EARLY.mov"),
	})
	require.Len(t, lists, 1)

	early := strings.Index(lists[0].Body, "EARLY")
	late := strings.Index(lists[0].Body, "002  LATE")
	require.GreaterOrEqual(t, early, 0)
	require.GreaterOrEqual(t, late, 0)
	assert.Less(t, early, late)
}

func TestBuildGroupsByCSVFile(t *testing.T) {
	e := edl.New(compiled(t, nil))

	lists := e.Build([]match.Pair{
		pair("/idx/reel1.csv", "A", "01:00:00:00", 0, "/m/A.mov"),
		pair("/idx/reel2.csv", "B", "01:00:00:00", 0, "/m/B.mov"),
	})
	require.Len(t, lists, 2)
	assert.Equal(t, "reel1", lists[0].Title)
	assert.Equal(t, "reel2", lists[1].Title)
}

func TestNamingOptions(t *testing.T) {
	p := pair("/idx/edit_v02.csv", "A", "01:00:00:00", 0, "/media/day01/A.mov")

	t.Run("custom_name_prefix_suffix", func(t *testing.T) {
		e := edl.New(compiled(t, func(pr *prefs.Prefs) {
			pr.EDL.EDLNameFromCSV = false
			pr.EDL.EDLNameCustom = "conform"
			pr.EDL.EDLNamePrefix = "out_"
			pr.EDL.EDLNameSuffix = "_v1"
		}))
		lists := e.Build([]match.Pair{p})
		assert.Equal(t, "out_conform_v1", lists[0].Title)
	})

	t.Run("name_from_media_folder", func(t *testing.T) {
		e := edl.New(compiled(t, func(pr *prefs.Prefs) {
			pr.EDL.EDLNameFromCSV = false
			pr.EDL.EDLNameFromMediaFolder = true
		}))
		lists := e.Build([]match.Pair{p})
		assert.Equal(t, "day01", lists[0].Title)
	})

	t.Run("media_root_up", func(t *testing.T) {
		e := edl.New(compiled(t, func(pr *prefs.Prefs) {
			pr.EDL.UseMediaRoot = false
			pr.EDL.UseMediaRootUp = true
		}))
		lists := e.Build([]match.Pair{p})
		assert.Equal(t, "/media/edit_v02.edl", lists[0].Path)
	})

	t.Run("custom_folder", func(t *testing.T) {
		e := edl.New(compiled(t, func(pr *prefs.Prefs) {
			pr.EDL.UseMediaRoot = false
			pr.EDL.CustomFolder = `C:\out\edls`
		}))
		lists := e.Build([]match.Pair{p})
		assert.Equal(t, "C:/out/edls/edit_v02.edl", lists[0].Path)
	})
}

func TestAnnotationRules(t *testing.T) {
	t.Run("clip_path_enabled", func(t *testing.T) {
		e := edl.New(compiled(t, func(p *prefs.Prefs) {
			p.EDLClipPath.Export = true
		}))
		lists := e.Build([]match.Pair{
			pair("/idx/edit.csv", "A", "01:00:00:00", 0, "/m/A.mov"),
		})
		assert.Contains(t, lists[0].Body, "* SOURCE FILE: /m/A.mov")
	})

	t.Run("failed_rule_emits_no_line", func(t *testing.T) {
		e := edl.New(compiled(t, func(p *prefs.Prefs) {
			p.EDLClip.Pattern = `^never(match)$`
		}))
		lists := e.Build([]match.Pair{
			pair("/idx/edit.csv", "A", "01:00:00:00", 0, "/m/A.mov"),
		})
		assert.NotContains(t, lists[0].Body, "FROM CLIP NAME")
	})

	t.Run("disabled_rule_emits_no_line", func(t *testing.T) {
		e := edl.New(compiled(t, func(p *prefs.Prefs) {
			p.EDLClip.Export = false
		}))
		lists := e.Build([]match.Pair{
			pair("/idx/edit.csv", "A", "01:00:00:00", 0, "/m/A.mov"),
		})
		assert.NotContains(t, lists[0].Body, "FROM CLIP NAME")
	})
}

func TestDropFrameHeader(t *testing.T) {
	e := edl.New(compiled(t, func(p *prefs.Prefs) {
		p.EDL.DropFrame = true
	}))
	lists := e.Build([]match.Pair{
		pair("/idx/edit.csv", "A", "01:00:00:00", 0, "/m/A.mov"),
	})
	assert.Contains(t, lists[0].Body, "FCM: DROP FRAME\n")
}

func TestBuildIdempotent(t *testing.T) {
	e := edl.New(compiled(t, nil))
	pairs := []match.Pair{
		pair("/idx/edit.csv", "B", "01:00:10:00", 86640, "/m/B.mov"),
		pair("/idx/edit.csv", "A", "01:00:00:00", 86400, "/m/A.mov"),
	}

	assert.Equal(t, e.Build(pairs), e.Build(pairs))
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	e := edl.New(compiled(t, func(p *prefs.Prefs) {
		p.EDL.UseMediaRoot = false
		p.EDL.CustomFolder = filepath.Join(root, "out")
	}))

	lists := e.Build([]match.Pair{
		pair("/idx/edit.csv", "A", "01:00:00:00", 0, "/m/A.mov"),
	})
	written, errs := e.Write(lists)
	assert.Equal(t, 1, written)
	assert.Empty(t, errs)

	content, err := os.ReadFile(filepath.Join(root, "out", "edit.edl"))
	require.NoError(t, err)
	assert.Equal(t, lists[0].Body, string(content))
}
