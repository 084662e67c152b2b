// Package scan enumerates files under a root directory with the shared
// include/exclude/pattern filter semantics used by both the edit index
// and the media search.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
)

// Filters narrows the enumerated file set. Include and Exclude are plain
// substring tests against the full (slash-normalized) path; Pattern is a
// regex anchored at the start of the base name. All three are AND-ed.
type Filters struct {
	Include   string
	Exclude   string
	Pattern   string
	Recursive bool
}

// Files returns the files under root passing the filters, in a stable
// lexical order. An unreachable root is an error; an empty result is not.
func Files(root string, filters Filters) ([]string, error) {
	logger := logging.GetLogger("scan")

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrRootUnreachable, "folder path unreachable: %s", root)
	}

	var pattern *regexp.Regexp
	if filters.Pattern != "" {
		pattern, err = regexp.Compile(filters.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleInvalid,
				"invalid file pattern %q", filters.Pattern)
		}
	}

	var candidates []string
	if filters.Recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			candidates = append(candidates, path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRootUnreachable, "walking %s", root)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRootUnreachable, "reading %s", root)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			candidates = append(candidates, filepath.Join(root, entry.Name()))
		}
	}

	// Stable output regardless of platform directory ordering.
	sort.Strings(candidates)

	files := make([]string, 0, len(candidates))
	for _, path := range candidates {
		slashed := filepath.ToSlash(path)
		if filters.Include != "" && !strings.Contains(slashed, filters.Include) {
			continue
		}
		if filters.Exclude != "" && strings.Contains(slashed, filters.Exclude) {
			continue
		}
		if pattern != nil {
			// Anchored at the start of the base name, like re.match.
			loc := pattern.FindStringIndex(filepath.Base(path))
			if loc == nil || loc[0] != 0 {
				logger.Debug().Str("file", filepath.Base(path)).Msg("Skip file due to pattern filter")
				continue
			}
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		logger.Warn().Str("root", root).Msg("No files found")
	}
	return files, nil
}
