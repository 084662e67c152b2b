package editindex

import (
	"path/filepath"
	"regexp"
	"sort"
)

type groupMember struct {
	path    string
	sortKey string
}

// GroupSurvivors partitions file paths by the capture of the common
// regex over the base name and ranks each partition by the capture of
// the sort regex in plain string order. With highestOnly, only the
// top-ranked member of each partition survives. Survivors keep the
// original enumeration order; the non-survivors are never opened.
//
// Names where the common regex finds nothing all share one partition,
// mirroring the reference behavior.
func GroupSurvivors(paths []string, common, sortRe *regexp.Regexp, highestOnly bool) []string {
	if !highestOnly {
		return paths
	}

	groups := make(map[string][]groupMember)
	var order []string
	for _, path := range paths {
		name := filepath.Base(path)
		key := firstGroup(common, name)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], groupMember{
			path:    path,
			sortKey: firstGroup(sortRe, name),
		})
	}

	survivors := make(map[string]bool, len(order))
	for _, key := range order {
		members := groups[key]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].sortKey < members[j].sortKey
		})
		survivors[members[len(members)-1].path] = true
	}

	out := make([]string, 0, len(survivors))
	for _, path := range paths {
		if survivors[path] {
			out = append(out, path)
		}
	}
	return out
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil || len(m) < 2 {
		return ""
	}
	return m[1]
}
