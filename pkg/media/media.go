// Package media discovers media files and parses their names into the
// token fields used by matching and export rules.
package media

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrsndl/EditIndexHelper/pkg/scan"
)

// File is one discovered media file with its parsed name fields. The
// value is immutable after enumeration.
type File struct {
	// FullPath is the slash-normalized absolute path.
	FullPath  string
	Dir       string
	FileName  string // base name including extension
	Name      string // base name without extension
	Extension string // without the leading dot

	// Frame-counter fields, extracted from names like "shot.1001.exr".
	CleanName        string // name up to and including the separator
	CleanNameNoSep   string // name without separator and counter
	CleanNameSepChar string
	NumberString     string
	Number           int
	Padding          int
	PatternHashOnly  string // counter replaced by # characters
	AfterNumber      string
}

// counter requires a dot before the number and tolerates trailing
// chars after it ("bla.1001.crypto").
var counterRe = regexp.MustCompile(`(?P<clean>.+)(?P<sep>\.)(?P<counter>[0-9]+)(?P<after>.*)`)

// Parse builds a File from a path. Backslashes are normalized so
// Windows-style paths parse the same everywhere.
func Parse(path string) File {
	full := strings.ReplaceAll(path, "\\", "/")

	f := File{
		FullPath: full,
		Dir:      dirOf(full),
		FileName: baseOf(full),
	}

	f.Name = f.FileName
	if ext := extOf(f.FileName); ext != "" {
		f.Name = strings.TrimSuffix(f.FileName, "."+ext)
		f.Extension = ext
	}

	m := counterRe.FindStringSubmatch(f.Name)
	if m == nil {
		f.CleanName = f.Name
		f.CleanNameNoSep = f.Name
		return f
	}

	clean, sep, counter, after := m[1], m[2], m[3], m[4]
	f.NumberString = counter
	f.PatternHashOnly = strings.Repeat("#", len(counter))
	f.Padding = len(counter)
	f.Number, _ = strconv.Atoi(counter)
	f.CleanName = clean + sep
	f.CleanNameNoSep = clean
	f.CleanNameSepChar = sep
	f.AfterNumber = after
	return f
}

// Tokens returns the placeholder map for rule sources referencing this
// file ({clean_name_no_sep}, {media_file}, {media_path}, ...).
func (f File) Tokens() map[string]string {
	return map[string]string{
		"media_path":        f.FullPath,
		"media_file":        f.FileName,
		"path":              f.Dir,
		"name":              f.Name,
		"extension":         f.Extension,
		"clean_name":        f.CleanName,
		"clean_name_no_sep": f.CleanNameNoSep,
		"number_string":     f.NumberString,
		"number":            strconv.Itoa(f.Number),
		"padding":           strconv.Itoa(f.Padding),
		"pattern_hash_only": f.PatternHashOnly,
		"after_number":      f.AfterNumber,
	}
}

// Find enumerates media files under root with the shared filter
// semantics and parses each surviving name.
func Find(root string, filters scan.Filters) ([]File, error) {
	paths, err := scan.Files(root, filters)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		files = append(files, Parse(p))
	}
	return files, nil
}

func dirOf(slashed string) string {
	i := strings.LastIndex(slashed, "/")
	if i < 0 {
		return ""
	}
	return slashed[:i]
}

func baseOf(slashed string) string {
	i := strings.LastIndex(slashed, "/")
	return slashed[i+1:]
}

func extOf(base string) string {
	ext := filepath.Ext(base)
	return strings.TrimPrefix(ext, ".")
}
