package prefs

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
)

//go:embed defaults.json
var defaultPrefs []byte

// Default returns the embedded default preferences.
func Default() (*Prefs, error) {
	return unmarshal(nil, "")
}

// Load reads preferences from path, layered over the embedded defaults.
// The parser is chosen by file extension (.json, .toml, .yaml/.yml).
// Loading or parsing failures are fatal configuration errors.
func Load(path string) (*Prefs, error) {
	logger := logging.GetLogger("prefs")

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "preferences file %s", path)
	}

	p, err := unmarshal(file.Provider(path), path)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Msg("Preferences loaded")
	return p, nil
}

func unmarshal(provider koanf.Provider, path string) (*Prefs, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultPrefs), json.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "loading embedded defaults")
	}

	if provider != nil {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(provider, parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "parsing %s", path)
		}
	}

	var p Prefs
	if err := k.Unmarshal("", &p); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "decoding %s", path)
	}
	return &p, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad,
			"unsupported preferences format %q (want .json, .toml or .yaml)", filepath.Ext(path))
	}
}
