package rules

import (
	"regexp"

	"github.com/jrsndl/EditIndexHelper/pkg/errors"
)

// Rule is the configured form of a regex derivation: find Pattern in a
// subject, substitute Repl (or extract the first capture group when Repl
// is empty), and optionally compare the result against Equals.
//
// Source names where the subject comes from (a csv column name, or a
// token expression like "{clean_name_no_sep}") and is resolved by the
// caller; the engine itself only sees subject strings.
type Rule struct {
	Source  string `koanf:"source" json:"source" toml:"source" yaml:"source"`
	Column  string `koanf:"column" json:"column" toml:"column" yaml:"column"`
	Pattern string `koanf:"pattern" json:"pattern" toml:"pattern" yaml:"pattern"`
	Repl    string `koanf:"repl" json:"repl" toml:"repl" yaml:"repl"`
	Equals  string `koanf:"equals" json:"equals" toml:"equals" yaml:"equals"`
	Invert  bool   `koanf:"invert" json:"invert" toml:"invert" yaml:"invert"`
}

// Compiled is a Rule with its pattern compiled. Compilation happens once
// at configuration load; an invalid pattern is a fatal configuration
// error, never a per-row one.
type Compiled struct {
	Rule
	re   *regexp.Regexp
	repl string
}

// backrefRe matches Python-style \1 back-references in replacement
// templates so they can be rewritten into RE2's ${1} form.
var backrefRe = regexp.MustCompile(`\\(\d+)`)

// Compile validates and compiles a rule. The key argument names the
// configuration location for the error message.
func Compile(rule Rule, key string) (*Compiled, error) {
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleInvalid,
			"invalid regex pattern in %s", key)
	}
	return &Compiled{
		Rule: rule,
		re:   re,
		repl: backrefRe.ReplaceAllString(rule.Repl, "${$1}"),
	}, nil
}

// MustCompile is Compile for tests and static defaults; it panics on an
// invalid pattern.
func MustCompile(rule Rule) *Compiled {
	c, err := Compile(rule, "static rule")
	if err != nil {
		panic(err)
	}
	return c
}

// Apply runs the rule against a subject. matched reports whether the
// find succeeded; when it fails, out is always the empty string.
//
// With a replacement template the output is the subject with every
// occurrence substituted. Without one, the output is the first capture
// group of the first occurrence.
func (c *Compiled) Apply(subject string) (out string, matched bool) {
	if c.repl != "" {
		if !c.re.MatchString(subject) {
			return "", false
		}
		return c.re.ReplaceAllString(subject, c.repl), true
	}

	m := c.re.FindStringSubmatch(subject)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return "", true
}

// Pass evaluates the rule as a predicate.
//
// With Equals set, the result is (substituted == Equals) XOR Invert,
// evaluated against the empty string when the find failed. With Equals
// unset the rule passes when the regex matched, or, inverted, when the
// substituted value is non-empty.
func (c *Compiled) Pass(subject string) bool {
	out, matched := c.Apply(subject)
	if c.Equals != "" {
		return (out == c.Equals) != c.Invert
	}
	if c.Invert {
		return out != ""
	}
	return matched
}
