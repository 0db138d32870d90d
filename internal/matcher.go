package internal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Mode selects how the query text is interpreted.
type Mode int

const (
	// ModeAuto picks ModeWildcard when the text contains * or ?,
	// otherwise ModeLiteral.
	ModeAuto Mode = iota
	ModeLiteral
	ModeWildcard
	ModeRegex
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "literal", "plain":
		return ModeLiteral, nil
	case "wildcard", "glob":
		return ModeWildcard, nil
	case "regex", "re":
		return ModeRegex, nil
	}
	return ModeAuto, fmt.Errorf("unknown match mode %q", s)
}

// Query describes what to search for. Immutable once compiled.
type Query struct {
	Text          string
	Mode          Mode
	CaseSensitive bool
	SearchContent bool
}

// Matcher is the compiled form of a Query. It holds no mutable state
// and is safe to share across all workers of a scan.
type Matcher struct {
	re        *regexp.Regexp
	text      string // lowercased unless case-sensitive
	caseSens  bool
	camelcase bool
}

// Compile builds the matcher once, up front. An invalid regex is
// reported here so the scan never starts.
func Compile(q Query) (*Matcher, error) {
	mode := q.Mode
	if mode == ModeAuto {
		if strings.ContainsAny(q.Text, "*?") {
			mode = ModeWildcard
		} else {
			mode = ModeLiteral
		}
	}

	switch mode {
	case ModeLiteral:
		text := q.Text
		if !q.CaseSensitive {
			text = strings.ToLower(text)
		}
		return &Matcher{
			text:      text,
			caseSens:  q.CaseSensitive,
			camelcase: isCamelcaseQuery(q.Text),
		}, nil

	case ModeWildcard:
		re, err := regexp.Compile(caseFlag(q.CaseSensitive) + wildcardToRegex(q.Text))
		if err != nil {
			return nil, fmt.Errorf("invalid wildcard pattern %q: %w", q.Text, err)
		}
		return &Matcher{re: re}, nil

	case ModeRegex:
		re, err := regexp.Compile(caseFlag(q.CaseSensitive) + q.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", q.Text, err)
		}
		return &Matcher{re: re}, nil
	}
	return nil, fmt.Errorf("unknown match mode %d", mode)
}

// MatchesName reports whether a file name satisfies the query.
func (m *Matcher) MatchesName(name string) bool { return m.match(name) }

// MatchesLine reports whether a single content line satisfies the query.
func (m *Matcher) MatchesLine(line string) bool { return m.match(line) }

func (m *Matcher) match(s string) bool {
	if m.re != nil {
		return m.re.MatchString(s)
	}
	if m.camelcase && camelcaseMatch(m.text, s) {
		return true
	}
	if m.caseSens {
		return strings.Contains(s, m.text)
	}
	return strings.Contains(strings.ToLower(s), m.text)
}

func caseFlag(sensitive bool) string {
	if sensitive {
		return ""
	}
	return "(?i)"
}

// wildcardToRegex translates a * / ? pattern into an anchored regex,
// escaping everything else. Compiled once, reused for every file.
func wildcardToRegex(pattern string) string {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	escaped = strings.ReplaceAll(escaped, `\?`, ".")
	return "^" + escaped + "$"
}

// isCamelcaseQuery reports whether the raw query looks like CamelCase
// initials: at least two characters, all uppercase letters or digits.
func isCamelcaseQuery(q string) bool {
	if len(q) < 2 {
		return false
	}
	for _, r := range q {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// camelcaseMatch matches query initials against the uppercase letters
// and digits of s, in order: "UC" matches "UserController".
func camelcaseMatch(query, s string) bool {
	q := []rune(strings.ToUpper(query))
	idx := 0
	for _, r := range s {
		if idx >= len(q) {
			return true
		}
		if (unicode.IsUpper(r) || unicode.IsDigit(r)) && r == q[idx] {
			idx++
		}
	}
	return idx >= len(q)
}
