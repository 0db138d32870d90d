package internal

import (
	"fmt"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
)

// defaultDenyDirs are pruned at traversal time regardless of ignore-file
// state. An explicit ignore-file negation can re-include one of them.
var defaultDenyDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"target":       {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"out":          {},
	".idea":        {},
	".vscode":      {},
	"__pycache__":  {},
}

// IgnorePolicy decides which entries a scan descends into or includes.
// Decisions are pure functions of path + configuration; the only I/O is
// the gitignore library reading ignore files once per directory.
type IgnorePolicy struct {
	opts  *ScanOptions
	rules gitignore.GitIgnore // nil when respect-ignore-file is off
}

// NewIgnorePolicy builds the policy for one scan rooted at opts.Root.
func NewIgnorePolicy(opts *ScanOptions) (*IgnorePolicy, error) {
	p := &IgnorePolicy{opts: opts}
	if opts.RespectIgnoreFile {
		rules, err := gitignore.NewRepository(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("load ignore rules: %w", err)
		}
		p.rules = rules
	}
	return p, nil
}

// ShouldDescend reports whether the walker may enter a directory.
// rel is the path relative to the scan root.
func (p *IgnorePolicy) ShouldDescend(rel string) bool {
	name := filepath.Base(rel)
	match := p.match(rel, true)

	_, denied := defaultDenyDirs[name]
	if denied || strings.HasPrefix(name, ".") {
		// Only an explicit negation rule re-includes a deny-listed or
		// hidden dir.
		return match != nil && match.Include()
	}
	if match != nil && match.Ignore() {
		return false
	}
	return true
}

// ShouldInclude reports whether a file is eligible for matching at all.
// An excluded extension wins over everything, including content matches.
func (p *IgnorePolicy) ShouldInclude(rel string) bool {
	if p.opts.excludedExt(filepath.Ext(rel)) {
		return false
	}
	match := p.match(rel, false)
	return match == nil || !match.Ignore()
}

// match resolves ignore rules with nearest-file precedence: deeper
// ignore files override shallower ones, negation re-includes. Returns
// nil when no rule applies.
func (p *IgnorePolicy) match(rel string, isDir bool) gitignore.Match {
	if p.rules == nil {
		return nil
	}
	return p.rules.Relative(rel, isDir)
}
