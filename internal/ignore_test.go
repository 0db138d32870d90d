package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestPolicy(t *testing.T, root string, respect bool, exclude ...string) *IgnorePolicy {
	t.Helper()
	opts := &ScanOptions{Root: root, RespectIgnoreFile: respect, ExcludeExts: exclude}
	opts.Prepare()
	p, err := NewIgnorePolicy(opts)
	if err != nil {
		t.Fatalf("NewIgnorePolicy: %v", err)
	}
	return p
}

func TestIgnorePolicy_DefaultDenyDirs(t *testing.T) {
	p := newTestPolicy(t, t.TempDir(), false)

	for _, dir := range []string{"node_modules", ".git", "target", ".cache", filepath.Join("sub", "node_modules")} {
		if p.ShouldDescend(dir) {
			t.Errorf("expected %s to be pruned", dir)
		}
	}
	for _, dir := range []string{"src", "docs", filepath.Join("a", "b")} {
		if !p.ShouldDescend(dir) {
			t.Errorf("expected descent into %s", dir)
		}
	}
}

func TestIgnorePolicy_ExcludedExtensions(t *testing.T) {
	p := newTestPolicy(t, t.TempDir(), false, "log", ".TMP")

	if p.ShouldInclude("app.log") {
		t.Error("excluded extension .log must not be included")
	}
	if p.ShouldInclude(filepath.Join("deep", "trace.Log")) {
		t.Error("extension exclusion is case-insensitive")
	}
	if p.ShouldInclude("scratch.tmp") {
		t.Error("extensions normalize with or without leading dot")
	}
	if !p.ShouldInclude("app.txt") {
		t.Error("unlisted extension should be included")
	}
}

func TestIgnorePolicy_IgnoreFileRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.tmp\n!keep.tmp\nlogs/\n")

	p := newTestPolicy(t, root, true)

	if p.ShouldInclude("scratch.tmp") {
		t.Error("*.tmp should be ignored")
	}
	if !p.ShouldInclude("keep.tmp") {
		t.Error("negation should re-include keep.tmp")
	}
	if p.ShouldDescend("logs") {
		t.Error("directory rule logs/ should prune descent")
	}
	if !p.ShouldInclude("main.go") {
		t.Error("unmatched file should be included")
	}
}

func TestIgnorePolicy_NegationOverridesDenyList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "!vendor/\n")

	p := newTestPolicy(t, root, true)
	if !p.ShouldDescend("vendor") {
		t.Error("explicit negation should re-include a deny-listed directory")
	}
	if p.ShouldDescend("node_modules") {
		t.Error("deny-list still applies to directories without a negation")
	}
}

func TestIgnorePolicy_NestedIgnoreFileWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "!special.log\n")

	p := newTestPolicy(t, root, true)
	if p.ShouldInclude("app.log") {
		t.Error("root rule should ignore app.log")
	}
	if !p.ShouldInclude(filepath.Join("sub", "special.log")) {
		t.Error("deeper ignore file should re-include special.log")
	}
}

func TestIgnorePolicy_DisabledIgnoresIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.tmp\n")

	p := newTestPolicy(t, root, false)
	if !p.ShouldInclude("scratch.tmp") {
		t.Error("ignore-file rules must not apply when disabled")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
