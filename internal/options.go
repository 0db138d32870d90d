package internal

import (
	"errors"
	"runtime"
	"strings"
	"time"
)

// ScanOptions - public options for one scan.
type ScanOptions struct {
	Root              string
	RespectIgnoreFile bool
	ExcludeExts       []string // ".log" or "log", any case
	SearchContent     bool
	Threads           int
	Depth             int // 0 - unlimited
	Archives          bool

	BatchSize        int           // results per emitted batch
	FlushInterval    time.Duration // max latency before a partial batch is emitted
	ProgressInterval time.Duration // min spacing between progress callbacks

	excludeSet map[string]struct{}
}

// Validate checks invariants that do not depend on the filesystem.
func (o *ScanOptions) Validate() error {
	if o.Root == "" {
		return errors.New("root directory is required")
	}
	return nil
}

// Prepare builds fast lookup structures and sensible defaults.
func (o *ScanOptions) Prepare() {
	o.excludeSet = extSet(o.ExcludeExts)
	if o.Threads <= 0 {
		o.Threads = max(4, runtime.GOMAXPROCS(0))
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 64
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 100 * time.Millisecond
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = 250 * time.Millisecond
	}
}

// extSet normalizes extensions to lowercase with a leading dot.
func extSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(exts))
	for _, raw := range exts {
		for _, e := range strings.Split(raw, ",") {
			e = strings.TrimSpace(strings.ToLower(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			m[e] = struct{}{}
		}
	}
	return m
}

func (o *ScanOptions) excludedExt(ext string) bool {
	if o.excludeSet == nil {
		return false
	}
	_, blocked := o.excludeSet[strings.ToLower(ext)]
	return blocked
}
