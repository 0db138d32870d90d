package internal

import (
	"sync/atomic"
	"time"
)

// Progress is a point-in-time snapshot of a running scan. Counters are
// monotonically non-decreasing across snapshots.
type Progress struct {
	FilesScanned int64
	BytesRead    int64
	Matched      int64
	Errors       int64
	Elapsed      time.Duration
}

// Summary is the terminal report of a scan.
type Summary struct {
	FilesScanned int64
	Matched      int64
	Skipped      int64 // per-file errors, counted but never fatal
	BytesRead    int64
	Elapsed      time.Duration
}

// scanStats holds the only mutable state shared between workers.
type scanStats struct {
	start     time.Time
	scanned   atomic.Int64
	bytesRead atomic.Int64
	matched   atomic.Int64
	errors    atomic.Int64
}

func newScanStats() *scanStats {
	return &scanStats{start: time.Now()}
}

func (s *scanStats) snapshot() Progress {
	return Progress{
		FilesScanned: s.scanned.Load(),
		BytesRead:    s.bytesRead.Load(),
		Matched:      s.matched.Load(),
		Errors:       s.errors.Load(),
		Elapsed:      time.Since(s.start),
	}
}

func (s *scanStats) summary() Summary {
	return Summary{
		FilesScanned: s.scanned.Load(),
		Matched:      s.matched.Load(),
		Skipped:      s.errors.Load(),
		BytesRead:    s.bytesRead.Load(),
		Elapsed:      time.Since(s.start),
	}
}
