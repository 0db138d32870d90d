package internal

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// FileCandidate is a transient unit of work: created by the walker,
// consumed by one worker, then discarded.
type FileCandidate struct {
	Path      string // absolute (the archive path for archive members)
	Rel       string // relative to the scan root
	Name      string
	Ext       string
	Size      int64
	Depth     int
	InnerPath string // non-empty for archive members
}

// Scanner runs scans. One Scanner may run any number of independent
// scans; each Start call builds its own pipeline and Handle.
type Scanner struct{}

func NewScanner() *Scanner { return &Scanner{} }

// Start validates the configuration, compiles the matcher, and kicks
// off traversal. Configuration failures cancel the handle immediately
// with a diagnostic and never touch the filesystem. Cancellation is
// cooperative: workers finish their current file, nothing new starts.
func (s *Scanner) Start(ctx context.Context, opts ScanOptions, q Query, sink ResultSink) *Handle {
	scanCtx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel)

	fail := func(err error) *Handle {
		cancel()
		h.finish(StateCancelled, err, func() { sink.OnCancelled(err) })
		return h
	}

	if err := opts.Validate(); err != nil {
		return fail(err)
	}
	opts.Prepare()
	// Compile before touching the filesystem: an invalid query never
	// triggers any traversal.
	matcher, err := Compile(q)
	if err != nil {
		return fail(err)
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return fail(fmt.Errorf("root %s: %w", opts.Root, err))
	}
	if !info.IsDir() {
		return fail(fmt.Errorf("root %s: not a directory", opts.Root))
	}
	policy, err := NewIgnorePolicy(&opts)
	if err != nil {
		return fail(err)
	}

	go s.run(scanCtx, opts, matcher, policy, sink, h)
	return h
}

func (s *Scanner) run(ctx context.Context, opts ScanOptions, m *Matcher, policy *IgnorePolicy, sink ResultSink, h *Handle) {
	stats := newScanStats()
	candCh := make(chan FileCandidate, 1024)
	resCh := make(chan MatchResult, 1024)

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(opts.Threads, func(i interface{}) {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		s.processCandidate(ctx, i.(FileCandidate), opts, m, stats, resCh)
	})
	if err != nil {
		poolErr := fmt.Errorf("pool: %w", err)
		h.finish(StateCancelled, poolErr, func() { sink.OnCancelled(poolErr) })
		return
	}
	defer pool.Release()

	// Single emitter: batches, throttled progress, and nothing after
	// the terminal callback.
	batchDone := make(chan struct{})
	go func() {
		defer close(batchDone)
		s.emitLoop(ctx, opts, stats, sink, resCh)
	}()

	// Walker feeds candidates; the channel bound backpressures it.
	go func() {
		defer close(candCh)
		s.walk(ctx, opts, policy, candCh, stats)
	}()

	for c := range candCh {
		if ctx.Err() != nil {
			continue // drain, start nothing new
		}
		wg.Add(1)
		if err := pool.Invoke(c); err != nil {
			wg.Done()
			stats.errors.Add(1)
			logrus.WithError(err).Error("submit candidate")
		}
	}
	wg.Wait()
	close(resCh)
	<-batchDone

	if err := ctx.Err(); err != nil {
		h.finish(StateCancelled, err, func() { sink.OnCancelled(err) })
		return
	}
	h.finish(StateCompleted, nil, func() { sink.OnComplete(stats.summary()) })
}

// walk enumerates the tree, pruning with the ignore policy. Per-entry
// errors are counted and skipped; they never abort the scan.
func (s *Scanner) walk(ctx context.Context, opts ScanOptions, policy *IgnorePolicy, candCh chan<- FileCandidate, stats *scanStats) {
	send := func(c FileCandidate) {
		select {
		case candCh <- c:
		case <-ctx.Done():
		}
	}
	err := WalkWithDepth(ctx, opts.Root, opts.Depth, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			stats.errors.Add(1)
			logrus.WithError(err).WithField("path", p).Debug("walk entry")
			return nil
		}
		rel, relErr := filepath.Rel(opts.Root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if !policy.ShouldDescend(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&iofs.ModeSymlink != 0 {
			return nil
		}
		if !policy.ShouldInclude(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			stats.errors.Add(1)
			return nil
		}
		if opts.Archives && IsArchive(p) {
			walkArchiveEntries(ctx, p, rel, &opts, send)
			return nil
		}
		send(FileCandidate{
			Path:  p,
			Rel:   rel,
			Name:  d.Name(),
			Ext:   strings.ToLower(filepath.Ext(d.Name())),
			Size:  info.Size(),
			Depth: depthCount(rel),
		})
		return nil
	})
	if err != nil && ctx.Err() == nil {
		stats.errors.Add(1)
		logrus.WithError(err).Error("walk")
	}
}

// processCandidate runs on a pool worker: cheap name match first, then
// the content scan when enabled. One MatchResult per file at most.
func (s *Scanner) processCandidate(ctx context.Context, c FileCandidate, opts ScanOptions, m *Matcher, stats *scanStats, resCh chan<- MatchResult) {
	stats.scanned.Add(1)

	res := MatchResult{
		Name:      c.Name,
		Path:      c.Path,
		RelPath:   c.Rel,
		Ext:       c.Ext,
		InnerPath: c.InnerPath,
	}

	if m.MatchesName(c.Name) {
		s.emit(ctx, res, stats, resCh)
		return
	}
	if !opts.SearchContent {
		return
	}

	var (
		ex Excerpt
		n  int64
		ok bool
		er error
	)
	if c.InnerPath != "" {
		ex, n, ok, er = s.scanArchiveEntry(ctx, c, m)
	} else {
		ex, n, ok, er = ScanFile(c.Path, c.Size, m)
	}
	stats.bytesRead.Add(n)
	if er != nil {
		// Recoverable per-file condition: skip and keep scanning.
		stats.errors.Add(1)
		logrus.WithError(er).WithField("file", c.Path).Debug("content scan")
		return
	}
	if ok {
		res.Excerpt = &ex
		s.emit(ctx, res, stats, resCh)
	}
}

func (s *Scanner) scanArchiveEntry(ctx context.Context, c FileCandidate, m *Matcher) (Excerpt, int64, bool, error) {
	if IsBinaryExt(c.Ext) || c.Size > maxContentBytes {
		return Excerpt{}, 0, false, nil
	}
	f, closer, err := openArchiveEntry(ctx, c.Path, c.InnerPath)
	if err != nil {
		return Excerpt{}, 0, false, err
	}
	defer f.Close()
	if closer != nil {
		defer closer.Close()
	}
	cr := &countingReader{r: f}
	ex, ok, err := ScanContent(cr, m)
	return ex, cr.n, ok, err
}

func (s *Scanner) emit(ctx context.Context, res MatchResult, stats *scanStats, resCh chan<- MatchResult) {
	stats.matched.Add(1)
	select {
	case resCh <- res:
	case <-ctx.Done():
	}
}

// emitLoop is the only goroutine that talks to the sink. Results are
// grouped into batches bounded by count and by a short time window;
// progress snapshots go out at a bounded rate.
func (s *Scanner) emitLoop(ctx context.Context, opts ScanOptions, stats *scanStats, sink ResultSink, resCh <-chan MatchResult) {
	flushTick := time.NewTicker(opts.FlushInterval)
	defer flushTick.Stop()
	progressTick := time.NewTicker(opts.ProgressInterval)
	defer progressTick.Stop()

	batch := make([]MatchResult, 0, opts.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		sink.OnBatch(batch)
		batch = make([]MatchResult, 0, opts.BatchSize)
	}

	for {
		select {
		case res, open := <-resCh:
			if !open {
				if ctx.Err() == nil {
					flush()
				}
				return
			}
			batch = append(batch, res)
			if len(batch) >= opts.BatchSize {
				flush()
			}
		case <-flushTick.C:
			if ctx.Err() == nil {
				flush()
			} else {
				batch = batch[:0] // cancelled: drop, emit nothing further
			}
		case <-progressTick.C:
			sink.OnProgress(stats.snapshot())
		}
	}
}
