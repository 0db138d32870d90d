package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"QuickFindr/internal"
)

// consoleSink prints matches to stdout as they stream in, keeps a
// spinner on stderr fed by progress snapshots, and prints the final
// summary. Callbacks arrive from coordinator goroutines; terminal
// output is the only shared state and each callback kind has a single
// source, so no extra marshaling is needed here.
type consoleSink struct {
	bar *progressbar.ProgressBar
}

func newConsoleSink(progress bool) *consoleSink {
	s := &consoleSink{}
	if progress {
		s.bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
	}
	return s
}

func (s *consoleSink) OnBatch(matches []internal.MatchResult) {
	if s.bar != nil {
		s.bar.Clear()
	}
	for _, m := range matches {
		switch {
		case m.InnerPath != "":
			fmt.Printf("%s!%s\n", m.Path, m.InnerPath)
		case m.Excerpt != nil:
			fmt.Printf("%s:%d: %s\n", m.Path, m.Excerpt.LineNumber, m.Excerpt.Line)
		default:
			fmt.Println(m.Path)
		}
	}
}

func (s *consoleSink) OnProgress(p internal.Progress) {
	if s.bar == nil {
		return
	}
	s.bar.Describe(fmt.Sprintf("scanning: %s files, %s read",
		humanize.Comma(p.FilesScanned), humanize.Bytes(uint64(p.BytesRead))))
	_ = s.bar.Set64(p.FilesScanned)
}

func (s *consoleSink) OnComplete(sum internal.Summary) {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
	fmt.Fprintf(os.Stderr, "%s matches in %s files (%s read, %s skipped) in %s\n",
		humanize.Comma(sum.Matched),
		humanize.Comma(sum.FilesScanned),
		humanize.Bytes(uint64(sum.BytesRead)),
		humanize.Comma(sum.Skipped),
		sum.Elapsed.Round(time.Millisecond))
}

func (s *consoleSink) OnCancelled(err error) {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cancelled: %v\n", err)
	}
}
