package internal

// MatchResult is one matched file, immutable once produced.
type MatchResult struct {
	Name      string
	Path      string // absolute
	RelPath   string // relative to the scan root
	Ext       string
	InnerPath string // set for entries found inside archives
	Excerpt   *Excerpt
}

// ResultSink is the boundary the coordinator emits into. Every method
// may be called from a coordinator goroutine; consumers marshal to
// their own execution context. Exactly one of OnComplete/OnCancelled
// fires per scan, and nothing arrives after it.
type ResultSink interface {
	OnBatch(matches []MatchResult)
	OnProgress(p Progress)
	OnComplete(s Summary)
	OnCancelled(err error)
}

// NopSink discards everything. Useful as an embedding base.
type NopSink struct{}

func (NopSink) OnBatch([]MatchResult) {}
func (NopSink) OnProgress(Progress)   {}
func (NopSink) OnComplete(Summary)    {}
func (NopSink) OnCancelled(error)     {}
