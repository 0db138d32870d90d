package internal

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	maxContentBytes = 10 * 1024 * 1024 // per-file ceiling for content search
	maxContentLines = 5000             // bail out of pathological files
	sniffBytes      = 4096
)

// Extensions that are never worth reading for content.
var binaryExt = map[string]struct{}{
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {},
	".pdf": {}, ".zip": {}, ".gz": {}, ".class": {}, ".jar": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".woff": {}, ".woff2": {},
}

// Excerpt is the single representative content match for a file.
type Excerpt struct {
	Line       string
	LineNumber int // 1-based
}

// ScanFile looks for the first content match in a regular file and
// reports how many bytes were read doing so. Oversized or binary files
// report ok=false with a nil error: content search is best-effort and
// never fails a scan.
func ScanFile(path string, size int64, m *Matcher) (Excerpt, int64, bool, error) {
	if IsBinaryExt(filepath.Ext(path)) {
		return Excerpt{}, 0, false, nil
	}
	if size > maxContentBytes {
		return Excerpt{}, 0, false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Excerpt{}, 0, false, err
	}
	defer f.Close()

	if binary, err := sniffBinary(f); err != nil || binary {
		return Excerpt{}, 0, false, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Excerpt{}, 0, false, err
	}
	cr := &countingReader{r: f}
	ex, ok, err := ScanContent(cr, m)
	return ex, cr.n, ok, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ScanContent reads lines from r and returns the first matching one.
// Reads are buffered and chunked; the file is never loaded whole.
func ScanContent(r io.Reader, m *Matcher) (Excerpt, bool, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	lineNum := 0
	for lineNum < maxContentLines {
		b, err := br.ReadBytes('\n')
		if len(b) > 0 {
			lineNum++
			line := strings.TrimRight(string(b), "\r\n")
			if m.MatchesLine(line) {
				// First match wins; the rest of the file is skipped.
				return Excerpt{Line: strings.TrimSpace(line), LineNumber: lineNum}, true, nil
			}
		}
		if err == io.EOF {
			return Excerpt{}, false, nil
		}
		if err != nil {
			return Excerpt{}, false, err
		}
	}
	return Excerpt{}, false, nil
}

// IsBinaryExt reports extensions known to hold non-text data.
func IsBinaryExt(ext string) bool {
	_, ok := binaryExt[strings.ToLower(ext)]
	return ok
}

// sniffBinary samples the first bytes of r: a NUL byte or invalid
// UTF-8 marks the file as binary.
func sniffBinary(r io.Reader) (bool, error) {
	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	truncated := n == sniffBytes
	buf = buf[:n]
	if bytes.IndexByte(buf, 0) >= 0 {
		return true, nil
	}
	if truncated {
		// The sample may cut a multi-byte rune; drop the ragged tail.
		for i := 0; i < utf8.UTFMax && len(buf) > 0 && !utf8.Valid(buf); i++ {
			buf = buf[:len(buf)-1]
		}
	}
	return !utf8.Valid(buf), nil
}
