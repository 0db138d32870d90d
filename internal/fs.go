package internal

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
)

const maxArchiveEntries = 10000 // zip-bomb protection

var archiveExt = map[string]struct{}{
	".zip": {}, ".tar": {}, ".tgz": {}, ".gz": {}, ".bz2": {},
	".xz": {}, ".rar": {}, ".7z": {}, ".zst": {}, ".br": {},
	".lz4": {},
}

// IsArchive by extension. O(1) map lookup.
func IsArchive(p string) bool {
	_, ok := archiveExt[strings.ToLower(filepath.Ext(p))]
	return ok
}

// WalkWithDepth uses WalkDir and cuts branches by depth. maxDepth 0
// means unlimited.
func WalkWithDepth(ctx context.Context, root string, maxDepth int, fn func(path string, d os.DirEntry, err error) error) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return fn(p, d, err)
		}
		if maxDepth > 0 {
			rel, _ := filepath.Rel(root, p)
			if rel != "." && depthCount(rel) > maxDepth {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		return fn(p, d, nil)
	})
}

func depthCount(rel string) int {
	if rel == "" {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}

// walkArchiveEntries feeds archive members to send as candidates.
func walkArchiveEntries(ctx context.Context, archivePath, rel string, opts *ScanOptions, send func(FileCandidate)) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		logrus.WithError(err).WithField("archive", archivePath).Debug("open archive")
		return
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	count := 0
	_ = iofs.WalkDir(fsys, ".", func(inner string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if count >= maxArchiveEntries {
			logrus.Warnf("Archive %s skipped: too many entries (>= %d)", archivePath, maxArchiveEntries)
			return errors.New("archive entry limit reached")
		}
		ext := strings.ToLower(path.Ext(inner))
		if opts.excludedExt(ext) {
			return nil
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		send(FileCandidate{
			Path:      archivePath,
			Rel:       rel,
			Name:      path.Base(inner),
			Ext:       ext,
			Size:      size,
			InnerPath: inner,
		})
		count++
		return nil
	})
}

// openArchiveEntry reopens one member of an archive for content search.
// The caller closes both the entry and the returned closer.
func openArchiveEntry(ctx context.Context, archivePath, inner string) (iofs.File, io.Closer, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, nil, err
	}
	closer, _ := fsys.(io.Closer)
	f, err := fsys.Open(inner)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return f, closer, nil
}
