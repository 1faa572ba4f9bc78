package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// ZipFetcher reads a snapshot from a local ZIP archive, such as a GitHub
// codeload download or an editor export.
type ZipFetcher struct {
	path         string
	maxFileBytes int64
}

var _ contract.SourceFetcher = &ZipFetcher{} // Compile-time check

// NewZipFetcher creates a fetcher for one archive path.
func NewZipFetcher(path string, maxFileBytes int64) *ZipFetcher {
	return &ZipFetcher{path: path, maxFileBytes: maxFileBytes}
}

// Fetch extracts scannable text files from the archive. A single top-level
// directory wrapping all entries (the GitHub export layout) is stripped.
func (f *ZipFetcher) Fetch(ctx context.Context) (*schema.SourceBundle, error) {
	reader, err := zip.OpenReader(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open ZIP archive %q: %v", contract.ErrInvalidSource, f.path, err)
	}
	defer func() { _ = reader.Close() }()

	prefix := commonRootDir(reader.File)

	files := make(map[string]string)
	var skipped []string
	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.FileInfo().IsDir() {
			continue
		}

		path := strings.TrimPrefix(entry.Name, prefix)
		if path == "" || !shouldScan(path) {
			continue
		}
		if f.maxFileBytes > 0 && entry.UncompressedSize64 > uint64(f.maxFileBytes) {
			skipped = append(skipped, path)
			continue
		}

		content, err := readZipEntry(entry)
		if err != nil {
			// One corrupt entry must not sink the whole snapshot.
			contract.LogWarn("reading "+path+" from archive", err)
			skipped = append(skipped, path)
			continue
		}
		files[path] = content
	}

	return buildBundle(files, skipped), nil
}

func readZipEntry(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// commonRootDir returns the single top-level directory shared by every entry,
// with a trailing slash, or "" when entries do not share one.
func commonRootDir(entries []*zip.File) string {
	root := ""
	for _, entry := range entries {
		idx := strings.Index(entry.Name, "/")
		if idx < 0 {
			return ""
		}
		dir := entry.Name[:idx+1]
		if root == "" {
			root = dir
		} else if root != dir {
			return ""
		}
	}
	return root
}
