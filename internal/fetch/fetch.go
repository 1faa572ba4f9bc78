// Package fetch retrieves bounded source-tree snapshots from GitHub
// repositories or local ZIP archives. Fetchers produce a schema.SourceBundle;
// everything downstream is transport-agnostic.
package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/preflighthq/preflight/internal/contract"
)

// Directory and file patterns that never carry detection signal. Matching
// uses the same exclude semantics as the output layer's ignore handling.
var defaultExcludes = []string{
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"out/",
	".git/",
	".min.js",
	".lock",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
}

// Extensions treated as scannable text. Anything else is skipped and listed
// in SkippedFiles rather than fetched.
var textExtensions = map[string]struct{}{
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".mjs": {}, ".cjs": {},
	".py": {}, ".rb": {}, ".php": {}, ".go": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".env": {},
	".md": {}, ".txt": {}, ".sql": {}, ".html": {}, ".css": {},
}

// Files with no extension that still matter for platform detection.
var specialFiles = map[string]struct{}{
	"Procfile":   {},
	".replit":    {},
	"Dockerfile": {},
}

// RepoLocator identifies one GitHub repository.
type RepoLocator struct {
	Owner string
	Repo  string
}

// ParseLocator validates a GitHub repository URL and extracts owner and repo.
// Only github.com URLs are accepted; anything else is ErrInvalidSource.
func ParseLocator(rawURL string) (RepoLocator, error) {
	if strings.TrimSpace(rawURL) == "" {
		return RepoLocator{}, fmt.Errorf("%w: empty source URL", contract.ErrInvalidSource)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return RepoLocator{}, fmt.Errorf("%w: %q is not a valid URL", contract.ErrInvalidSource, rawURL)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return RepoLocator{}, fmt.Errorf("%w: %q must be an https URL", contract.ErrInvalidSource, rawURL)
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	if host != "github.com" {
		return RepoLocator{}, fmt.Errorf("%w: only github.com repositories are supported (received %q)", contract.ErrInvalidSource, parsed.Host)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoLocator{}, fmt.Errorf("%w: expected https://github.com/<owner>/<repo>", contract.ErrInvalidSource)
	}

	repo := strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return RepoLocator{}, fmt.Errorf("%w: expected https://github.com/<owner>/<repo>", contract.ErrInvalidSource)
	}
	return RepoLocator{Owner: parts[0], Repo: repo}, nil
}

// NewFetcher returns the right fetcher for the config: a ZIP fetcher when a
// ZIP path is set, otherwise a GitHub fetcher for the source URL.
func NewFetcher(cfg *contract.Config) (contract.SourceFetcher, error) {
	if cfg.ZipPath != "" {
		return NewZipFetcher(cfg.ZipPath, cfg.MaxFileBytes), nil
	}

	locator, err := ParseLocator(cfg.SourceURL)
	if err != nil {
		return nil, err
	}
	return NewGitHubFetcher(locator, GitHubOptions{
		Token:        cfg.GitHubToken,
		Workers:      cfg.FetchWorkers,
		MaxFileBytes: cfg.MaxFileBytes,
	}), nil
}

// shouldScan reports whether a tree path is worth fetching at all.
func shouldScan(path string) bool {
	if contract.ShouldIgnore(path, defaultExcludes) {
		return false
	}
	base := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		base = path[idx+1:]
	}
	if _, ok := specialFiles[base]; ok {
		return true
	}
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		ext := strings.ToLower(base[idx:])
		_, ok := textExtensions[ext]
		return ok
	}
	return false
}
