package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultGitHubAPIBase = "https://api.github.com"

	// Requests per second against the GitHub API. The burst is twice the
	// rate so a small tree drains quickly without hammering the host.
	githubRequestsPerSecond = 8
)

// GitHubOptions configures a GitHubFetcher. BaseURL and HTTPClient exist for
// testing; zero values select the real GitHub API.
type GitHubOptions struct {
	Token        string
	Workers      int
	MaxFileBytes int64
	BaseURL      string
	HTTPClient   *http.Client
}

// GitHubFetcher retrieves a repository snapshot through the GitHub tree and
// blob APIs. Blob fetches fan out across a bounded worker group behind a
// shared rate limiter.
type GitHubFetcher struct {
	locator RepoLocator
	opts    GitHubOptions
	client  *http.Client
	limiter *rate.Limiter
}

var _ contract.SourceFetcher = &GitHubFetcher{} // Compile-time check

// NewGitHubFetcher creates a fetcher for one repository.
func NewGitHubFetcher(locator RepoLocator, opts GitHubOptions) *GitHubFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultGitHubAPIBase
	}
	if opts.Workers <= 0 {
		opts.Workers = contract.DefaultFetchWorkers
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GitHubFetcher{
		locator: locator,
		opts:    opts,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(githubRequestsPerSecond), githubRequestsPerSecond*2),
	}
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

type treeResponse struct {
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// Fetch lists the repository tree at HEAD and downloads every scannable blob.
func (f *GitHubFetcher) Fetch(ctx context.Context) (*schema.SourceBundle, error) {
	treeURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/HEAD?recursive=1",
		f.opts.BaseURL, f.locator.Owner, f.locator.Repo)

	body, err := f.get(ctx, treeURL, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode repository tree: %w", err)
	}

	var wanted []treeEntry
	var skipped []string
	for _, entry := range tree.Tree {
		if entry.Type != "blob" {
			continue
		}
		if !shouldScan(entry.Path) {
			continue
		}
		if entry.Size > f.opts.MaxFileBytes && f.opts.MaxFileBytes > 0 {
			skipped = append(skipped, entry.Path)
			continue
		}
		wanted = append(wanted, entry)
	}

	files := make(map[string]string, len(wanted))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(f.opts.Workers)
	for _, entry := range wanted {
		group.Go(func() error {
			blobURL := fmt.Sprintf("%s/repos/%s/%s/git/blobs/%s",
				f.opts.BaseURL, f.locator.Owner, f.locator.Repo, entry.SHA)
			content, err := f.get(groupCtx, blobURL, "application/vnd.github.raw+json")
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				// One bad blob must not sink the whole snapshot.
				contract.LogWarn("fetching "+entry.Path, err)
				mu.Lock()
				skipped = append(skipped, entry.Path)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			files[entry.Path] = string(content)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return buildBundle(files, skipped), nil
}

// get performs one rate-limited API request and maps GitHub's status codes
// onto the fetch error contract.
func (f *GitHubFetcher) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if f.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.opts.Token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s/%s", contract.ErrRepoNotFound, f.locator.Owner, f.locator.Repo)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: GitHub returned %d", contract.ErrRateLimited, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected GitHub response %d for %s", resp.StatusCode, url)
	}
}
