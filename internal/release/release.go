// Package release resolves and downloads Ghosler build archives from
// GitHub: published releases by tag, branch heads by codeload zip.
package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danmuck/ghoslerctl/internal/semver"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestFailed = errors.New("release: request failed")
	ErrNoRelease     = errors.New("release: no published release")
)

// Release locates one downloadable build of the application.
type Release struct {
	Version    string // tag version; empty for branch builds
	Branch     string // branch name; empty for tagged releases
	ArchiveURL string
}

// Client fetches release metadata and archives for one GitHub repo.
type Client struct {
	owner      string
	repo       string
	apiBase    string
	zipBase    string
	httpClient *http.Client
}

// ClientConfig identifies the repository to fetch from. APIBase and
// ZipBase override the GitHub endpoints; tests point them at local
// servers.
type ClientConfig struct {
	Owner      string
	Repo       string
	APIBase    string
	ZipBase    string
	HTTPClient *http.Client
}

// NewClient constructs a release client for one repository.
func NewClient(cfg ClientConfig) *Client {
	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	zipBase := strings.TrimRight(strings.TrimSpace(cfg.ZipBase), "/")
	if zipBase == "" {
		zipBase = "https://codeload.github.com"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Client{
		owner:      strings.TrimSpace(cfg.Owner),
		repo:       strings.TrimSpace(cfg.Repo),
		apiBase:    apiBase,
		zipBase:    zipBase,
		httpClient: httpClient,
	}
}

// LatestRelease returns the newest published release, its tag version
// normalized for comparison.
func (c *Client) LatestRelease(ctx context.Context) (Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, fmt.Errorf("release: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Release{}, fmt.Errorf("%w: %s/%s", ErrNoRelease, c.owner, c.repo)
	}
	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("%w: GET %s: %s", ErrRequestFailed, url, resp.Status)
	}

	var payload struct {
		TagName    string `json:"tag_name"`
		ZipballURL string `json:"zipball_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Release{}, fmt.Errorf("release: parse latest release: %w", err)
	}

	version := semver.Normalize(payload.TagName)
	if version == "" {
		return Release{}, fmt.Errorf("%w: release has no tag name", ErrRequestFailed)
	}
	return Release{Version: version, ArchiveURL: payload.ZipballURL}, nil
}

// BranchArchive locates the zip of a branch head. No network round trip
// happens here; branches carry no comparable version.
func (c *Client) BranchArchive(branch string) Release {
	b := strings.TrimSpace(branch)
	return Release{
		Branch:     b,
		ArchiveURL: fmt.Sprintf("%s/%s/%s/zip/refs/heads/%s", c.zipBase, c.owner, c.repo, b),
	}
}

// Download streams url into a temporary zip file and returns its path.
// The caller removes the file when done with it.
func (c *Client) Download(ctx context.Context, url string) (string, error) {
	log.Info().Str("url", url).Msg("downloading archive")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("release: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: GET %s: %s", ErrRequestFailed, url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "ghoslerctl-*.zip")
	if err != nil {
		return "", fmt.Errorf("release: temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("release: download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("release: finish download: %w", err)
	}
	return tmp.Name(), nil
}
