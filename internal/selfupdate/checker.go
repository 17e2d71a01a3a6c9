// Package selfupdate checks GitHub releases for a newer lingua build.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

var (
	// ErrDevBuild means the running binary has no release version to
	// compare against.
	ErrDevBuild = errors.New("cannot check updates for a development build")
)

const (
	defaultOwner   = "minho"
	defaultRepo    = "lingua"
	defaultAPIBase = "https://api.github.com"
)

// Checker queries GitHub for the latest release.
type Checker struct {
	owner   string
	repo    string
	apiBase string
	client  *http.Client
}

// NewChecker builds a checker against the canonical repository.
func NewChecker() *Checker {
	return &Checker{
		owner:   defaultOwner,
		repo:    defaultRepo,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewCheckerAt builds a checker against a custom API base, for tests.
func NewCheckerAt(apiBase string, client *http.Client) *Checker {
	c := NewChecker()
	c.apiBase = strings.TrimRight(apiBase, "/")
	if client != nil {
		c.client = client
	}
	return c
}

// CheckInput carries the running binary's version.
type CheckInput struct {
	Version string
}

// CheckResult reports the latest release and whether it is newer.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// Check fetches the latest release tag and compares it semantically with
// the running version.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	if input.Version == "" || input.Version == "(devel)" {
		return nil, ErrDevBuild
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, strings.TrimSpace(string(body)))
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release response: %w", err)
	}

	current := normalizeVersion(input.Version)
	latest := normalizeVersion(release.TagName)
	if !semver.IsValid(current) {
		return nil, fmt.Errorf("current version %q is not semver", input.Version)
	}
	if !semver.IsValid(latest) {
		return nil, fmt.Errorf("release tag %q is not semver", release.TagName)
	}

	return &CheckResult{
		CurrentVersion:  current,
		LatestVersion:   latest,
		UpdateAvailable: semver.Compare(latest, current) > 0,
	}, nil
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
