package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/freshness/pkg/domain/interfaces"
	"github.com/m-mizutani/freshness/pkg/domain/model"
	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.github.com/"
	DefaultTimeout = 10 * time.Second
)

type Client struct {
	client *github.Client
}

var _ interfaces.GitHub = (*Client)(nil)

type config struct {
	baseURL    string
	timeout    time.Duration
	token      types.GitHubToken
	appID      types.GitHubAppID
	installID  types.GitHubAppInstallID
	privateKey types.GitHubAppPrivateKey
	transport  http.RoundTripper
}

type Option func(*config)

// WithBaseURL sets the REST API endpoint, e.g. for GitHub Enterprise Server
func WithBaseURL(baseURL string) Option {
	return func(cfg *config) {
		cfg.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = timeout
	}
}

// WithToken authenticates requests with a personal access token
func WithToken(token types.GitHubToken) Option {
	return func(cfg *config) {
		cfg.token = token
	}
}

// WithGitHubApp authenticates requests as a GitHub App installation
func WithGitHubApp(appID types.GitHubAppID, installID types.GitHubAppInstallID, privateKey types.GitHubAppPrivateKey) Option {
	return func(cfg *config) {
		cfg.appID = appID
		cfg.installID = installID
		cfg.privateKey = privateKey
	}
}

// WithTransport replaces the base round tripper under the credential layer
func WithTransport(tr http.RoundTripper) Option {
	return func(cfg *config) {
		cfg.transport = tr
	}
}

// New creates a GitHub REST API client. Without a credential option the
// client is anonymous and subject to the unauthenticated rate limit.
func New(options ...Option) (*Client, error) {
	cfg := &config{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(cfg)
	}

	useApp := cfg.appID != 0 || cfg.installID != 0 || cfg.privateKey != ""
	if cfg.token != "" && useApp {
		return nil, goerr.Wrap(types.ErrInvalidOption, "token and GitHub App credentials are mutually exclusive")
	}

	httpClient, err := buildHTTPClient(cfg, useApp)
	if err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "invalid GitHub API URL", goerr.V("url", cfg.baseURL), goerr.V("error", err.Error()))
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	client := github.NewClient(httpClient)
	client.BaseURL = baseURL

	return &Client{client: client}, nil
}

func buildHTTPClient(cfg *config, useApp bool) (*http.Client, error) {
	tr := cfg.transport

	switch {
	case cfg.token != "":
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: string(cfg.token)},
		)
		tr = &oauth2.Transport{Source: ts, Base: tr}

	case useApp:
		if cfg.appID == 0 {
			return nil, goerr.Wrap(types.ErrInvalidOption, "GitHub App ID is empty")
		}
		if cfg.installID == 0 {
			return nil, goerr.Wrap(types.ErrInvalidOption, "GitHub App installation ID is empty")
		}
		if cfg.privateKey == "" {
			return nil, goerr.Wrap(types.ErrInvalidOption, "GitHub App private key is empty")
		}

		itr, err := ghinstallation.New(tr, int64(cfg.appID), int64(cfg.installID), []byte(cfg.privateKey))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport", goerr.V("appID", cfg.appID))
		}
		itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
		tr = itr
	}

	return &http.Client{Transport: tr, Timeout: cfg.timeout}, nil
}

// communityProfile is the subset of the community profile payload read by
// this service. updated_at is kept raw so that a malformed value is
// reported as a missing timestamp rather than a decode failure.
type communityProfile struct {
	HealthPercentage int             `json:"health_percentage"`
	UpdatedAt        json.RawMessage `json:"updated_at"`
	Files            struct {
		CodeOfConduct       json.RawMessage `json:"code_of_conduct"`
		CodeOfConductFile   json.RawMessage `json:"code_of_conduct_file"`
		Contributing        json.RawMessage `json:"contributing"`
		IssueTemplate       json.RawMessage `json:"issue_template"`
		PullRequestTemplate json.RawMessage `json:"pull_request_template"`
		License             json.RawMessage `json:"license"`
		Readme              json.RawMessage `json:"readme"`
	} `json:"files"`
}

// GetCommunityMetrics implements interfaces.GitHub.
// https://docs.github.com/en/rest/metrics/community?apiVersion=2022-11-28#get-community-profile-metrics
func (x *Client) GetCommunityMetrics(ctx context.Context, ref model.RepositoryRef) (*model.CommunityMetrics, error) {
	logger := logging.From(ctx).With(slog.Any("repo", ref))

	u := fmt.Sprintf("repos/%v/%v/community/profile", ref.Owner, ref.Name)
	req, err := x.client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, goerr.Wrap(types.ErrUpstreamUnavailable, "failed to build community profile request",
			goerr.V("repo", ref.String()),
			goerr.V("error", err.Error()),
		)
	}

	var profile communityProfile
	requestedAt := time.Now()
	resp, err := x.client.Do(ctx, req, &profile)
	if err != nil {
		return nil, classifyError(err, ref)
	}

	logger.Debug("community profile retrieved",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(requestedAt)),
		slog.Int("rate.remaining", resp.Rate.Remaining),
	)

	metrics := &model.CommunityMetrics{
		HealthPercentage: profile.HealthPercentage,
		Files: model.CommunityFiles{
			CodeOfConduct:       present(profile.Files.CodeOfConduct) || present(profile.Files.CodeOfConductFile),
			Contributing:        present(profile.Files.Contributing),
			IssueTemplate:       present(profile.Files.IssueTemplate),
			PullRequestTemplate: present(profile.Files.PullRequestTemplate),
			License:             present(profile.Files.License),
			Readme:              present(profile.Files.Readme),
		},
	}

	updatedAt, err := parseTimestamp(profile.UpdatedAt)
	if err != nil {
		logger.Warn("ignore unusable updated_at", slog.String("updated_at", string(profile.UpdatedAt)), slog.Any("error", err))
	} else {
		metrics.UpdatedAt = updatedAt
	}

	return metrics, nil
}

func present(v json.RawMessage) bool {
	return len(v) > 0 && string(v) != "null"
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp returns nil without error when the value is absent or null
func parseTimestamp(raw json.RawMessage) (*time.Time, error) {
	if !present(raw) {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, goerr.Wrap(err, "updated_at is not a string")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, goerr.New("updated_at is not ISO-8601", goerr.V("value", s))
}

func classifyError(err error, ref model.RepositoryRef) error {
	values := []goerr.Option{
		goerr.V("repo", ref.String()),
		goerr.V("error", err.Error()),
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		values = append(values, goerr.V("reset", rateErr.Rate.Reset.Time))
		return goerr.Wrap(types.ErrRateLimited, "GitHub API rate limit exceeded", values...)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return goerr.Wrap(types.ErrRateLimited, "GitHub API secondary rate limit exceeded", values...)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status := respErr.Response.StatusCode
		values = append(values, goerr.V("status", status))

		switch status {
		case http.StatusNotFound, http.StatusGone, http.StatusUnavailableForLegalReasons:
			return goerr.Wrap(types.ErrNotFound, "repository not found", values...)
		case http.StatusForbidden:
			if isSecondaryRateLimit(respErr) {
				return goerr.Wrap(types.ErrRateLimited, "GitHub API secondary rate limit exceeded", values...)
			}
			return goerr.Wrap(types.ErrUpstreamAuthFailed, "GitHub API rejected the credential", values...)
		case http.StatusUnauthorized:
			return goerr.Wrap(types.ErrUpstreamAuthFailed, "GitHub API rejected the credential", values...)
		case http.StatusTooManyRequests:
			return goerr.Wrap(types.ErrRateLimited, "GitHub API rate limit exceeded", values...)
		}
	}

	return goerr.Wrap(types.ErrUpstreamUnavailable, "failed to get community profile", values...)
}

// isSecondaryRateLimit detects secondary rate limit responses that go-github
// does not turn into AbuseRateLimitError, e.g. documentation_url ending with
// "#about-secondary-rate-limits".
func isSecondaryRateLimit(respErr *github.ErrorResponse) bool {
	if respErr.Response.Header.Get("Retry-After") != "" {
		return true
	}
	if strings.Contains(respErr.DocumentationURL, "secondary-rate-limits") {
		return true
	}
	return strings.Contains(strings.ToLower(respErr.Message), "secondary rate limit")
}
