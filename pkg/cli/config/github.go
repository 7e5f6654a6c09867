package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

type GitHub struct {
	token      types.GitHubToken `masq:"secret"`
	appID      types.GitHubAppID
	installID  types.GitHubAppInstallID
	privateKey types.GitHubAppPrivateKey `masq:"secret"`
	apiURL     string
	timeout    time.Duration
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token (anonymous access if neither token nor GitHub App is set)",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("FRESHNESS_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.appID),
			Sources:     cli.EnvVars("FRESHNESS_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.installID),
			Sources:     cli.EnvVars("FRESHNESS_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Category:    "GitHub",
			Destination: (*string)(&x.privateKey),
			Sources:     cli.EnvVars("FRESHNESS_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL",
			Category:    "GitHub",
			Value:       github.DefaultBaseURL,
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("FRESHNESS_GITHUB_API_URL"),
		},
		&cli.DurationFlag{
			Name:        "github-timeout",
			Usage:       "Timeout of a GitHub API call",
			Category:    "GitHub",
			Value:       github.DefaultTimeout,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("FRESHNESS_GITHUB_TIMEOUT"),
		},
	}
}

func (x *GitHub) New() (*github.Client, error) {
	options := []github.Option{
		github.WithBaseURL(x.apiURL),
		github.WithTimeout(x.timeout),
	}

	if x.token != "" {
		options = append(options, github.WithToken(x.token))
	}
	if x.appID != 0 || x.installID != 0 || x.privateKey != "" {
		options = append(options, github.WithGitHubApp(x.appID, x.installID, x.privateKey))
	}

	return github.New(options...)
}

func (x *GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("APIURL", x.apiURL),
		slog.Duration("Timeout", x.timeout),
		slog.Int("Token.len", len(x.token)),
		slog.Int64("AppID", int64(x.appID)),
		slog.Int64("InstallationID", int64(x.installID)),
		slog.Int("PrivateKey.len", len(x.privateKey)),
	)
}
