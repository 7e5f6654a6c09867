package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/m-mizutani/freshness/pkg/cli/config"
	"github.com/m-mizutani/freshness/pkg/domain/interfaces"
	"github.com/m-mizutani/freshness/pkg/domain/model"
	"github.com/m-mizutani/freshness/pkg/infra"
	"github.com/m-mizutani/freshness/pkg/usecase"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func badgeCommand(out io.Writer) *cli.Command {
	var github config.GitHub

	return &cli.Command{
		Name:      "badge",
		Aliases:   []string{"b"},
		Usage:     "Resolve the badge of one repository and print it as JSON",
		ArgsUsage: "<owner/name>",
		Flags:     github.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return goerr.New("exactly one argument <owner/name> is required", goerr.V("args", c.Args().Slice()))
			}

			ref, err := model.ParseRepositoryRef(c.Args().First())
			if err != nil {
				return err
			}

			logging.Default().Debug("resolving badge",
				slog.Any("repo", ref),
				slog.Any("GitHub", &github),
			)

			ghClient, err := github.New()
			if err != nil {
				return err
			}

			return runBadge(ctx, usecase.New(infra.New(infra.WithGitHub(ghClient))), ref, out)
		},
	}
}

func runBadge(ctx context.Context, uc interfaces.UseCase, ref model.RepositoryRef, w io.Writer) error {
	badge, err := uc.ResolveFreshness(ctx, ref)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve badge", goerr.V("repo", ref.String()))
	}

	if err := json.NewEncoder(w).Encode(badge); err != nil {
		return goerr.Wrap(err, "failed to write badge")
	}

	return nil
}
