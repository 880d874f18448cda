package main

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jupyterhub/prboard/pkg/board"
	"github.com/jupyterhub/prboard/pkg/dataloader"
	"github.com/jupyterhub/prboard/pkg/dataloader/boardloader"
	"github.com/jupyterhub/prboard/pkg/dataloader/loaderwithmetrics"
	"github.com/jupyterhub/prboard/pkg/fields"
	"github.com/jupyterhub/prboard/pkg/flags"
	"github.com/jupyterhub/prboard/pkg/flags/configflags"
	"github.com/jupyterhub/prboard/pkg/github"
)

type SyncFlags struct {
	DryRun       bool
	Repositories []string

	GitHubFlags *flags.GitHubFlags
	CacheFlags  *flags.CacheFlags
	ConfigFlags *configflags.ConfigFlags
}

func NewSyncFlags() *SyncFlags {
	return &SyncFlags{
		GitHubFlags: flags.NewGitHubFlags(),
		CacheFlags:  flags.NewCacheFlags(),
		ConfigFlags: configflags.NewConfigFlags(),
	}
}

func (f *SyncFlags) BindFlags(fs *pflag.FlagSet) {
	f.GitHubFlags.BindFlags(fs)
	f.CacheFlags.BindFlags(fs)
	f.ConfigFlags.BindFlags(fs)

	fs.BoolVar(&f.DryRun, "dry-run", false, "Compute and log every change without mutating the board")
	fs.StringSliceVar(&f.Repositories, "repositories", f.Repositories, "Restrict the sync to these repositories (comma separated, owner/name or bare name within the organization)")
}

func NewSyncCommand() *cobra.Command {
	f := NewSyncFlags()

	cmd := &cobra.Command{
		Use:   "sync <organization> <projectNumber>",
		Short: "Reconcile the project board against the open pull requests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			organization := args[0]
			projectNumber, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "project number must be numeric, got %q", args[1])
			}

			ctx := context.Background()

			fieldConfig, err := f.ConfigFlags.GetFieldConfig()
			if err != nil {
				return err
			}
			specs := fields.Required(fieldConfig)

			httpClient := f.GitHubFlags.GetHTTPClient(ctx)
			githubClient := github.New(ctx, httpClient, organization, f.Repositories)

			cacheClient, err := f.CacheFlags.GetCacheClient()
			if err != nil {
				return errors.WithMessage(err, "could not get cache client")
			}
			if cacheClient != nil {
				githubClient = githubClient.WithPersistentCache(cacheClient, f.CacheFlags.CacheTTL)
			}

			boardClient := board.NewClient(github.NewGraphQLClient(ctx, httpClient), organization, projectNumber, specs)
			if err := boardClient.LoadProject(); err != nil {
				return err
			}

			log.Info("verifying project fields...")
			if err := boardClient.EnsureFields(specs, f.DryRun); err != nil {
				return errors.WithMessage(err, "field verification failed")
			}
			log.Info("field verification complete")

			loader := boardloader.New(githubClient, boardClient, githubClient, specs, f.DryRun)
			loaderwithmetrics.New([]dataloader.DataLoader{loader}).Load()

			summary := loader.Summary()
			log.Infof("summary: created=%d deleted=%d updated=%d skipped=%d",
				summary.Created, summary.Deleted, summary.Updated, summary.Skipped)

			if errs := loader.Errors(); len(errs) > 0 {
				for _, loadErr := range errs {
					log.WithError(loadErr).Error("sync error")
				}
				return errors.Errorf("sync completed with %d errors", len(errs))
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
