package main

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jupyterhub/prboard/pkg/board"
	"github.com/jupyterhub/prboard/pkg/fields"
	"github.com/jupyterhub/prboard/pkg/flags"
	"github.com/jupyterhub/prboard/pkg/flags/configflags"
	"github.com/jupyterhub/prboard/pkg/github"
)

type VerifyFieldsFlags struct {
	DryRun bool

	GitHubFlags *flags.GitHubFlags
	ConfigFlags *configflags.ConfigFlags
}

func NewVerifyFieldsFlags() *VerifyFieldsFlags {
	return &VerifyFieldsFlags{
		GitHubFlags: flags.NewGitHubFlags(),
		ConfigFlags: configflags.NewConfigFlags(),
	}
}

func (f *VerifyFieldsFlags) BindFlags(fs *pflag.FlagSet) {
	f.GitHubFlags.BindFlags(fs)
	f.ConfigFlags.BindFlags(fs)

	fs.BoolVar(&f.DryRun, "dry-run", false, "Report missing fields without creating them")
}

// NewVerifyFieldsCommand checks the board carries the required fields,
// creating any that are missing, without running a reconciliation.
func NewVerifyFieldsCommand() *cobra.Command {
	f := NewVerifyFieldsFlags()

	cmd := &cobra.Command{
		Use:   "verify-fields <organization> <projectNumber>",
		Short: "Verify and create the board fields the sync requires",
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
			boardClient := board.NewClient(github.NewGraphQLClient(ctx, httpClient), organization, projectNumber, specs)
			if err := boardClient.LoadProject(); err != nil {
				return err
			}

			log.Info("verifying project fields...")
			if err := boardClient.EnsureFields(specs, f.DryRun); err != nil {
				return errors.WithMessage(err, "field verification failed")
			}
			log.Info("field verification complete")
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
