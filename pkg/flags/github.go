package flags

import (
	"context"
	"net/http"

	"github.com/spf13/pflag"

	"github.com/jupyterhub/prboard/pkg/github"
)

// GitHubFlags holds the authentication configuration. The App private key
// and personal access token come from the environment
// (GITHUB_APP_CLIENT_KEY, GITHUB_TOKEN) so they never appear in process
// listings.
type GitHubFlags struct {
	AppID          int64
	InstallationID int64
}

func NewGitHubFlags() *GitHubFlags {
	return &GitHubFlags{}
}

func (f *GitHubFlags) BindFlags(fs *pflag.FlagSet) {
	fs.Int64Var(&f.AppID, "github-app-id", f.AppID, "GitHub App ID to authenticate as (private key from GITHUB_APP_CLIENT_KEY)")
	fs.Int64Var(&f.InstallationID, "github-app-installation-id", f.InstallationID, "GitHub App installation ID for the target organization")
}

// GetHTTPClient returns the authenticated HTTP client shared by the REST
// and GraphQL surfaces.
func (f *GitHubFlags) GetHTTPClient(ctx context.Context) *http.Client {
	return github.NewAuthClient(ctx, f.AppID, f.InstallationID)
}
