package github

import (
	"context"
	"net/http"
	"os"

	ghauth "github.com/jferrl/go-githubauth"
	log "github.com/sirupsen/logrus"
	"github.com/tcnksm/go-gitconfig"
	"golang.org/x/oauth2"
)

// NewAuthClient builds an authenticated HTTP client, preferring GitHub App
// installation credentials, then a personal access token from the
// environment or git config. Returns nil when no credentials are
// available, which yields an unauthenticated (heavily rate-limited)
// client.
func NewAuthClient(ctx context.Context, appID, installationID int64) *http.Client {
	if tokenSource := newAppTokenSource(appID); tokenSource != nil && installationID != 0 {
		// self-renewing installation token source
		installationTokenSource := ghauth.NewInstallationTokenSource(installationID, tokenSource, ghauth.WithContext(ctx))
		log.Infof("using GitHub App credentials for installation %d", installationID)
		return oauth2.NewClient(ctx, installationTokenSource)
	}

	// no app creds, try to use a personal access token
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Info("No GitHub token environment variable, checking git config")
		var err error
		token, err = gitconfig.GithubToken()
		if err != nil {
			log.WithError(err).Warning("unable to retrieve GitHub token from git config")
		}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		return oauth2.NewClient(ctx, ts)
	}

	log.Warning("using unauthenticated GitHub client, requests will be rate-limited")
	return nil
}

func newAppTokenSource(appID int64) oauth2.TokenSource {
	if appID == 0 {
		return nil
	}
	privateKey := os.Getenv("GITHUB_APP_CLIENT_KEY")
	if privateKey == "" {
		log.Warn("missing GITHUB_APP_CLIENT_KEY, will not authenticate as GitHub App")
		return nil
	}
	appTokenSource, err := ghauth.NewApplicationTokenSource(appID, []byte(privateKey))
	if err != nil {
		log.WithError(err).Error("error creating application token source")
		return nil
	}
	return appTokenSource
}
