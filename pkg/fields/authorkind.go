package fields

import (
	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

// authorKind buckets the author by their relationship to the repository:
// bots first, then collaborators, then by merged-PR history within the
// owning organization.
func authorKind(cfg Config) Classifier {
	return func(lookup Lookup, pr *v1.PullRequest) (*Value, error) {
		if cfg.Bots.Has(pr.Author) {
			return OptionValue(OptionBot), nil
		}

		collaborators, err := lookup.Collaborators(pr.Repo.Owner, pr.Repo.Name)
		if err != nil {
			return nil, err
		}
		if collaborators.Has(pr.Author) {
			return OptionValue(OptionMaintainer), nil
		}

		count, err := lookup.MergedPRCount(pr.Repo.Owner, pr.Author)
		if err != nil {
			return nil, err
		}
		switch {
		case count == 1:
			return OptionValue(OptionFirstTimeContributor), nil
		case count < cfg.EarlyContributorThreshold:
			return OptionValue(OptionEarlyContributor), nil
		default:
			return OptionValue(OptionSeasonedContributor), nil
		}
	}
}
