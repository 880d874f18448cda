package fields

import (
	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

// approvalStatus considers only reviews from write-permission reviewers
// that have not been minimized. A single CHANGES_REQUESTED outweighs any
// number of approvals.
func approvalStatus(_ Lookup, pr *v1.PullRequest) (*Value, error) {
	approved := false
	for _, review := range pr.Reviews {
		if !review.AuthorCanPush || review.IsMinimized {
			continue
		}
		switch review.State {
		case v1.ReviewChangesRequested:
			return OptionValue(OptionChangesRequested), nil
		case v1.ReviewApproved:
			approved = true
		}
	}
	if approved {
		return OptionValue(OptionMaintainerApproved), nil
	}
	return nil, nil
}
