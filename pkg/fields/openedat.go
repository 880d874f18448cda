package fields

import (
	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

func openedAt(_ Lookup, pr *v1.PullRequest) (*Value, error) {
	return DateValue(pr.CreatedAt), nil
}

func totalLinesChanged(_ Lookup, pr *v1.PullRequest) (*Value, error) {
	return NumberValue(float64(pr.Additions + pr.Deletions)), nil
}
