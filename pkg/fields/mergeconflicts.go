package fields

import (
	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

func mergeConflicts(_ Lookup, pr *v1.PullRequest) (*Value, error) {
	switch pr.Mergeable {
	case v1.MergeableConflicting:
		return OptionValue(OptionMergeConflicts), nil
	case v1.MergeableClean:
		return OptionValue(OptionNoMergeConflicts), nil
	default:
		// UNKNOWN, or a state the API grows later
		return nil, nil
	}
}
