package fields

import (
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

// maintainerEngagement counts how many collaborators other than the author
// have participated in the pull request.
func maintainerEngagement(lookup Lookup, pr *v1.PullRequest) (*Value, error) {
	collaborators, err := lookup.Collaborators(pr.Repo.Owner, pr.Repo.Name)
	if err != nil {
		return nil, err
	}

	// Intersection copies, the cached collaborator set must stay intact.
	engaged := collaborators.Intersection(sets.NewString(pr.Participants...))
	engaged.Delete(pr.Author)

	switch engaged.Len() {
	case 0:
		return OptionValue(OptionNoEngagement), nil
	case 1:
		return OptionValue(OptionSingleEngagement), nil
	default:
		return OptionValue(OptionMultipleEngagement), nil
	}
}
