package fields

import (
	"testing"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

func TestMaintainerEngagement(t *testing.T) {
	collaborators := sets.NewString("m1", "m2", "m3")
	tests := []struct {
		name         string
		author       string
		participants []string
		want         string
	}{
		{
			name:         "no maintainers participating",
			author:       "outsider",
			participants: []string{"outsider", "other"},
			want:         OptionNoEngagement,
		},
		{
			name:         "one maintainer",
			author:       "outsider",
			participants: []string{"outsider", "m1"},
			want:         OptionSingleEngagement,
		},
		{
			name:         "two maintainers",
			author:       "outsider",
			participants: []string{"outsider", "m1", "m2"},
			want:         OptionMultipleEngagement,
		},
		{
			name:         "author does not count as engagement on their own pr",
			author:       "m1",
			participants: []string{"m1"},
			want:         OptionNoEngagement,
		},
		{
			name:         "author excluded but another maintainer counts",
			author:       "m1",
			participants: []string{"m1", "m2"},
			want:         OptionSingleEngagement,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{collaborators: collaborators}
			pr := &v1.PullRequest{
				Author:       tt.author,
				Repo:         v1.Repository{Owner: "jupyterhub", Name: "jupyterhub"},
				Participants: tt.participants,
			}
			value, err := maintainerEngagement(lookup, pr)
			if err != nil {
				t.Fatalf("maintainerEngagement() unexpected error: %v", err)
			}
			if value == nil || value.Option != tt.want {
				t.Errorf("maintainerEngagement() = %s, want %s", value, tt.want)
			}
		})
	}
}

// The collaborator set comes from a shared cache, so removing the author
// must never modify it.
func TestMaintainerEngagementDoesNotMutateCachedSet(t *testing.T) {
	collaborators := sets.NewString("m1", "m2")
	lookup := &fakeLookup{collaborators: collaborators}
	pr := &v1.PullRequest{
		Author:       "m1",
		Repo:         v1.Repository{Owner: "jupyterhub", Name: "jupyterhub"},
		Participants: []string{"m1", "m2"},
	}
	if _, err := maintainerEngagement(lookup, pr); err != nil {
		t.Fatalf("maintainerEngagement() unexpected error: %v", err)
	}
	if !collaborators.Has("m1") {
		t.Error("maintainerEngagement() removed the author from the shared collaborator set")
	}
}
