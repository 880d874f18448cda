package fields

import (
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

type fakeLookup struct {
	collaborators sets.String
	mergedCount   int
	collabErr     error
	countErr      error

	collabCalls int
	countCalls  int
}

func (f *fakeLookup) Collaborators(owner, repo string) (sets.String, error) {
	f.collabCalls++
	return f.collaborators, f.collabErr
}

func (f *fakeLookup) MergedPRCount(org, login string) (int, error) {
	f.countCalls++
	return f.mergedCount, f.countErr
}

func TestOpenedAtTruncatesToDay(t *testing.T) {
	pr := &v1.PullRequest{
		CreatedAt: time.Date(2024, 1, 5, 18, 32, 11, 0, time.UTC),
	}
	value, err := openedAt(nil, pr)
	if err != nil {
		t.Fatalf("openedAt() unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !value.Date.Equal(want) {
		t.Errorf("openedAt() = %v, want %v", value.Date, want)
	}
	if value.Type != Date {
		t.Errorf("openedAt() type = %v, want %v", value.Type, Date)
	}
}

func TestOpenedAtNormalizesZone(t *testing.T) {
	// 23:30 on Jan 5 in UTC+5 is still Jan 5 UTC, 02:30 on Jan 6 in
	// UTC+5 is Jan 5 UTC as well
	zone := time.FixedZone("test", 5*3600)
	pr := &v1.PullRequest{CreatedAt: time.Date(2024, 1, 6, 2, 30, 0, 0, zone)}
	value, err := openedAt(nil, pr)
	if err != nil {
		t.Fatalf("openedAt() unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !value.Date.Equal(want) {
		t.Errorf("openedAt() = %v, want %v", value.Date, want)
	}
}

func TestTotalLinesChanged(t *testing.T) {
	tests := []struct {
		name      string
		additions int
		deletions int
		want      float64
	}{
		{name: "both zero", want: 0},
		{name: "additions only", additions: 120, want: 120},
		{name: "deletions only", deletions: 7, want: 7},
		{name: "both", additions: 1013, deletions: 428, want: 1441},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := &v1.PullRequest{Additions: tt.additions, Deletions: tt.deletions}
			value, err := totalLinesChanged(nil, pr)
			if err != nil {
				t.Fatalf("totalLinesChanged() unexpected error: %v", err)
			}
			if value.Number != tt.want {
				t.Errorf("totalLinesChanged() = %v, want %v", value.Number, tt.want)
			}
		})
	}
}

// Every single-select classifier output must come from the declared
// option set, otherwise the board mutation would fail at option lookup.
func TestClassifiersStayWithinDeclaredOptions(t *testing.T) {
	lookup := &fakeLookup{
		collaborators: sets.NewString("maintainer1", "maintainer2"),
		mergedCount:   3,
	}
	prs := []*v1.PullRequest{
		{Author: "dependabot", Repo: v1.Repository{Owner: "jupyterhub", Name: "jupyterhub"}},
		{Author: "maintainer1", Repo: v1.Repository{Owner: "jupyterhub", Name: "jupyterhub"}},
		{
			Author:       "newcomer",
			Repo:         v1.Repository{Owner: "jupyterhub", Name: "jupyterhub"},
			CheckRollup:  v1.CheckRollupFailure,
			Mergeable:    v1.MergeableConflicting,
			Participants: []string{"maintainer1", "maintainer2", "newcomer"},
			Reviews: []v1.Review{
				{Author: "maintainer1", State: v1.ReviewChangesRequested, AuthorCanPush: true},
			},
		},
	}

	for _, spec := range Required(DefaultConfig()) {
		if spec.DataType != SingleSelect {
			continue
		}
		allowed := sets.NewString(spec.Options...)
		for _, pr := range prs {
			value, err := spec.Classify(lookup, pr)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", spec.Name, err)
			}
			if value == nil {
				continue
			}
			if !allowed.Has(value.Option) {
				t.Errorf("%s: emitted option %q outside declared set %v", spec.Name, value.Option, spec.Options)
			}
		}
	}
}

func TestRequiredFieldTable(t *testing.T) {
	specs := Required(DefaultConfig())
	wantOrder := []string{
		FieldAuthorKind,
		FieldOpenedAt,
		FieldTotalLinesChanged,
		FieldMaintainerEngagement,
		FieldCIStatus,
		FieldMergeConflicts,
		FieldApprovalStatus,
	}
	if len(specs) != len(wantOrder) {
		t.Fatalf("Required() returned %d specs, want %d", len(specs), len(wantOrder))
	}
	for i, spec := range specs {
		if spec.Name != wantOrder[i] {
			t.Errorf("Required()[%d] = %q, want %q", i, spec.Name, wantOrder[i])
		}
		if spec.Classify == nil {
			t.Errorf("Required()[%d] %q has no classifier", i, spec.Name)
		}
		if spec.DataType == SingleSelect && len(spec.Options) == 0 {
			t.Errorf("Required()[%d] %q is single-select with no options", i, spec.Name)
		}
	}
}
