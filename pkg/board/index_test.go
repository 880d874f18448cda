package board

import (
	"testing"

	"k8s.io/apimachinery/pkg/util/sets"
)

func TestBuildIndex(t *testing.T) {
	items := []Item{
		{ID: "item1", ContentID: "PR_1", URL: "https://github.com/jupyterhub/jupyterhub/pull/1"},
		{ID: "item2", ContentID: "PR_2", URL: "https://github.com/jupyterhub/jupyterhub/pull/2"},
		{ID: "item3", ContentID: "PR_3", URL: "https://github.com/jupyterhub/jupyterhub/pull/3"},
		// a draft issue or other non-PR content
		{ID: "item4"},
	}
	live := sets.NewString("PR_1", "PR_3")

	index, stale := BuildIndex(items, live)

	if len(index) != 2 {
		t.Errorf("BuildIndex() indexed %d items, want 2", len(index))
	}
	for _, id := range []string{"PR_1", "PR_3"} {
		if _, ok := index[id]; !ok {
			t.Errorf("BuildIndex() missing live item for %s", id)
		}
	}

	if len(stale) != 1 {
		t.Fatalf("BuildIndex() reported %d stale items, want 1", len(stale))
	}
	if stale[0].ID != "item2" {
		t.Errorf("BuildIndex() stale item = %s, want item2", stale[0].ID)
	}

	// no item may be both live and stale
	for _, staleItem := range stale {
		if _, ok := index[staleItem.ContentID]; ok {
			t.Errorf("BuildIndex() item %s is both indexed and stale", staleItem.ID)
		}
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	index, stale := BuildIndex(nil, sets.NewString("PR_1"))
	if len(index) != 0 || len(stale) != 0 {
		t.Errorf("BuildIndex(nil) = %d indexed, %d stale; want none", len(index), len(stale))
	}
}
