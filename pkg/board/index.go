package board

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/jupyterhub/prboard/pkg/fields"
)

// Item is one tracked row on the project board.
type Item struct {
	// ID is the board-assigned item identifier.
	ID string
	// ContentID references the pull request this item tracks. Empty for
	// items whose content is not a pull request (e.g. draft issues).
	ContentID string
	URL       string
	// Values holds the currently stored field values, keyed by field
	// name. Absent entries mean the field is unset on the board.
	Values map[string]*fields.Value
}

// BuildIndex partitions raw board items into an index of live items keyed
// by content id, and the stale items whose content no longer appears in
// liveIDs. Every item lands in exactly one of the two. Items without a
// content reference are ignored.
func BuildIndex(items []Item, liveIDs sets.String) (map[string]*Item, []Item) {
	index := make(map[string]*Item, len(items))
	var stale []Item
	for i := range items {
		item := items[i]
		if item.ContentID == "" {
			continue
		}
		if liveIDs.Has(item.ContentID) {
			indexed := item
			index[item.ContentID] = &indexed
		} else {
			stale = append(stale, item)
		}
	}
	return index, stale
}
