package boardloader

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
	"github.com/jupyterhub/prboard/pkg/board"
	"github.com/jupyterhub/prboard/pkg/fields"
)

// PullRequestLister supplies the live open pull request set, fully
// materialized.
type PullRequestLister interface {
	OpenPullRequests() ([]v1.PullRequest, error)
}

// BoardWriter is the board surface the loader mutates.
type BoardWriter interface {
	Items() ([]board.Item, error)
	AddItem(contentID string) (string, error)
	DeleteItem(itemID string) (string, error)
	SetItemValue(itemID, fieldName string, value *fields.Value) error
	ClearItemValue(itemID, fieldName string) error
}

// Summary tallies what one reconciliation pass did (or, in dry-run mode,
// would have done).
type Summary struct {
	Created int
	Deleted int
	Updated int
	Skipped int
}

// BoardLoader reconciles the project board against the live pull request
// set: stale items are deleted, missing items created, and each tracked
// field rewritten only when its computed value differs from the stored
// one. Items are processed strictly one at a time so a crash mid-run
// leaves a clean prefix of fully reconciled items.
//
// Failures are isolated per item: the loader logs, records the error, and
// moves on to the next pull request rather than aborting the run.
type BoardLoader struct {
	prs     PullRequestLister
	writer  BoardWriter
	lookup  fields.Lookup
	specs   []fields.Spec
	dryRun  bool
	summary Summary
	errors  []error
}

func New(prs PullRequestLister, writer BoardWriter, lookup fields.Lookup, specs []fields.Spec, dryRun bool) *BoardLoader {
	return &BoardLoader{
		prs:    prs,
		writer: writer,
		lookup: lookup,
		specs:  specs,
		dryRun: dryRun,
	}
}

func (l *BoardLoader) Name() string {
	return "board"
}

func (l *BoardLoader) Errors() []error {
	return l.errors
}

// Summary returns the tallies of the last Load.
func (l *BoardLoader) Summary() Summary {
	return l.summary
}

func (l *BoardLoader) addError(logger *log.Entry, err error, msg string) {
	logger.WithError(err).Error(msg)
	l.errors = append(l.errors, errors.Wrap(err, msg))
}

func (l *BoardLoader) Load() {
	logger := log.WithField("loader", "board")
	l.summary = Summary{}

	prs, err := l.prs.OpenPullRequests()
	if err != nil {
		l.addError(logger, err, "could not fetch open pull requests")
		return
	}
	logger.Infof("found %d open pull requests", len(prs))

	items, err := l.writer.Items()
	if err != nil {
		l.addError(logger, err, "could not list project items")
		return
	}
	logger.Infof("found %d project items", len(items))

	liveIDs := sets.NewString()
	for _, pr := range prs {
		liveIDs.Insert(pr.ID)
	}

	index, stale := board.BuildIndex(items, liveIDs)
	l.deleteStale(stale)

	// sort by URL so progress logs are easy to follow across runs
	sort.Slice(prs, func(i, j int) bool { return prs[i].URL < prs[j].URL })
	for i := range prs {
		l.reconcile(&prs[i], i+1, len(prs), index)
	}

	logger.Infof("reconciliation complete: created=%d deleted=%d updated=%d skipped=%d",
		l.summary.Created, l.summary.Deleted, l.summary.Updated, l.summary.Skipped)
}

func (l *BoardLoader) deleteStale(stale []board.Item) {
	sort.Slice(stale, func(i, j int) bool { return stale[i].URL < stale[j].URL })
	for i, item := range stale {
		logger := log.WithField("item", item.ID).WithField("url", item.URL)
		logger.Infof("[%d / %d] removing stale item %s", i+1, len(stale), item.URL)
		if !l.dryRun {
			if _, err := l.writer.DeleteItem(item.ID); err != nil {
				l.addError(logger, err, "could not delete stale item")
				continue
			}
		}
		l.summary.Deleted++
	}
}

func (l *BoardLoader) reconcile(pr *v1.PullRequest, position, total int, index map[string]*board.Item) {
	logger := log.WithField("pr", pr.URL)

	var itemID string
	stored := map[string]*fields.Value{}
	if item, ok := index[pr.ID]; ok {
		itemID = item.ID
		stored = item.Values
	} else {
		logger.Infof("[%d / %d] adding %s to the board", position, total, pr.URL)
		if !l.dryRun {
			created, err := l.writer.AddItem(pr.ID)
			if err != nil {
				l.addError(logger, err, "could not add pull request to the board")
				return
			}
			itemID = created
		}
		l.summary.Created++
	}

	// classify every field before writing anything so a lookup failure
	// leaves the item untouched
	computed := map[string]*fields.Value{}
	for _, spec := range l.specs {
		value, err := spec.Classify(l.lookup, pr)
		if err != nil {
			l.addError(logger, err, "could not classify "+spec.Name)
			return
		}
		computed[spec.Name] = value
	}

	updates := board.ComputeUpdates(l.specs, stored, computed)
	l.summary.Skipped += len(l.specs) - len(updates)

	for _, update := range updates {
		logger.Infof("[%d / %d] setting %s to %s for %s", position, total, update.Field, update.Value, pr.URL)
		if !l.dryRun {
			var err error
			if update.Value == nil {
				err = l.writer.ClearItemValue(itemID, update.Field)
			} else {
				err = l.writer.SetItemValue(itemID, update.Field, update.Value)
			}
			if err != nil {
				l.addError(logger, err, "could not update "+update.Field)
				continue
			}
		}
		l.summary.Updated++
	}
}
