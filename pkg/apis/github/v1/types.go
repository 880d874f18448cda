package v1

import "time"

// CheckRollupState is the aggregate CI state GitHub reports for a pull
// request's head commit.
type CheckRollupState string

const (
	// CheckRollupSuccess means every required check passed.
	CheckRollupSuccess CheckRollupState = "SUCCESS"
	// CheckRollupFailure means at least one required check failed.
	CheckRollupFailure CheckRollupState = "FAILURE"
	// CheckRollupPending means checks are still running.
	CheckRollupPending CheckRollupState = "PENDING"
	// CheckRollupError means a check errored before producing a result.
	CheckRollupError CheckRollupState = "ERROR"
	// CheckRollupExpected means a required check has not reported yet.
	CheckRollupExpected CheckRollupState = "EXPECTED"
	// CheckRollupNone means GitHub reported no rollup at all.
	CheckRollupNone CheckRollupState = ""
)

// MergeableState reports whether a pull request can merge cleanly.
type MergeableState string

const (
	MergeableConflicting MergeableState = "CONFLICTING"
	MergeableClean       MergeableState = "MERGEABLE"
	// MergeableUnknown means GitHub has not computed mergeability yet.
	MergeableUnknown MergeableState = "UNKNOWN"
)

// ReviewState is the conclusion of a single pull request review.
type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
	ReviewPending          ReviewState = "PENDING"
)

// Repository identifies the repo a pull request belongs to.
type Repository struct {
	Name  string
	Owner string
}

// Review is one review left on a pull request.
type Review struct {
	Author string
	State  ReviewState
	// AuthorCanPush is true when the reviewer has write-equivalent
	// permission on the repository.
	AuthorCanPush bool
	// IsMinimized is true when the review was hidden or superseded.
	IsMinimized bool
}

// PullRequest is a read-only projection of an open pull request as returned
// by the search query. It is rebuilt fresh on every reconciliation pass and
// has no identity beyond ID, which matches the board item content reference.
type PullRequest struct {
	ID           string
	URL          string
	CreatedAt    time.Time
	Additions    int
	Deletions    int
	Author       string
	Repo         Repository
	CheckRollup  CheckRollupState
	Mergeable    MergeableState
	Participants []string
	Reviews      []Review
}
