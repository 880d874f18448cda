package fields

import (
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

// DataType is the declared representation of a board field. The mapping
// from data type to Value representation is fixed here, not inspected at
// runtime.
type DataType string

const (
	Text         DataType = "TEXT"
	Number       DataType = "NUMBER"
	Date         DataType = "DATE"
	SingleSelect DataType = "SINGLE_SELECT"
)

// Field and option names as they appear on the board.
const (
	FieldAuthorKind           = "Author Kind"
	FieldOpenedAt             = "Opened At"
	FieldTotalLinesChanged    = "Total Lines Changed"
	FieldMaintainerEngagement = "Maintainer Engagement"
	FieldCIStatus             = "CI Status"
	FieldMergeConflicts       = "Merge Conflicts"
	FieldApprovalStatus       = "Approval Status"

	OptionBot                  = "Bot"
	OptionMaintainer           = "Maintainer"
	OptionFirstTimeContributor = "First Time Contributor"
	OptionEarlyContributor     = "Early Contributor"
	OptionSeasonedContributor  = "Seasoned Contributor"

	OptionNoEngagement       = "No Maintainer Engagement"
	OptionSingleEngagement   = "Single Maintainer Engagement"
	OptionMultipleEngagement = "Multiple Maintainer Engagement"

	OptionTestsPassing = "Tests Passing"
	OptionTestsFailing = "Tests Failing"

	OptionMergeConflicts   = "Merge Conflicts"
	OptionNoMergeConflicts = "No Merge Conflicts"

	OptionChangesRequested   = "Changes Requested"
	OptionMaintainerApproved = "Maintainer Approved"
)

// Value is a tagged variant holding one field value in the representation
// declared by the field's data type. A nil *Value means "no applicable
// value", which clears the board field if it is currently set.
type Value struct {
	Type   DataType
	Text   string
	Number float64
	Date   time.Time
	Option string
}

func TextValue(s string) *Value {
	return &Value{Type: Text, Text: s}
}

func NumberValue(n float64) *Value {
	return &Value{Type: Number, Number: n}
}

// DateValue truncates to the UTC calendar day, which is the granularity
// the board stores.
func DateValue(t time.Time) *Value {
	y, m, d := t.UTC().Date()
	return &Value{Type: Date, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func OptionValue(name string) *Value {
	return &Value{Type: SingleSelect, Option: name}
}

func (v *Value) String() string {
	if v == nil {
		return "<none>"
	}
	switch v.Type {
	case Number:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case Date:
		return v.Date.Format("2006-01-02")
	case SingleSelect:
		return v.Option
	default:
		return v.Text
	}
}

// Lookup provides the memoized GitHub queries classifiers depend on.
type Lookup interface {
	// Collaborators returns the logins holding at least triage permission
	// on the repository. Callers must not mutate the returned set.
	Collaborators(owner, repo string) (sets.String, error)

	// MergedPRCount returns how many closed pull requests login has
	// authored within org.
	MergedPRCount(org, login string) (int, error)
}

// Classifier derives one field's value for a pull request. Returning
// (nil, nil) means the field has no determinable value and should be
// cleared if previously set.
type Classifier func(lookup Lookup, pr *v1.PullRequest) (*Value, error)

// Spec describes one tracked board field.
type Spec struct {
	Name     string
	DataType DataType
	// Options is the closed set of allowed names for SINGLE_SELECT
	// fields. Classifiers never emit a value outside this set.
	Options  []string
	Classify Classifier
}

// Config carries the classification tunables.
type Config struct {
	Bots                      sets.String
	EarlyContributorThreshold int
}

func DefaultConfig() Config {
	return Config{
		Bots:                      sets.NewString("dependabot", "pre-commit-ci", "jupyterhub-bot"),
		EarlyContributorThreshold: 10,
	}
}

// Required returns the field table in declaration order. Updates are
// applied in this order so runs produce reproducible logs.
func Required(cfg Config) []Spec {
	return []Spec{
		{
			Name:     FieldAuthorKind,
			DataType: SingleSelect,
			Options: []string{
				OptionBot,
				OptionMaintainer,
				OptionFirstTimeContributor,
				OptionEarlyContributor,
				OptionSeasonedContributor,
			},
			Classify: authorKind(cfg),
		},
		{
			Name:     FieldOpenedAt,
			DataType: Date,
			Classify: openedAt,
		},
		{
			Name:     FieldTotalLinesChanged,
			DataType: Number,
			Classify: totalLinesChanged,
		},
		{
			Name:     FieldMaintainerEngagement,
			DataType: SingleSelect,
			Options: []string{
				OptionNoEngagement,
				OptionSingleEngagement,
				OptionMultipleEngagement,
			},
			Classify: maintainerEngagement,
		},
		{
			Name:     FieldCIStatus,
			DataType: SingleSelect,
			Options:  []string{OptionTestsPassing, OptionTestsFailing},
			Classify: ciStatus,
		},
		{
			Name:     FieldMergeConflicts,
			DataType: SingleSelect,
			Options:  []string{OptionMergeConflicts, OptionNoMergeConflicts},
			Classify: mergeConflicts,
		},
		{
			Name:     FieldApprovalStatus,
			DataType: SingleSelect,
			Options:  []string{OptionChangesRequested, OptionMaintainerApproved},
			Classify: approvalStatus,
		},
	}
}

// Types maps field name to declared data type for the given specs. The
// board transport uses it to reconstruct typed values from raw items.
func Types(specs []Spec) map[string]DataType {
	types := make(map[string]DataType, len(specs))
	for _, spec := range specs {
		types[spec.Name] = spec.DataType
	}
	return types
}
