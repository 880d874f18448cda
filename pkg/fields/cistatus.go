package fields

import (
	log "github.com/sirupsen/logrus"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

// ciStatus maps the aggregate check rollup onto the two states the board
// tracks. Anything else (pending, errored, absent) has no board value.
func ciStatus(_ Lookup, pr *v1.PullRequest) (*Value, error) {
	switch pr.CheckRollup {
	case v1.CheckRollupSuccess:
		return OptionValue(OptionTestsPassing), nil
	case v1.CheckRollupFailure:
		return OptionValue(OptionTestsFailing), nil
	case v1.CheckRollupNone, v1.CheckRollupPending, v1.CheckRollupError, v1.CheckRollupExpected:
		return nil, nil
	default:
		log.WithField("pr", pr.URL).
			WithField("state", pr.CheckRollup).
			Warning("unhandled status check rollup state")
		return nil, nil
	}
}
