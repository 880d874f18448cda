package v1

// BoardConfig holds the tunable classification inputs. Everything has a
// compiled-in default so the config file is optional.
type BoardConfig struct {
	// Bots is the set of author logins classified as bots regardless of
	// their permissions or history.
	Bots []string `yaml:"bots,omitempty"`

	// EarlyContributorThreshold is the merged-PR count below which a
	// non-maintainer author is considered an early contributor.
	EarlyContributorThreshold int `yaml:"earlyContributorThreshold,omitempty"`
}
