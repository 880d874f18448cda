package version

import "runtime"

// overridden at build time via
//   -ldflags "-X github.com/jupyterhub/prboard/pkg/version.commitFromGit=$(git rev-parse HEAD)"
var commitFromGit = "unknown"

type Info struct {
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func Get() Info {
	return Info{
		GitCommit: commitFromGit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
