package vcs

import (
	"fmt"
	"runtime/debug"
)

// Version returns the short VCS revision the binary was built from, with a
// -dirty suffix for builds from a modified tree.
func Version() string {
	var (
		revision string
		modified bool
	)

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}

	if len(revision) > 7 {
		revision = revision[:7]
	}

	if modified {
		return fmt.Sprintf("%s-dirty", revision)
	}

	return revision
}
