package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = ""

const develVersion = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "pathwise", resolveVersion())
	},
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion() string {
	if v := canonicalVersion(version); v != develVersion {
		return v
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		return canonicalVersion(bi.Main.Version)
	}
	return develVersion
}

// canonicalVersion normalizes v to vMAJOR.MINOR.PATCH[-pre], accepting a
// missing "v" prefix. Anything that is not semver reports as devel.
func canonicalVersion(v string) string {
	if v == "" {
		return develVersion
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return develVersion
	}
	return semver.Canonical(v)
}
