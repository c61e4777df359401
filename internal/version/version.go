// Package version tracks the release version and schema version comparisons.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the release version, also used as the target schema version.
var Version = "0.3.2"

// DevVersion is the suffix appended in dev builds.
var DevVersion = "dev"

func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return Version + "-" + DevVersion
	}
	return Version
}

// GetMinorVersion returns the "major.minor" part of a version string.
func GetMinorVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

// IsVersionGreaterThan returns true if version is strictly newer than target.
func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) > 0
}

// IsVersionGreaterOrEqualThan returns true if version is newer than or equal to target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) >= 0
}

// canonical normalizes a version for semver comparison, which requires the "v" prefix.
func canonical(version string) string {
	version = strings.TrimSuffix(version, "-"+DevVersion)
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}
