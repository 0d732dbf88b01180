package awbundle

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// defaultVersion is used when no git tag is reachable.
const defaultVersion = "0.0.0.0"

// Version is the application version stamped into the Windows resources.
type Version struct {
	Raw string

	Major, Minor, Patch, Build int
}

// Regexp for version strings. The groups are:
// 1  major
// 2  minor
// 3  patch, or empty if none
// 4  build, or empty if none
//
// A trailing prerelease suffix ("-rc1") is accepted and ignored for the
// numeric components.
var versionRegexp = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-.*)?$`)

// ParseVersion splits a version string into its numeric components.
// Unparseable strings yield all zeroes rather than an error, matching the
// "never block the build" policy of the rest of the tool. Examples:
//
//	"1.2.3"    => {1, 2, 3, 0}
//	"1.2.3.4"  => {1, 2, 3, 4}
//	"1.2-rc1"  => {1, 2, 0, 0}
//	"garbage"  => {0, 0, 0, 0}
func ParseVersion(raw string) Version {
	v := Version{Raw: raw}
	m := versionRegexp.FindStringSubmatch(strings.TrimPrefix(raw, "v"))
	if m == nil {
		return v
	}
	v.Major = atoi(m[1])
	v.Minor = atoi(m[2])
	v.Patch = atoi(m[3])
	v.Build = atoi(m[4])
	return v
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Semver returns the canonical semver form of the version ("v1.2.3"), or ""
// when the version does not map to a valid semver.
func (v Version) Semver() string {
	s := "v" + strings.TrimPrefix(v.Raw, "v")
	if !semver.IsValid(s) {
		return ""
	}
	return semver.Canonical(s)
}

// AppVersion determines the application version from git tags in root,
// defaulting to 0.0.0.0 when no tag is reachable.
func AppVersion(root string) Version {
	for _, args := range [][]string{
		{"describe", "--tags", "--abbrev=0"},
		{"tag", "--points-at", "HEAD"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = root
		out, err := cmd.Output()
		if err != nil {
			continue
		}
		if tags := strings.Fields(string(out)); len(tags) > 0 {
			return ParseVersion(strings.TrimPrefix(tags[0], "v"))
		}
	}
	return ParseVersion(defaultVersion)
}
