package adapter

import (
	"os/exec"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// CheckVersion runs `<path> --version` and extracts a semver-ish version
// string from its output. At most three numeric components are kept, so
// Apple's "lldb-1700.0.9.42" yields "v1700.0.9". When the extracted string is
// not valid semver (e.g. "08.01.2", leading zeros) it is returned without the
// "v" prefix and ok is false. It is a best-effort heuristic, not a hard gate:
// a failure to parse here never blocks adapter use — it only means no
// verified version information is surfaced to the caller.
func CheckVersion(path string) (version string, ok bool) {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", false
	}
	match := versionPattern.FindString(string(out))
	if match == "" {
		return "", false
	}
	normalized := "v" + match
	if !semver.IsValid(normalized) {
		return strings.TrimSpace(match), false
	}
	return normalized, true
}
