package entities

import (
	"strings"

	"golang.org/x/mod/semver"
)

// SameVersionSentinel is what the oracle answers when the upstream release
// is the version already pinned.
const SameVersionSentinel = "SAME"

// VersionDecision is derived from a (current, latest) pair and never stored.
type VersionDecision int

const (
	NoOp VersionDecision = iota
	UpdateNeeded
)

func (d VersionDecision) String() string {
	if d == UpdateNeeded {
		return "update-needed"
	}
	return "no-op"
}

// Decide compares the pinned version with the oracle's answer.
//
// An update is needed unless the answer is empty, the sentinel, the same
// string, the same version modulo a "v" prefix, or (when both sides are
// semantic versions) not greater than the current one. Strings outside
// semver fall back to plain inequality, trusting the oracle's formatting.
func Decide(current, latest string) VersionDecision {
	current = strings.TrimSpace(current)
	latest = strings.TrimSpace(latest)

	if latest == "" || strings.EqualFold(latest, SameVersionSentinel) || latest == current {
		return NoOp
	}

	cv, lv := canonicalSemver(current), canonicalSemver(latest)
	if semver.IsValid(cv) && semver.IsValid(lv) {
		if semver.Compare(lv, cv) <= 0 {
			return NoOp
		}
		return UpdateNeeded
	}

	if strings.TrimPrefix(current, "v") == strings.TrimPrefix(latest, "v") {
		return NoOp
	}
	return UpdateNeeded
}

// ConformVersion rewrites latest so that its "v" prefix convention matches
// current. "23.4.0" stays "23.4.0" for a current of "23.3.1" and becomes
// "v23.4.0" for a current of "v23.3.1".
func ConformVersion(current, latest string) string {
	latest = strings.TrimSpace(latest)
	hasV := func(s string) bool { return len(s) > 1 && s[0] == 'v' && isDigit(s[1]) }

	switch {
	case hasV(current) && !hasV(latest) && len(latest) > 0 && isDigit(latest[0]):
		return "v" + latest
	case !hasV(current) && hasV(latest) && len(current) > 0 && isDigit(current[0]):
		return latest[1:]
	default:
		return latest
	}
}

func canonicalSemver(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
