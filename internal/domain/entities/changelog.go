package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedSubheading = "### Changed"
	releasePrefix     = "## ["
	bulletPrefix      = "- "
)

// ChangelogEntry is the bullet recorded for one image bump.
func ChangelogEntry(image, from, to string) string {
	return fmt.Sprintf("- changed the `%s` image version from `%s` to `%s`", image, from, to)
}

// InsertChangelogEntry adds entry to the "### Changed" list of the
// "## [Unreleased]" section of a Keep-a-Changelog document.
//
//   - without an Unreleased section the content is returned unchanged;
//   - an existing "### Changed" list gets the entry after its last bullet;
//   - otherwise a "### Changed" list is opened right below the heading.
//
// An entry already present in the section is not added twice.
func InsertChangelogEntry(content, entry string) string {
	lines := strings.Split(content, "\n")

	start := indexOfTrimmed(lines, 0, len(lines), unreleasedHeading)
	if start < 0 {
		return content
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), releasePrefix) {
			end = i
			break
		}
	}

	if indexOfTrimmed(lines, start+1, end, entry) >= 0 {
		return content
	}

	changed := indexOfTrimmed(lines, start+1, end, changedSubheading)
	if changed < 0 {
		return strings.Join(splice(lines, start+1, "", changedSubheading, "", entry), "\n")
	}

	at := changed
	for i := changed + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, bulletPrefix) {
			break
		}
		at = i
	}

	return strings.Join(splice(lines, at+1, entry), "\n")
}

func indexOfTrimmed(lines []string, from, to int, want string) int {
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}

func splice(lines []string, at int, extra ...string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	return append(result, lines[at:]...)
}
