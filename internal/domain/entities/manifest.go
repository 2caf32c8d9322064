package entities

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	lineSeparator = "\n"

	// maxIndentation bounds the indentation width a collaborator may ask for.
	maxIndentation = 255
)

// DeclarationToken is the substring that marks the manifest line declaring
// an image, e.g. "image: prom/prometheus:".
func DeclarationToken(image string) string {
	return "image: " + image + ":"
}

// ApplyVersionBump replaces the first line that contains both the image
// declaration and the literal current version with newLine. Every other line
// is left byte-for-byte intact. When nothing matches the document is
// returned unchanged and changed is false.
func ApplyVersionBump(document, image, currentVersion, newLine string) (string, bool) {
	lines := strings.Split(document, lineSeparator)
	token := DeclarationToken(image)

	for i, line := range lines {
		if !strings.Contains(line, token) || !strings.Contains(line, currentVersion) {
			continue
		}
		if line == newLine {
			return document, false
		}
		lines[i] = newLine
		return strings.Join(lines, lineSeparator), true
	}

	return document, false
}

// FindDeclarationLine returns the index and content of the line
// ApplyVersionBump would replace, or -1 when there is none.
func FindDeclarationLine(document, image, currentVersion string) (int, string) {
	token := DeclarationToken(image)
	for i, line := range strings.Split(document, lineSeparator) {
		if strings.Contains(line, token) && strings.Contains(line, currentVersion) {
			return i, line
		}
	}
	return -1, ""
}

// LineEdit is the replacement for one manifest line, split into the
// indentation width and the line text without leading whitespace.
type LineEdit struct {
	Indentation string `json:"indentation" yaml:"indentation"`
	UpdatedLine string `json:"updatedLine" yaml:"updated_line"`
}

// NewLineEdit builds an edit from a full line, measuring its leading spaces.
func NewLineEdit(line string) LineEdit {
	trimmed := strings.TrimLeft(line, " ")
	return LineEdit{
		Indentation: strconv.Itoa(len(line) - len(trimmed)),
		UpdatedLine: trimmed,
	}
}

// Validate checks the edit against the shape the collaborator must return.
func (e LineEdit) Validate() error {
	if e.Indentation == "" {
		return fmt.Errorf("%w: indentation is empty", ErrMalformedResponse)
	}
	for _, r := range e.Indentation {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: indentation %q is not a decimal number", ErrMalformedResponse, e.Indentation)
		}
	}
	width, err := strconv.Atoi(e.Indentation)
	if err != nil || width > maxIndentation {
		return fmt.Errorf("%w: indentation %q is out of range", ErrMalformedResponse, e.Indentation)
	}
	if strings.TrimSpace(e.UpdatedLine) == "" {
		return fmt.Errorf("%w: updated line is empty", ErrMalformedResponse)
	}
	if strings.TrimLeft(e.UpdatedLine, " \t") != e.UpdatedLine {
		return fmt.Errorf("%w: updated line has leading whitespace", ErrMalformedResponse)
	}
	if strings.Contains(e.UpdatedLine, lineSeparator) {
		return fmt.Errorf("%w: updated line spans several lines", ErrMalformedResponse)
	}
	return nil
}

// Render returns the full replacement line. Validate must have passed; an
// indentation it would reject renders without leading spaces.
func (e LineEdit) Render() string {
	width, err := strconv.Atoi(e.Indentation)
	if err != nil || width < 0 || width > maxIndentation {
		width = 0
	}
	return strings.Repeat(" ", width) + e.UpdatedLine
}
