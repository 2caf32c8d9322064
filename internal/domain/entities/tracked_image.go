package entities

import (
	"sort"
	"strings"
)

// ImageState is the position of a tracked image in the update state machine.
type ImageState string

const (
	StateDiscovered       ImageState = "discovered"
	StateVersionResolved  ImageState = "version_resolved"
	StateUpToDate         ImageState = "up_to_date"
	StateUpdateBlocked    ImageState = "update_blocked"
	StateBranchPrepared   ImageState = "branch_prepared"
	StateManifestEdited   ImageState = "manifest_edited"
	StateCommitted        ImageState = "committed"
	StatePushed           ImageState = "pushed"
	StateRequestPublished ImageState = "request_published"
	StateFailed           ImageState = "failed"
)

// IsTerminal reports whether no further transition follows the state.
func (s ImageState) IsTerminal() bool {
	switch s {
	case StateUpToDate, StateUpdateBlocked, StateRequestPublished, StateFailed:
		return true
	default:
		return false
	}
}

// TrackedImage is a container image pinned in the manifest. It is built from
// the manifest on every pass and discarded afterwards.
type TrackedImage struct {
	Name           string // registry-qualified name, e.g. "org/name"
	CurrentVersion string // version as written in the manifest
	UpstreamURL    string // empty until resolved
	LatestVersion  string // empty until resolved
	State          ImageState
}

// NewTrackedImage returns an image in the Discovered state.
func NewTrackedImage(name, currentVersion string) TrackedImage {
	return TrackedImage{
		Name:           name,
		CurrentVersion: currentVersion,
		State:          StateDiscovered,
	}
}

// TrackedImagesFromVersions turns an image→version table into tracked images
// ordered by where each image is first declared in the manifest. Images the
// manifest never mentions go last, sorted by name.
func TrackedImagesFromVersions(manifest string, versions map[string]string) []TrackedImage {
	images := make([]TrackedImage, 0, len(versions))
	for name, version := range versions {
		images = append(images, NewTrackedImage(name, version))
	}

	position := func(name string) int {
		idx := strings.Index(manifest, DeclarationToken(name))
		if idx < 0 {
			return len(manifest)
		}
		return idx
	}

	sort.SliceStable(images, func(i, j int) bool {
		pi, pj := position(images[i].Name), position(images[j].Name)
		if pi != pj {
			return pi < pj
		}
		return images[i].Name < images[j].Name
	})
	return images
}
