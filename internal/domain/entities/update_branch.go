package entities

import "strings"

const (
	branchPrefix = "update-"
	lockSuffix   = ".lock"
)

// BranchState is where an update branch currently exists.
type BranchState string

const (
	BranchAbsent         BranchState = "absent"
	BranchLocalOnly      BranchState = "local-only"
	BranchLocalAndRemote BranchState = "local-and-remote"
	BranchRemoteOnly     BranchState = "remote-only"
)

// NewBranchState folds the two existence checks into one state.
func NewBranchState(local, remote bool) BranchState {
	switch {
	case local && remote:
		return BranchLocalAndRemote
	case local:
		return BranchLocalOnly
	case remote:
		return BranchRemoteOnly
	default:
		return BranchAbsent
	}
}

// refReplacer maps sequences git refuses in branch names to "-".
var refReplacer = strings.NewReplacer( //nolint:gochecknoglobals // immutable lookup table
	" ", "-", "~", "-", "^", "-", ":", "-", "?", "-", "*", "-", "[", "-", "\\", "-", "..", "-", "@{", "-",
)

// UpdateBranchName is the deduplication key of an update: the same image and
// version always map to the same branch. The result passes git
// check-ref-format: no component starts or ends with "." or ends with
// ".lock", and empty components are dropped.
func UpdateBranchName(image, version string) string {
	name := strings.Map(func(r rune) rune {
		if r < ' ' || r == 0x7f {
			return '-'
		}
		return r
	}, refReplacer.Replace(branchPrefix+image+"-"+version))

	components := strings.Split(name, "/")
	kept := components[:0]
	for _, component := range components {
		component = strings.Trim(component, ".")
		if strings.HasSuffix(component, lockSuffix) {
			component = strings.TrimSuffix(component, lockSuffix) + "-lock"
		}
		if component != "" {
			kept = append(kept, component)
		}
	}
	return strings.Join(kept, "/")
}
