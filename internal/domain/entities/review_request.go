package entities

// ReviewState is the lifecycle state of a hosted pull/merge request.
type ReviewState string

const (
	ReviewNone   ReviewState = "none"
	ReviewOpen   ReviewState = "open"
	ReviewMerged ReviewState = "merged"
	ReviewClosed ReviewState = "closed"
)

// BlocksNewRequest reports whether a request in this state prevents another
// one for the same branch. A request closed without merging does not block,
// so a rejected update can be proposed again.
func (s ReviewState) BlocksNewRequest() bool {
	return s == ReviewOpen || s == ReviewMerged
}

// AnyBlocking reports whether one of the states blocks a new request.
func AnyBlocking(states []ReviewState) bool {
	for _, s := range states {
		if s.BlocksNewRequest() {
			return true
		}
	}
	return false
}

// ReviewRequest is the content of a request about to be opened.
type ReviewRequest struct {
	Branch string
	Title  string
	Body   string
}
