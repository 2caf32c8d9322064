package entities

// ImageOutcome is the terminal result of one image in a pass.
type ImageOutcome struct {
	Image        TrackedImage
	Branch       string
	BranchReused bool
	Request      *PullRequest
	Err          error
}

// PassReport collects the outcomes of one pass, in processing order.
type PassReport struct {
	Outcomes []ImageOutcome
}

// Add records an outcome.
func (r *PassReport) Add(outcome ImageOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// CountByState returns how many images ended in each state.
func (r *PassReport) CountByState() map[ImageState]int {
	counts := make(map[ImageState]int)
	for _, o := range r.Outcomes {
		counts[o.Image.State]++
	}
	return counts
}

// Published returns the requests opened during the pass.
func (r *PassReport) Published() []PullRequest {
	var prs []PullRequest
	for _, o := range r.Outcomes {
		if o.Request != nil {
			prs = append(prs, *o.Request)
		}
	}
	return prs
}

// Failures returns the number of images that ended in the failed state.
func (r *PassReport) Failures() int {
	return r.CountByState()[StateFailed]
}
