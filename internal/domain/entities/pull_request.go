package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// PullRequestInput is re-exported from gitforge.
type PullRequestInput = gitforgeEntities.PullRequestInput

// PullRequest is re-exported from gitforge. It is the handle returned when a
// review request is created.
type PullRequest = gitforgeEntities.PullRequest
