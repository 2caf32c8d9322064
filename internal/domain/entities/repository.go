package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge. Review requests are addressed by
// Organization (owner), Name and DefaultBranch (the base of every request).
type Repository = gitforgeEntities.Repository
