package entities

// Export unexported functions for testing.
//
//nolint:gochecknoglobals // test export
var (
	ResolveToken  = resolveToken
	ApplyDefaults = applyDefaults
	Validate      = validate
)
