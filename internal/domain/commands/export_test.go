package commands

// ComposeReviewBody exports composeReviewBody for testing.
var ComposeReviewBody = composeReviewBody //nolint:gochecknoglobals // test export

// ReviewTitle exports reviewTitle for testing.
var ReviewTitle = reviewTitle //nolint:gochecknoglobals // test export

// ReleaseNotesPlaceholder exports releaseNotesPlaceholder for testing.
const ReleaseNotesPlaceholder = releaseNotesPlaceholder
