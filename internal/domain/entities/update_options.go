package entities

// UpdateOptions holds the runtime options of one dependency update.
type UpdateOptions struct {
	// TargetVersion forces the version to update to instead of the latest one.
	TargetVersion string
	DryRun        bool
	SkipPR        bool
	Token         string
}
