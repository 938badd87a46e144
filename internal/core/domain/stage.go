package domain

// Stage represents one step of a multi-step image build.
// Instructions are opaque content blocks; the planner only fingerprints them.
type Stage struct {
	// Name identifies the stage within the build.
	Name string

	// Instructions is the ordered list of build instructions for this stage.
	Instructions []string

	// Inputs are the declared file inputs (paths relative to the build root,
	// glob patterns allowed) whose content feeds the stage fingerprint.
	Inputs []string

	// From names the stages this stage copies artifacts from.
	From []string
}
