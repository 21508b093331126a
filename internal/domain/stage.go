package domain

// Stage names one step of the survey
type Stage string

const (
	StageOffice       Stage = "office"
	StageCuisine      Stage = "cuisine"
	StageRestrictions Stage = "restrictions"
	StageBudget       Stage = "budget"
	StageWalkTime     Stage = "walk_time"

	// StageFinish leaves the button stages and opens the free-form sub-dialog
	StageFinish           Stage = "finish"
	StageFreeformPositive Stage = "freeform_positive"
	StageFreeformNegative Stage = "freeform_negative"
)

// SelectionKind tells whether a question accepts one or many answers
type SelectionKind string

const (
	SelectionSingle SelectionKind = "single"
	SelectionMulti  SelectionKind = "multi"
)

// FreeformKind selects one of the two open-text categories
type FreeformKind string

const (
	FreeformPositive FreeformKind = "positive"
	FreeformNegative FreeformKind = "negative"
)
