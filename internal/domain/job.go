package domain

import "time"

// JobStatus enumerates generation job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobStage enumerates transient progress markers written while a job is
// processing. Stages are informational only; terminal rows carry none.
type JobStage string

const (
	JobStageBuildingPrompt     JobStage = "building_prompt"
	JobStageFetchingReferences JobStage = "fetching_references"
	JobStageCallingModel       JobStage = "calling_model"
	JobStageUploadingResult    JobStage = "uploading_result"
)

// ModelTier selects the image model class and its credit cost.
type ModelTier string

const (
	ModelTierStandard ModelTier = "standard"
	ModelTierPremium  ModelTier = "premium"
)

// CreditCost returns the ledger debit for one generation at this tier.
func (t ModelTier) CreditCost() int {
	if t == ModelTierPremium {
		return 4
	}
	return 1
}

// GenerationContext carries the optional marketing inputs of a request.
// It is stored alongside the job as a JSON document so the worker can
// rebuild the full creative brief without re-reading the request.
type GenerationContext struct {
	SubjectContext   string `json:"subjectContext,omitempty"`
	StylePreset      string `json:"stylePreset,omitempty"`
	Promotion        string `json:"promotion,omitempty"`
	Benefits         string `json:"benefits,omitempty"`
	TargetAudience   string `json:"targetAudience,omitempty"`
	PreserveLikeness bool   `json:"preserveLikeness,omitempty"`
}

// GenerationJob tracks one ad-image render from enqueue to stored asset.
// Prompt holds the raw visual request as submitted; the assembled model
// prompt is built by the worker.
type GenerationJob struct {
	ID            string
	BusinessID    string
	Status        JobStatus
	Stage         JobStage
	Prompt        string
	AspectRatio   string
	StyleID       string
	SubjectID     string
	ModelTier     ModelTier
	Strategy      string
	Context       GenerationContext
	ResultAssetID string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
