package domain

import "time"

// AssetKind enumerates asset types.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
)

// Asset is a stored generation artifact. Rows are written once on job
// completion and never mutated.
type Asset struct {
	ID          string
	BusinessID  string
	Kind        AssetKind
	Content     string // public URL of the stored object
	Prompt      string
	AspectRatio string
	StylePreset string
	StyleID     string
	SubjectID   string
	ModelTier   ModelTier
	CreatedAt   time.Time
}
