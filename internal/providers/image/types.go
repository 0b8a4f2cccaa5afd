package image

import (
	"context"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
)

// Reference is one conditioning image passed alongside the prompt.
type Reference struct {
	Data     []byte
	MIMEType string
}

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt      string
	AspectRatio string
	Tier        domain.ModelTier
	References  []Reference
	RequestID   string
}

// Asset represents a generated image.
type Asset struct {
	Data   []byte
	Format string
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}
