package image

import (
	"context"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/gemini"
)

// GeminiGenerator produces images through the Gemini client, selecting the
// model by requested tier.
type GeminiGenerator struct {
	client *gemini.Client
}

func NewGeminiGenerator(client *gemini.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	refs := make([]gemini.Reference, 0, len(req.References))
	for _, ref := range req.References {
		refs = append(refs, gemini.Reference{Data: ref.Data, MIMEType: ref.MIMEType})
	}

	model := g.client.ImageModel()
	if req.Tier == domain.ModelTierPremium {
		model = g.client.ImageModelPro()
	}

	result, err := g.client.GenerateImage(ctx, gemini.ImageRequest{
		Model:       model,
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		References:  refs,
	})
	if err != nil {
		return nil, err
	}
	return &Asset{Data: result.Data, Format: result.MIMEType}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
