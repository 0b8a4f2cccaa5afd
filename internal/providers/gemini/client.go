// Package gemini wraps the google.golang.org/genai SDK with the small
// surface the rest of the system needs: one multimodal image call and one
// text call.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// ErrNoImage is recorded verbatim on jobs whose model response carried no
// image part, so the wording is part of the status API contract.
var ErrNoImage = errors.New("No image in response")

// Options configures the Gemini client.
type Options struct {
	APIKey        string
	ImageModel    string
	ImageModelPro string
	TextModel     string
	Logger        *infra.Logger
}

// Client performs calls against the Gemini API through the official SDK.
type Client struct {
	sdk           *genai.Client
	imageModel    string
	imageModelPro string
	textModel     string
	logger        *infra.Logger
}

// Reference is one conditioning image sent alongside the prompt.
type Reference struct {
	Data     []byte
	MIMEType string
}

// ImageRequest captures the inputs for a single image generation call.
type ImageRequest struct {
	Model       string
	Prompt      string
	AspectRatio string
	References  []Reference
}

// ImageResult is the first image part extracted from the model response.
type ImageResult struct {
	Data     []byte
	MIMEType string
}

// NewClient constructs a client with sane model defaults and injected
// dependencies.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	imageModelPro := strings.TrimSpace(opts.ImageModelPro)
	if imageModelPro == "" {
		imageModelPro = imageModel
	}
	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		sdk:           sdk,
		imageModel:    imageModel,
		imageModelPro: imageModelPro,
		textModel:     textModel,
		logger:        logger,
	}, nil
}

// ImageModel returns the standard-tier image model identifier.
func (c *Client) ImageModel() string {
	return c.imageModel
}

// ImageModelPro returns the premium-tier image model identifier.
func (c *Client) ImageModelPro() string {
	return c.imageModelPro
}

// TextModel returns the text model identifier.
func (c *Client) TextModel() string {
	return c.textModel
}

// GenerateImage invokes the model once and returns the first image part of
// the response. References precede the prompt text so the model treats them
// as conditioning input.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("gemini: prompt is required")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.imageModel
	}

	parts := make([]*genai.Part, 0, len(req.References)+1)
	for _, ref := range req.References {
		if len(ref.Data) == 0 {
			continue
		}
		mime := ref.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: mime, Data: ref.Data},
		})
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	config := &genai.GenerateContentConfig{}
	if aspect := strings.TrimSpace(req.AspectRatio); aspect != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: aspect}
	}

	result, err := c.sdk.Models.GenerateContent(ctx, model, []*genai.Content{{Role: "user", Parts: parts}}, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				c.logger.Debug().
					Str("model", model).
					Int("bytes", len(part.InlineData.Data)).
					Msg("gemini: received image part")
				return &ImageResult{Data: part.InlineData.Data, MIMEType: mime}, nil
			}
		}
	}
	return nil, ErrNoImage
}

// GenerateText invokes the text model once and returns the concatenated text
// response.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("gemini: prompt is required")
	}

	var config *genai.GenerateContentConfig
	if sys := strings.TrimSpace(system); sys != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: sys}},
			},
		}
	}

	resp, err := c.sdk.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
