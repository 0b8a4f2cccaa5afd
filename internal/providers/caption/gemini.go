package caption

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/gemini"
)

const captionSystemPrompt = "You are a social media copywriter for small businesses. " +
	"Write one short, punchy caption in the business's brand voice. " +
	"Respond strictly with JSON matching this schema: " +
	`{"caption":string,"hashtags":string[],"locale":string}`

// GeminiGenerator writes captions through the Gemini text model and falls
// back to the static generator when the call or the parse fails.
type GeminiGenerator struct {
	client   *gemini.Client
	fallback Generator
	logger   zerolog.Logger
}

func NewGeminiGenerator(client *gemini.Client, fallback Generator, logger zerolog.Logger) *GeminiGenerator {
	if fallback == nil {
		fallback = NewStaticGenerator()
	}
	return &GeminiGenerator{client: client, fallback: fallback, logger: logger}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	text, err := g.client.GenerateText(ctx, captionSystemPrompt, buildCaptionPrompt(req))
	if err != nil {
		g.logger.Warn().Err(err).Msg("caption: model call failed, using static fallback")
		return g.useFallback(ctx, req)
	}

	parsed, err := parseCaptionPayload(text)
	if err != nil {
		g.logger.Warn().Err(err).Msg("caption: unparseable model response, using static fallback")
		return g.useFallback(ctx, req)
	}
	if strings.TrimSpace(parsed.Caption) == "" {
		return g.useFallback(ctx, req)
	}

	locale := coalesce(parsed.Locale, req.Locale, "en")
	return &Result{
		Caption:  strings.TrimSpace(parsed.Caption),
		Hashtags: normalizeHashtags(parsed.Hashtags),
		Locale:   locale,
		Provider: geminiProviderName,
	}, nil
}

var _ Generator = (*GeminiGenerator)(nil)

func (g *GeminiGenerator) useFallback(ctx context.Context, req Request) (*Result, error) {
	res, err := g.fallback.Generate(ctx, req)
	if res != nil {
		res.Provider = staticProviderName
	}
	return res, err
}

func buildCaptionPrompt(req Request) string {
	sb := &strings.Builder{}
	if b := req.Business; b != nil {
		fmt.Fprintf(sb, "Business: %s.", b.Name)
		if b.Tagline != "" {
			fmt.Fprintf(sb, " Tagline: %s.", b.Tagline)
		}
		if b.BrandVoice != "" {
			fmt.Fprintf(sb, " Brand voice: %s.", b.BrandVoice)
		}
		if len(b.Offerings) > 0 {
			fmt.Fprintf(sb, " Offerings: %s.", strings.Join(b.Offerings, "; "))
		}
	}
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		fmt.Fprintf(sb, " Caption topic: %s.", topic)
	}
	if platform := strings.TrimSpace(req.Platform); platform != "" {
		fmt.Fprintf(sb, " Target platform: %s.", platform)
	}
	if tone := strings.TrimSpace(req.Tone); tone != "" {
		fmt.Fprintf(sb, " Tone: %s.", tone)
	}
	if locale := strings.TrimSpace(req.Locale); locale != "" {
		fmt.Fprintf(sb, " Use locale '%s' for language choices.", locale)
	}
	return sb.String()
}

type captionPayload struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	Locale   string   `json:"locale"`
}

func parseCaptionPayload(raw string) (captionPayload, error) {
	var zero captionPayload
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded captionPayload
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
