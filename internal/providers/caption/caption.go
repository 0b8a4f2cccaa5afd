// Package caption produces social media captions for a business, either
// through the Gemini text model or a deterministic static fallback.
package caption

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"

	maxHashtags = 8
)

// Request carries everything the generators need to write one caption.
type Request struct {
	Business *domain.Business
	Topic    string
	Platform string
	Tone     string
	Locale   string
}

// Result is one caption plus supporting metadata.
type Result struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	Locale   string   `json:"locale"`
	Provider string   `json:"-"`
}

// Generator is the contract implemented by all caption providers.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// StaticGenerator composes captions from the brand profile without any
// external call. It backs local and CI environments and is the fallback
// whenever the remote provider is unavailable.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := cases.Title(language.Und)

	name := "Your business"
	var offerings []string
	if req.Business != nil {
		if strings.TrimSpace(req.Business.Name) != "" {
			name = strings.TrimSpace(req.Business.Name)
		}
		offerings = req.Business.Offerings
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" && len(offerings) > 0 {
		topic = offerings[0]
	}

	var caption string
	if topic != "" {
		caption = fmt.Sprintf("%s at %s. Stop by and see for yourself!", c.String(topic), name)
	} else {
		caption = fmt.Sprintf("Something good is always happening at %s. Stop by and see for yourself!", name)
	}
	if tone := strings.TrimSpace(req.Tone); strings.EqualFold(tone, "urgent") {
		caption = fmt.Sprintf("Don't miss out: %s", caption)
	}

	tags := []string{hashtagify(name)}
	if topic != "" {
		tags = append(tags, hashtagify(topic))
	}
	for _, o := range offerings {
		tags = append(tags, hashtagify(o))
	}

	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = "en"
	}

	return &Result{
		Caption:  caption,
		Hashtags: normalizeHashtags(tags),
		Locale:   locale,
		Provider: staticProviderName,
	}, nil
}

var _ Generator = (*StaticGenerator)(nil)

func hashtagify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeHashtags(tags []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		tag = hashtagify(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
		if len(result) >= maxHashtags {
			break
		}
	}
	return result
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
