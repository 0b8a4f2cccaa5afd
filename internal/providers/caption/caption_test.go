package caption

import (
	"context"
	"strings"
	"testing"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
)

func testBusiness() *domain.Business {
	return &domain.Business{
		Name:      "Harbor Coffee Co",
		Tagline:   "Slow mornings, fast espresso",
		Offerings: []string{"Single-origin espresso", "Fresh pastries"},
	}
}

func TestStaticGeneratorUsesTopic(t *testing.T) {
	gen := NewStaticGenerator()
	res, err := gen.Generate(context.Background(), Request{
		Business: testBusiness(),
		Topic:    "weekend brunch special",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Caption == "" {
		t.Fatalf("caption is empty")
	}
	if !strings.Contains(res.Caption, "Harbor Coffee Co") {
		t.Errorf("caption %q missing business name", res.Caption)
	}
	if res.Provider != staticProviderName {
		t.Errorf("provider = %q, want static", res.Provider)
	}
	if res.Locale != "en" {
		t.Errorf("locale = %q, want en", res.Locale)
	}
}

func TestStaticGeneratorFallsBackToOffering(t *testing.T) {
	gen := NewStaticGenerator()
	res, err := gen.Generate(context.Background(), Request{Business: testBusiness()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.ToLower(res.Caption), "espresso") {
		t.Errorf("caption %q should mention the first offering", res.Caption)
	}
}

func TestStaticGeneratorNeverEmpty(t *testing.T) {
	gen := NewStaticGenerator()
	res, err := gen.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(res.Caption) == "" {
		t.Fatalf("caption is empty for zero request")
	}
}

func TestNormalizeHashtags(t *testing.T) {
	got := normalizeHashtags([]string{"#Fresh Pastries", "fresh pastries", "", "Espresso!", "espresso"})
	want := []string{"freshpastries", "espresso"}
	if len(got) != len(want) {
		t.Fatalf("hashtags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hashtags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseCaptionPayloadStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"caption\":\"Fresh pours daily.\",\"hashtags\":[\"coffee\"],\"locale\":\"en\"}\n```"
	parsed, err := parseCaptionPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Caption != "Fresh pours daily." {
		t.Errorf("caption = %q", parsed.Caption)
	}
	if len(parsed.Hashtags) != 1 || parsed.Hashtags[0] != "coffee" {
		t.Errorf("hashtags = %v", parsed.Hashtags)
	}
}

func TestParseCaptionPayloadSurroundingProse(t *testing.T) {
	raw := "Here you go!\n{\"caption\":\"Hello\",\"hashtags\":[],\"locale\":\"en\"}\nEnjoy."
	parsed, err := parseCaptionPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Caption != "Hello" {
		t.Errorf("caption = %q", parsed.Caption)
	}
}

func TestParseCaptionPayloadRejectsGarbage(t *testing.T) {
	if _, err := parseCaptionPayload("sorry, I cannot help with that"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := parseCaptionPayload(""); err == nil {
		t.Fatalf("expected parse error for empty input")
	}
}
