package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Override template tokens. An override is rendered by direct substitution;
// any `{{...}}` sequence outside this set passes through untouched.
const (
	TokenBusinessName   = "{{BUSINESS_NAME}}"
	TokenTagline        = "{{TAGLINE}}"
	TokenBrandVoice     = "{{BRAND_VOICE}}"
	TokenBrandColors    = "{{BRAND_COLORS}}"
	TokenOfferings      = "{{OFFERINGS}}"
	TokenHours          = "{{HOURS}}"
	TokenContact        = "{{CONTACT}}"
	TokenVisualRequest  = "{{VISUAL_REQUEST}}"
	TokenStrategy       = "{{STRATEGY}}"
	TokenPromotion      = "{{PROMOTION}}"
	TokenBenefits       = "{{BENEFITS}}"
	TokenTargetAudience = "{{TARGET_AUDIENCE}}"
	TokenStylePreset    = "{{STYLE_PRESET}}"
	TokenCompliance     = "{{COMPLIANCE}}"
	TokenAspectRatio    = "{{ASPECT_RATIO}}"
	TokenTicketID       = "{{TICKET_ID}}"
	TokenSubjectName    = "{{SUBJECT_NAME}}"
	TokenSubjectContext = "{{SUBJECT_CONTEXT}}"
)

var requiredTokens = []string{TokenBusinessName, TokenVisualRequest}

// ErrTemplateInvalid marks an override that cannot replace the built-in
// builder.
var ErrTemplateInvalid = errors.New("prompt template invalid")

// ValidateTemplate checks an override before it is used. A usable override
// must reference the business name and the visual request; otherwise the
// rendered prompt would ignore what the user asked for.
func ValidateTemplate(body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return fmt.Errorf("%w: empty body", ErrTemplateInvalid)
	}
	for _, tok := range requiredTokens {
		if !strings.Contains(trimmed, tok) {
			return fmt.Errorf("%w: missing %s", ErrTemplateInvalid, tok)
		}
	}
	return nil
}

// RenderOverride substitutes the known tokens into body. Unknown tokens stay
// literal so a typoed token is visible in the output instead of silently
// vanishing.
func RenderOverride(body string, in TicketInput) string {
	vals := tokenValues(in)
	pairs := make([]string, 0, len(vals)*2)
	for tok, v := range vals {
		pairs = append(pairs, tok, v)
	}
	return strings.NewReplacer(pairs...).Replace(strings.TrimSpace(body))
}

func tokenValues(in TicketInput) map[string]string {
	b := in.Business
	subjectName := ""
	if in.Subject != nil {
		subjectName = in.Subject.Name
	}
	return map[string]string{
		TokenBusinessName:   b.Name,
		TokenTagline:        strings.TrimSpace(b.Tagline),
		TokenBrandVoice:     strings.TrimSpace(b.BrandVoice),
		TokenBrandColors:    formatColors(b.Colors),
		TokenOfferings:      strings.Join(b.Offerings, "; "),
		TokenHours:          strings.Join(b.Hours, "; "),
		TokenContact:        formatContact(b.Contact),
		TokenVisualRequest:  strings.TrimSpace(in.Request),
		TokenStrategy:       strings.TrimSpace(in.Strategy),
		TokenPromotion:      strings.TrimSpace(in.Context.Promotion),
		TokenBenefits:       strings.TrimSpace(in.Context.Benefits),
		TokenTargetAudience: strings.TrimSpace(in.Context.TargetAudience),
		TokenStylePreset:    stylePreset(in),
		TokenCompliance:     strings.TrimSpace(b.Compliance),
		TokenAspectRatio:    in.AspectRatio,
		TokenTicketID:       TicketID(in.IssuedAt),
		TokenSubjectName:    subjectName,
		TokenSubjectContext: subjectContext(in),
	}
}
