// Package prompt assembles the creative brief sent to the image model. The
// built-in builder produces a four-section job ticket; businesses can carry
// a stored override template rendered by token substitution instead.
package prompt

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
)

// TicketInput carries everything the builder needs. IssuedAt feeds the
// ticket id, so rendering is reproducible for a fixed input.
type TicketInput struct {
	Business    *domain.Business
	Request     string
	AspectRatio string
	Strategy    string
	Subject     *domain.Subject
	Style       *domain.Style
	Context     domain.GenerationContext
	IssuedAt    time.Time
}

// TicketID derives the ticket reference embedded in the mission header.
func TicketID(issuedAt time.Time) string {
	return "ADX-" + strconv.FormatInt(issuedAt.UnixMilli(), 10)
}

// BuildTicket renders the built-in job ticket. Optional inputs that are
// absent omit their lines entirely; nothing emits an empty placeholder.
func BuildTicket(in TicketInput) string {
	sections := []string{
		missionSection(in),
		factsSection(in),
		gapsSection(),
		visualSection(in),
	}
	return strings.Join(sections, "\n\n")
}

func missionSection(in TicketInput) string {
	return "CREATIVE JOB TICKET " + TicketID(in.IssuedAt) + "\n" +
		"You are the lead creative for a small-business ad studio. Produce one finished, " +
		"ready-to-post advertisement image for the business described below."
}

func factsSection(in TicketInput) string {
	b := in.Business
	lines := []string{
		"== SOURCE FACTS (use these verbatim, do not invent facts) ==",
		"Business: " + b.Name,
	}
	if t := strings.TrimSpace(b.Tagline); t != "" {
		lines = append(lines, "Tagline: "+t)
	}
	if v := strings.TrimSpace(b.BrandVoice); v != "" {
		lines = append(lines, "Brand voice: "+v)
	}
	if c := formatColors(b.Colors); c != "" {
		lines = append(lines, "Brand colors: "+c)
	}
	if len(b.Offerings) > 0 {
		lines = append(lines, "Offerings: "+strings.Join(b.Offerings, "; "))
	}
	if len(b.Hours) > 0 {
		lines = append(lines, "Hours: "+strings.Join(b.Hours, "; "))
	}
	if c := formatContact(b.Contact); c != "" {
		lines = append(lines, "Contact: "+c)
	}
	lines = append(lines, "Visual request: "+strings.TrimSpace(in.Request))
	if s := strings.TrimSpace(in.Strategy); s != "" {
		lines = append(lines, "Campaign strategy: "+s)
	}
	if p := strings.TrimSpace(in.Context.Promotion); p != "" {
		lines = append(lines, "Promotion: "+p)
	}
	if bn := strings.TrimSpace(in.Context.Benefits); bn != "" {
		lines = append(lines, "Key benefits: "+bn)
	}
	if a := strings.TrimSpace(in.Context.TargetAudience); a != "" {
		lines = append(lines, "Target audience: "+a)
	}
	return strings.Join(lines, "\n")
}

func gapsSection() string {
	return "== CREATIVE GAPS (invent these) ==\n" +
		"Write the ad copy yourself: a punchy headline, a short sub-header, one line of " +
		"body copy, and a clear call to action. Match the brand voice and spell every word correctly."
}

func visualSection(in TicketInput) string {
	lines := []string{"== VISUAL EXECUTION =="}
	if in.Subject != nil {
		line := "Feature the subject \"" + in.Subject.Name + "\" from the attached reference photo"
		if in.Context.PreserveLikeness {
			line += ", preserving their exact likeness"
		}
		line += "."
		if c := subjectContext(in); c != "" {
			line += " Subject context: " + c + "."
		}
		lines = append(lines, line)
	}
	if strings.TrimSpace(in.Business.LogoURL) != "" {
		lines = append(lines, "Place the business logo from the attached logo image in a corner, small and legible.")
	}
	if in.Style != nil && len(in.Style.ReferenceImages) > 0 {
		lines = append(lines, "Match the mood, palette, and composition of the attached style references.")
	}
	if p := stylePreset(in); p != "" {
		lines = append(lines, "Style preset: "+p+".")
	}
	if c := strings.TrimSpace(in.Business.Compliance); c != "" {
		lines = append(lines, "Include this compliance line verbatim in small print: \""+c+"\"")
	}
	lines = append(lines, "Lighting: clean commercial lighting with soft, natural shadows.")
	lines = append(lines, "Compose for a "+in.AspectRatio+" aspect ratio.")
	return strings.Join(lines, "\n")
}

// subjectContext prefers the per-request note over the stored subject note.
func subjectContext(in TicketInput) string {
	if c := strings.TrimSpace(in.Context.SubjectContext); c != "" {
		return c
	}
	if in.Subject != nil {
		return strings.TrimSpace(in.Subject.Context)
	}
	return ""
}

// stylePreset prefers the per-request preset over the stored style preset.
func stylePreset(in TicketInput) string {
	if p := strings.TrimSpace(in.Context.StylePreset); p != "" {
		return p
	}
	if in.Style != nil {
		return strings.TrimSpace(in.Style.Preset)
	}
	return ""
}

func formatColors(c domain.BrandColors) string {
	parts := []string{}
	if v := strings.TrimSpace(c.Primary); v != "" {
		parts = append(parts, "primary "+v)
	}
	if v := strings.TrimSpace(c.Secondary); v != "" {
		parts = append(parts, "secondary "+v)
	}
	if v := strings.TrimSpace(c.Accent); v != "" {
		parts = append(parts, "accent "+v)
	}
	return strings.Join(parts, ", ")
}

// formatContact renders contact surfaces with handles in stable key order.
func formatContact(c domain.BusinessContact) string {
	parts := []string{}
	if v := strings.TrimSpace(c.Phone); v != "" {
		parts = append(parts, "phone "+v)
	}
	if v := strings.TrimSpace(c.Website); v != "" {
		parts = append(parts, "website "+v)
	}
	keys := make([]string, 0, len(c.Handles))
	for k := range c.Handles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := strings.TrimSpace(c.Handles[k]); v != "" {
			parts = append(parts, k+" "+v)
		}
	}
	return strings.Join(parts, ", ")
}
