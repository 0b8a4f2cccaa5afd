package domain

import "time"

// BrandColors holds the palette applied to generated creative.
type BrandColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

// BusinessContact carries the reachable surfaces printed on ads.
type BusinessContact struct {
	Phone   string            `json:"phone,omitempty"`
	Website string            `json:"website,omitempty"`
	Handles map[string]string `json:"handles,omitempty"`
}

// Subject is a recurring person or product the business features in its creative.
type Subject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Context  string `json:"context,omitempty"`
}

// Style is a reusable visual direction, optionally backed by reference imagery.
type Style struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ReferenceImages []string `json:"referenceImages,omitempty"`
	Preset          string   `json:"preset,omitempty"`
	Active          bool     `json:"active"`
}

// Business is the flat brand aggregate that feeds prompt assembly.
// Subjects and styles live inside the aggregate; they are resolved in Go,
// not joined in SQL.
type Business struct {
	ID               string
	OwnerID          string
	Name             string
	Tagline          string
	BrandVoice       string
	Colors           BrandColors
	Offerings        []string
	Hours            []string
	Contact          BusinessContact
	LogoURL          string
	Compliance       string
	Subjects         []Subject
	Styles           []Style
	SocialLocationID string

	// CreditBalance mirrors the ledger sum. It is maintained by the credit
	// queries and read-only everywhere else.
	CreditBalance int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubjectByID returns the subject with the given id.
func (b *Business) SubjectByID(id string) (Subject, bool) {
	for _, s := range b.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// StyleByID returns the style with the given id.
func (b *Business) StyleByID(id string) (Style, bool) {
	for _, s := range b.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}
