package prompt

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
)

// Engine renders the model prompt for a job. A stored override wins when it
// validates; anything else falls back to the built-in builder.
type Engine struct {
	Templates domain.TemplateRepository
	Logger    zerolog.Logger
}

func NewEngine(templates domain.TemplateRepository, logger zerolog.Logger) *Engine {
	return &Engine{Templates: templates, Logger: logger}
}

// Render returns the final prompt string for the given input.
func (e *Engine) Render(ctx context.Context, in TicketInput) string {
	if e.Templates != nil {
		body, err := e.Templates.Get(ctx, in.Business.ID)
		switch {
		case err == nil:
			if verr := ValidateTemplate(body); verr == nil {
				return RenderOverride(body, in)
			} else {
				e.Logger.Warn().
					Err(verr).
					Str("business_id", in.Business.ID).
					Msg("ignoring unusable prompt template override")
			}
		case !errors.Is(err, domain.ErrNotFound):
			e.Logger.Warn().
				Err(err).
				Str("business_id", in.Business.ID).
				Msg("prompt template lookup failed, using built-in builder")
		}
	}
	return BuildTicket(in)
}
