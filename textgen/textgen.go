// Package textgen produces the promotional and confirmation texts of a
// registration. Generation is an enhancement: every failure degrades to
// fixed wording and is never surfaced to a guest.
package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbolis/grace-register/log"
)

const FallbackScript = "Gather together in faith and purpose. Join us for this special occasion as we grow together in fellowship and spiritual strength."

const fallbackRegistrantEmail = "Thank you for registering! We are blessed to have you join us. Stay tuned for further details."

// Emails is the pair of confirmation messages sent after a registration.
type Emails struct {
	RegistrantEmail string `json:"registrantEmail"`
	AdminEmail      string `json:"adminEmail"`
}

// FallbackEmails is the fixed pair used when generation is unavailable.
func FallbackEmails(title, registrant string) Emails {
	return Emails{
		RegistrantEmail: fallbackRegistrantEmail,
		AdminEmail:      fmt.Sprintf("New registration for %s by %s. Please verify payment on Cash App.", title, registrant),
	}
}

type Generator interface {
	EventScript(ctx context.Context, title, description string) (string, error)
	ConfirmationEmails(ctx context.Context, title, registrant, details string) (Emails, error)
}

// Writer hands out generated text, or the fallback wording whenever the
// generator is missing, fails or answers with nothing usable. It never
// retries.
type Writer struct {
	gen Generator
}

// NewWriter wraps gen; a nil gen always yields the fallbacks.
func NewWriter(gen Generator) *Writer {
	return &Writer{gen: gen}
}

func (w *Writer) EventScript(ctx context.Context, title, description string) string {
	if w == nil || w.gen == nil {
		return FallbackScript
	}

	script, err := w.gen.EventScript(ctx, title, description)
	if err != nil {
		log.Warnf("textgen.script: %s", err)
		return FallbackScript
	}
	if script = strings.TrimSpace(script); script == "" {
		return FallbackScript
	}
	return script
}

func (w *Writer) ConfirmationEmails(ctx context.Context, title, registrant, details string) Emails {
	fallback := FallbackEmails(title, registrant)
	if w == nil || w.gen == nil {
		return fallback
	}

	emails, err := w.gen.ConfirmationEmails(ctx, title, registrant, details)
	if err != nil {
		log.Warnf("textgen.emails: %s", err)
		return fallback
	}
	if strings.TrimSpace(emails.RegistrantEmail) == "" || strings.TrimSpace(emails.AdminEmail) == "" {
		log.Warn("textgen.emails: incomplete answer")
		return fallback
	}
	return emails
}
