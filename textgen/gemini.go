package textgen

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the part of genai.Models in use here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Generator on the Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "textgen.gemini.client")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: client.Models, model: model}, nil
}

func scriptPrompt(title, description string) string {
	return fmt.Sprintf(`Generate a podcast-style invitation script for an event called %q.

GUIDELINES:
1. BIBLICAL: Start with a concise, powerful spiritual truth or scripture reference that fits the event.
2. CONCISE: Keep the entire script under 80 words. No fluff.
3. PRACTICAL: Explicitly state what the attendee will gain or do.
4. INTERESTING: Use a warm, engaging podcast host persona.

Context: %s

Format: A single spoken paragraph that flows naturally and invites them in.`, title, description)
}

func emailsPrompt(title, registrant, details string) string {
	return fmt.Sprintf(`Generate two separate email bodies for the event %q.
Registrant: %q.
Details: %q.

REQUIREMENTS:
- Both emails must be biblical, concise, practical and interesting.
- Registrant email: a warm welcome, a short encouraging word and practical "what's next" info.
- Admin email: a practical summary for the director to process.

Return JSON: {"registrantEmail": "...", "adminEmail": "..."}.
Keep content under 100 words per email.`, title, registrant, details)
}

func noThinking() *genai.ThinkingConfig {
	return &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
}

func (g *Gemini) EventScript(ctx context.Context, title, description string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(scriptPrompt(title, description)), &genai.GenerateContentConfig{
		ThinkingConfig: noThinking(),
	})
	if err != nil {
		return "", errors.Wrap(err, "textgen.gemini.script")
	}
	return resp.Text(), nil
}

func (g *Gemini) ConfirmationEmails(ctx context.Context, title, registrant, details string) (Emails, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(emailsPrompt(title, registrant, details)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"registrantEmail": {
					Type:        genai.TypeString,
					Description: "The confirmation email content for the registrant.",
				},
				"adminEmail": {
					Type:        genai.TypeString,
					Description: "The notification email content for the administrator.",
				},
			},
			Required: []string{"registrantEmail", "adminEmail"},
		},
		ThinkingConfig: noThinking(),
	})
	if err != nil {
		return Emails{}, errors.Wrap(err, "textgen.gemini.emails")
	}

	var emails Emails
	if err = json.Unmarshal([]byte(resp.Text()), &emails); err != nil {
		return Emails{}, errors.Wrap(err, "textgen.gemini.emails.parse")
	}
	return emails, nil
}
