package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubGenerator struct {
	script string
	emails Emails
	err    error
}

func (s stubGenerator) EventScript(context.Context, string, string) (string, error) {
	return s.script, s.err
}

func (s stubGenerator) ConfirmationEmails(context.Context, string, string, string) (Emails, error) {
	return s.emails, s.err
}

func TestWriterFallbacks(t *testing.T) {
	ctx := context.Background()
	want := FallbackEmails("Gala", "Naomi")
	assert.Equal(t, "New registration for Gala by Naomi. Please verify payment on Cash App.", want.AdminEmail)

	cases := map[string]*Writer{
		"nil writer":    nil,
		"no generator":  NewWriter(nil),
		"error":         NewWriter(stubGenerator{err: errors.New("unreachable")}),
		"empty answers": NewWriter(stubGenerator{script: "  ", emails: Emails{RegistrantEmail: "hi"}}),
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, FallbackScript, w.EventScript(ctx, "Gala", "An evening"))
			assert.Equal(t, want, w.ConfirmationEmails(ctx, "Gala", "Naomi", "Entry: VIP"))
		})
	}
}

func TestWriterPassesGeneratedText(t *testing.T) {
	emails := Emails{RegistrantEmail: "Welcome, Naomi!", AdminEmail: "Naomi registered."}
	w := NewWriter(stubGenerator{script: " Come and see. ", emails: emails})

	assert.Equal(t, "Come and see.", w.EventScript(context.Background(), "Gala", ""))
	assert.Equal(t, emails, w.ConfirmationEmails(context.Background(), "Gala", "Naomi", ""))
}

type fakeModels struct {
	text   string
	err    error
	model  string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestGeminiEmails(t *testing.T) {
	models := &fakeModels{text: `{"registrantEmail":"Shalom!","adminEmail":"New guest."}`}
	g := &Gemini{models: models, model: "test-model"}

	emails, err := g.ConfirmationEmails(context.Background(), "Gala", "Naomi", "Entry: VIP")
	require.NoError(t, err)
	assert.Equal(t, Emails{RegistrantEmail: "Shalom!", AdminEmail: "New guest."}, emails)
	assert.Equal(t, "test-model", models.model)
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
	assert.Equal(t, []string{"registrantEmail", "adminEmail"}, models.config.ResponseSchema.Required)
}

func TestGeminiMalformedEmailsFallBack(t *testing.T) {
	g := &Gemini{models: &fakeModels{text: "not json"}, model: DefaultModel}

	_, err := g.ConfirmationEmails(context.Background(), "Gala", "Naomi", "")
	require.Error(t, err)

	w := NewWriter(g)
	assert.Equal(t, FallbackEmails("Gala", "Naomi"), w.ConfirmationEmails(context.Background(), "Gala", "Naomi", ""))
}

func TestGeminiScript(t *testing.T) {
	g := &Gemini{models: &fakeModels{text: "Iron sharpens iron."}, model: DefaultModel}
	script, err := g.EventScript(context.Background(), "Men's Breakfast", "Saturday morning")
	require.NoError(t, err)
	assert.Equal(t, "Iron sharpens iron.", script)

	g = &Gemini{models: &fakeModels{err: errors.New("quota")}, model: DefaultModel}
	assert.Equal(t, FallbackScript, NewWriter(g).EventScript(context.Background(), "x", "y"))
}
