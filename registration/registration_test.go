package registration

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/grace-register/kv"
	"github.com/mbolis/grace-register/model"
	"github.com/mbolis/grace-register/store"
	"github.com/mbolis/grace-register/textgen"
)

// recordingGenerator checks the submission is already stored when the
// emails are requested.
type recordingGenerator struct {
	t           *testing.T
	submissions *store.SubmissionStore
	configID    string
	details     string
	registrant  string
	err         error
}

func (g *recordingGenerator) EventScript(context.Context, string, string) (string, error) {
	return "", errors.New("unused")
}

func (g *recordingGenerator) ConfirmationEmails(_ context.Context, _, registrant, details string) (textgen.Emails, error) {
	stored, err := g.submissions.ListByConfig(g.configID)
	require.NoError(g.t, err)
	assert.Len(g.t, stored, 1, "submission must be stored before generation")

	g.registrant = registrant
	g.details = details
	if g.err != nil {
		return textgen.Emails{}, g.err
	}
	return textgen.Emails{RegistrantEmail: "Welcome " + registrant, AdminEmail: "New: " + registrant}, nil
}

func retreat() model.Config {
	return model.Config{
		ID:    "retreat",
		Title: "Spring Retreat",
		Price: 40,
		PriceOptions: []model.PriceOption{
			{ID: "adult", Label: "Adult", Price: 35},
			{ID: "child", Label: "Child", Price: 15.5},
		},
		FoodOptions:      []string{"Chicken", "Vegetarian"},
		IncludeAllergies: true,
		CashAppTag:       "$GraceChurch",
		Template:         model.TemplateModernEvent,
		Fields: []model.FormField{
			{ID: "1", Label: "Your Name", Type: model.FieldText, Required: true},
			{ID: "2", Label: "Email Address", Type: model.FieldEmail, Required: true},
			{ID: "3", Label: "I agree to the code of conduct", Type: model.FieldCheckbox, Required: true},
			{ID: "4", Label: "Church", Type: model.FieldText},
		},
	}
}

func newService(t *testing.T, genErr error) (*Service, *recordingGenerator, *store.SubmissionStore) {
	t.Helper()
	subs := store.NewSubmissionStore(kv.NewMemory(0))
	gen := &recordingGenerator{t: t, submissions: subs, configID: "retreat", err: genErr}
	svc := NewService(subs, textgen.NewWriter(gen))
	svc.Now = func() time.Time { return time.UnixMilli(1760500000000) }
	return svc, gen, subs
}

func TestSubmit(t *testing.T) {
	svc, gen, subs := newService(t, nil)

	receipt, err := svc.Submit(context.Background(), retreat(), Input{
		Data: map[string]any{
			"Your Name":                      "Lydia",
			"Email Address":                  "lydia@example.org",
			"I agree to the code of conduct": true,
		},
		EntryID:   "child",
		Food:      "Vegetarian",
		Allergies: " peanuts ",
	})
	require.NoError(t, err)

	sub := receipt.Submission
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "retreat", sub.ConfigID)
	assert.Equal(t, "Child", sub.SelectedEntryType)
	assert.Equal(t, "Vegetarian", sub.SelectedFood)
	assert.Equal(t, "peanuts", sub.Allergies)
	assert.Equal(t, 15.5, sub.TotalPaid)
	assert.Equal(t, int64(1760500000000), sub.Timestamp)
	assert.False(t, sub.Paid)

	assert.Equal(t, "https://cash.app/$GraceChurch/15.5", receipt.PaymentURL)
	assert.Equal(t, "Welcome Lydia", receipt.Emails.RegistrantEmail)
	assert.Equal(t, "Lydia", gen.registrant)
	assert.Contains(t, gen.details, "Entry: Child, Food: Vegetarian, Allergies: peanuts, Total: $15.5. Form Data: {")

	stored, err := subs.ListByConfig("retreat")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, sub.ID, stored[0].ID)
}

func TestSubmitDefaultsToFirstTierAndFallbackText(t *testing.T) {
	svc, _, _ := newService(t, errors.New("generator offline"))

	receipt, err := svc.Submit(context.Background(), retreat(), Input{
		Data: map[string]any{
			"Your Name":                      "Silas",
			"Email Address":                  "silas@example.org",
			"I agree to the code of conduct": true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Adult", receipt.Submission.SelectedEntryType)
	assert.Equal(t, 35.0, receipt.Submission.TotalPaid)
	assert.Equal(t, textgen.FallbackEmails("Spring Retreat", "Silas"), receipt.Emails)
}

func TestSubmitFlatPrice(t *testing.T) {
	subs := store.NewSubmissionStore(kv.NewMemory(0))
	svc := NewService(subs, textgen.NewWriter(nil))

	cfg := model.Config{ID: "flat", Title: "Dinner", Price: 20, CashAppTag: "dinner"}
	receipt, err := svc.Submit(context.Background(), cfg, Input{Allergies: "shellfish"})
	require.NoError(t, err)

	assert.Equal(t, model.GeneralEntry, receipt.Submission.SelectedEntryType)
	assert.Equal(t, 20.0, receipt.Submission.TotalPaid)
	assert.Empty(t, receipt.Submission.Allergies, "allergies are dropped when the event does not ask for them")
	assert.Equal(t, "https://cash.app/$dinner/20", receipt.PaymentURL)
	assert.Equal(t, textgen.FallbackEmails("Dinner", "Guest"), receipt.Emails)
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	svc, _, subs := newService(t, nil)

	_, err := svc.Submit(context.Background(), retreat(), Input{
		Data: map[string]any{
			"Your Name":                      "  ",
			"I agree to the code of conduct": false,
		},
		EntryID: "vip",
		Food:    "Steak",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var invalid *InvalidError
	require.True(t, errors.As(err, &invalid))
	assert.Len(t, invalid.Messages(), 5)

	stored, err := subs.List()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSubmitStorageFailure(t *testing.T) {
	subs := store.NewSubmissionStore(kv.NewMemory(10))
	svc := NewService(subs, textgen.NewWriter(nil))

	_, err := svc.Submit(context.Background(), model.Config{ID: "x"}, Input{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrPersist))
	assert.True(t, errors.Is(err, kv.ErrQuotaExceeded))
}
