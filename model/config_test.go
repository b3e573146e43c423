package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfigID, cfg.ID)
	assert.Len(t, cfg.Fields, 2)
	for _, f := range cfg.Fields {
		assert.True(t, f.Required, f.Label)
	}
	assert.Empty(t, cfg.PublishProblems())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		ID:       "e1",
		Template: "neon",
		PriceOptions: []PriceOption{
			{ID: "a", Label: "Adult", Price: 10},
			{ID: "a", Label: "Child", Price: -1},
		},
		Fields: []FormField{
			{ID: "1", Label: "Name", Type: FieldText},
			{ID: "1", Label: "Shirt", Type: FieldSelect},
			{ID: "3", Label: "Color", Type: "colour"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown template "neon"`)
	assert.Contains(t, msg, `duplicate price option id "a"`)
	assert.Contains(t, msg, `price option "a": price must not be negative`)
	assert.Contains(t, msg, `duplicate field id "1"`)
	assert.Contains(t, msg, `field "1": select needs options`)
	assert.Contains(t, msg, `field "3": unknown type "colour"`)
}

func TestEmptyConfigIsValid(t *testing.T) {
	assert.NoError(t, Config{ID: "bare"}.Validate())
}

func TestPublishProblems(t *testing.T) {
	cfg := NewConfig("x")
	assert.Equal(t, []string{"Event title is required.", "Cash App $Tag is required."}, cfg.PublishProblems())

	cfg.Title = "Spring Retreat"
	cfg.CashAppTag = "$church"
	assert.Empty(t, cfg.PublishProblems())
}

func TestEntryPrice(t *testing.T) {
	flat := Config{Price: 15}
	label, amount, err := flat.EntryPrice("")
	require.NoError(t, err)
	assert.Equal(t, "", label)
	assert.Equal(t, 15.0, amount)

	_, _, err = flat.EntryPrice("vip")
	assert.True(t, errors.Is(err, ErrUnknownEntry))

	tiered := Config{
		Price: 15,
		PriceOptions: []PriceOption{
			{ID: "adult", Label: "Adult", Price: 25},
			{ID: "child", Label: "Child", Price: 12.5},
		},
	}
	label, amount, err = tiered.EntryPrice("")
	require.NoError(t, err)
	assert.Equal(t, "Adult", label)
	assert.Equal(t, 25.0, amount)

	label, amount, err = tiered.EntryPrice("child")
	require.NoError(t, err)
	assert.Equal(t, "Child", label)
	assert.Equal(t, 12.5, amount)

	_, _, err = tiered.EntryPrice("senior")
	assert.True(t, errors.Is(err, ErrUnknownEntry))
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := DefaultConfig()
	orig.Fields[0].Options = []string{"a"}
	cp := orig.Clone()

	cp.Fields[0].Label = "changed"
	cp.Fields[0].Options[0] = "b"
	cp.FoodOptions = append(cp.FoodOptions, "Soup")

	assert.Equal(t, "Full Name", orig.Fields[0].Label)
	assert.Equal(t, "a", orig.Fields[0].Options[0])
	assert.Empty(t, orig.FoodOptions)
}

func TestNewIDIsUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
