package model

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	DefaultConfigID  = "default-1"
	GeneralEntry     = "General Entry"
	untitledEvent    = "Untitled Event"
	newGatheringName = "New Gathering"
)

var ErrUnknownEntry = errors.New("unknown entry type")

// DefaultConfig is the event seeded into an empty profile.
func DefaultConfig() Config {
	return Config{
		ID:               DefaultConfigID,
		Title:            "Grace & Fellowship Gathering",
		Description:      "Join us for a meaningful time of worship and connection.",
		Price:            0,
		PriceOptions:     []PriceOption{},
		FoodOptions:      []string{},
		IncludeAllergies: true,
		CashAppTag:       "BNRMinistry",
		Template:         TemplateBiblicalSpiritual,
		Fields: []FormField{
			{ID: "1", Label: "Full Name", Type: FieldText, Required: true},
			{ID: "2", Label: "Email Address", Type: FieldEmail, Required: true},
		},
		BiblicalScript: "Iron sharpens iron, and one person sharpens another. Join our fellowship as we grow together in His grace.",
	}
}

// NewConfig returns the skeleton of a freshly created event.
func NewConfig(id string) Config {
	return Config{
		ID:           id,
		Title:        newGatheringName,
		PriceOptions: []PriceOption{},
		FoodOptions:  []string{},
		Template:     TemplateCorporate,
		Fields: []FormField{
			{ID: "1", Label: "Full Name", Type: FieldText, Required: true},
		},
	}
}

// Validate checks the structural invariants of a configuration. All
// problems are reported at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.ID) == "" {
		result = multierror.Append(result, errors.New("id is required"))
	}
	if c.Template != "" && !c.Template.Valid() {
		result = multierror.Append(result, fmt.Errorf("unknown template %q", c.Template))
	}
	if c.Price < 0 {
		result = multierror.Append(result, errors.New("price must not be negative"))
	}

	priceIDs := map[string]bool{}
	for _, opt := range c.PriceOptions {
		if priceIDs[opt.ID] {
			result = multierror.Append(result, fmt.Errorf("duplicate price option id %q", opt.ID))
		}
		priceIDs[opt.ID] = true
		if opt.Price < 0 {
			result = multierror.Append(result, fmt.Errorf("price option %q: price must not be negative", opt.ID))
		}
	}

	fieldIDs := map[string]bool{}
	for _, f := range c.Fields {
		if fieldIDs[f.ID] {
			result = multierror.Append(result, fmt.Errorf("duplicate field id %q", f.ID))
		}
		fieldIDs[f.ID] = true
		if !f.Type.Valid() {
			result = multierror.Append(result, fmt.Errorf("field %q: unknown type %q", f.ID, f.Type))
		}
		if f.Type == FieldSelect && len(f.Options) == 0 {
			result = multierror.Append(result, fmt.Errorf("field %q: select needs options", f.ID))
		}
	}

	return result.ErrorOrNil()
}

// PublishProblems lists what should be fixed before sharing the event.
// None of these block saving.
func (c Config) PublishProblems() []string {
	problems := []string{}
	title := strings.TrimSpace(c.Title)
	if title == "" || title == untitledEvent || title == newGatheringName {
		problems = append(problems, "Event title is required.")
	}
	if strings.TrimSpace(c.CashAppTag) == "" {
		problems = append(problems, "Cash App $Tag is required.")
	}
	return problems
}

// EntryPrice resolves the admission tier. Tiered prices supersede the
// flat price; an empty option id picks the first tier. The returned
// label is empty when the event has no tiers.
func (c Config) EntryPrice(optionID string) (label string, amount float64, err error) {
	if len(c.PriceOptions) == 0 {
		if optionID != "" {
			return "", 0, errors.Wrapf(ErrUnknownEntry, "%q", optionID)
		}
		return "", c.Price, nil
	}
	if optionID == "" {
		opt := c.PriceOptions[0]
		return opt.Label, opt.Price, nil
	}
	for _, opt := range c.PriceOptions {
		if opt.ID == optionID {
			return opt.Label, opt.Price, nil
		}
	}
	return "", 0, errors.Wrapf(ErrUnknownEntry, "%q", optionID)
}

// Clone returns a deep copy, so callers can't alias a stored record.
func (c Config) Clone() Config {
	out := c
	if c.PriceOptions != nil {
		out.PriceOptions = append([]PriceOption{}, c.PriceOptions...)
	}
	if c.FoodOptions != nil {
		out.FoodOptions = append([]string{}, c.FoodOptions...)
	}
	if c.Fields != nil {
		out.Fields = make([]FormField, len(c.Fields))
		for i, f := range c.Fields {
			if f.Options != nil {
				f.Options = append([]string{}, f.Options...)
			}
			out.Fields[i] = f
		}
	}
	return out
}
