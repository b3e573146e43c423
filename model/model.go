package model

import (
	"time"

	"github.com/gofrs/uuid"
)

type Template string

const (
	TemplateValentine         Template = "valentine"
	TemplateModernEvent       Template = "modern_event"
	TemplateBiblicalSpiritual Template = "biblical_spiritual"
	TemplateCorporate         Template = "corporate"
)

func (t Template) Valid() bool {
	switch t {
	case TemplateValentine, TemplateModernEvent, TemplateBiblicalSpiritual, TemplateCorporate:
		return true
	}
	return false
}

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldCheckbox FieldType = "checkbox"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldTel, FieldNumber, FieldDate, FieldCheckbox, FieldTextarea, FieldSelect:
		return true
	}
	return false
}

// Config is one registration event as designed by the administrator.
// The JSON shape is shared by the persisted blob and the shareable link
// payload, so field names must not change.
type Config struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	LogoURL          string        `json:"logoUrl,omitempty"`
	Price            float64       `json:"price"`
	PriceOptions     []PriceOption `json:"priceOptions"`
	FoodOptions      []string      `json:"foodOptions"`
	IncludeAllergies bool          `json:"includeAllergies"`
	CashAppTag       string        `json:"cashAppTag"`
	Template         Template      `json:"template"`
	Fields           []FormField   `json:"fields"`
	BiblicalScript   string        `json:"biblicalScript,omitempty"`
}

type PriceOption struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

type FormField struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options"`
}

// Submission is one completed registration. Data is keyed by field
// label, not field id: renaming a field leaves older answers under the
// old label.
type Submission struct {
	ID                string         `json:"id"`
	ConfigID          string         `json:"configId"`
	Data              map[string]any `json:"data"`
	SelectedEntryType string         `json:"selectedEntryType,omitempty"`
	SelectedFood      string         `json:"selectedFood,omitempty"`
	Allergies         string         `json:"allergies,omitempty"`
	TotalPaid         float64        `json:"totalPaid"`
	Timestamp         int64          `json:"timestamp"`
	Paid              bool           `json:"paid"`
}

// Time returns the creation instant stored as Unix milliseconds.
func (s Submission) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// crypto/rand failure, nothing sensible left to do
		panic(err)
	}
	return id.String()
}
