// Package registration captures a guest's answers to a registration
// form as a Submission.
package registration

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/model"
	"github.com/mbolis/grace-register/payment"
	"github.com/mbolis/grace-register/store"
	"github.com/mbolis/grace-register/textgen"
)

var ErrInvalid = errors.New("invalid registration")

// InvalidError lists every problem found in a guest's input.
type InvalidError struct {
	Problems *multierror.Error
}

func (e *InvalidError) Error() string {
	return "invalid registration: " + e.Problems.Error()
}

func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

// Messages returns one line per problem.
func (e *InvalidError) Messages() []string {
	out := make([]string, len(e.Problems.Errors))
	for i, err := range e.Problems.Errors {
		out[i] = err.Error()
	}
	return out
}

// Input is what a guest sends. Data is keyed by field label.
type Input struct {
	Data      map[string]any `json:"data"`
	EntryID   string         `json:"entryId,omitempty"`
	Food      string         `json:"food,omitempty"`
	Allergies string         `json:"allergies,omitempty"`
}

type Receipt struct {
	Submission model.Submission `json:"submission"`
	PaymentURL string           `json:"paymentUrl"`
	Emails     textgen.Emails   `json:"emails"`
}

type Service struct {
	Submissions *store.SubmissionStore
	Writer      *textgen.Writer
	Now         func() time.Time
}

func NewService(submissions *store.SubmissionStore, writer *textgen.Writer) *Service {
	return &Service{Submissions: submissions, Writer: writer, Now: time.Now}
}

// Submit validates the input, stores the submission and only then asks
// for the confirmation emails, so a slow or failing text generator never
// loses a registration. A storage failure is returned as is.
func (s *Service) Submit(ctx context.Context, cfg model.Config, in Input) (Receipt, error) {
	sub, err := s.build(cfg, in)
	if err != nil {
		return Receipt{}, err
	}

	if err = s.Submissions.Append(sub); err != nil {
		log.With(log.Fields{"event": cfg.ID, "submission": sub.ID}).Errorf("registration.append: %s", err)
		return Receipt{}, err
	}

	name := registrantName(cfg, sub.Data)
	emails := s.Writer.ConfirmationEmails(ctx, cfg.Title, name, details(sub))

	return Receipt{
		Submission: sub,
		PaymentURL: payment.Link(cfg.CashAppTag, sub.TotalPaid),
		Emails:     emails,
	}, nil
}

func (s *Service) build(cfg model.Config, in Input) (model.Submission, error) {
	var problems *multierror.Error

	data := in.Data
	if data == nil {
		data = map[string]any{}
	}
	for _, f := range cfg.Fields {
		if f.Required && blank(f.Type, data[f.Label]) {
			problems = multierror.Append(problems, fmt.Errorf("%s is required", f.Label))
		}
	}

	label, total, err := cfg.EntryPrice(in.EntryID)
	if err != nil {
		problems = multierror.Append(problems, err)
	}
	if label == "" {
		label = model.GeneralEntry
	}

	if in.Food != "" && !contains(cfg.FoodOptions, in.Food) {
		problems = multierror.Append(problems, fmt.Errorf("unknown menu choice %q", in.Food))
	}

	if problems.ErrorOrNil() != nil {
		return model.Submission{}, &InvalidError{Problems: problems}
	}

	allergies := ""
	if cfg.IncludeAllergies {
		allergies = strings.TrimSpace(in.Allergies)
	}

	return model.Submission{
		ID:                model.NewID(),
		ConfigID:          cfg.ID,
		Data:              data,
		SelectedEntryType: label,
		SelectedFood:      in.Food,
		Allergies:         allergies,
		TotalPaid:         total,
		Timestamp:         s.Now().UnixMilli(),
		Paid:              false,
	}, nil
}

func blank(typ model.FieldType, v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return typ == model.FieldCheckbox && !v
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// registrantName picks the answer of the first field whose label looks
// like a name.
func registrantName(cfg model.Config, data map[string]any) string {
	key := "Full Name"
	for _, f := range cfg.Fields {
		if strings.Contains(strings.ToLower(f.Label), "name") {
			key = f.Label
			break
		}
	}
	if v, ok := data[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "Guest"
}

func details(sub model.Submission) string {
	entry := sub.SelectedEntryType
	if entry == model.GeneralEntry {
		entry = "General"
	}
	form, err := json.Marshal(sub.Data)
	if err != nil {
		form = []byte("{}")
	}
	return fmt.Sprintf("Entry: %s, Food: %s, Allergies: %s, Total: $%s. Form Data: %s",
		entry,
		orNone(sub.SelectedFood),
		orNone(sub.Allergies),
		strconv.FormatFloat(sub.TotalPaid, 'f', -1, 64),
		form,
	)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
