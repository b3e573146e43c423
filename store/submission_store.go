package store

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mbolis/grace-register/kv"
	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/model"
)

const SubmissionsKey = "grace_reg_submissions"

// SubmissionStore is the append-only log of registrations for every
// event of the profile. Records are never deduplicated, edited or
// removed, and their config id is not checked against the ConfigStore.
type SubmissionStore struct {
	mu sync.Mutex
	kv kv.Store
}

func NewSubmissionStore(store kv.Store) *SubmissionStore {
	return &SubmissionStore{kv: store}
}

func (s *SubmissionStore) read() ([]model.Submission, error) {
	raw, ok, err := s.kv.Get(SubmissionsKey)
	if err != nil {
		return nil, errors.Wrap(err, "store.submissions.read")
	}
	if !ok {
		return nil, nil
	}

	subs, err := decodeBlob[model.Submission](raw)
	if err != nil {
		log.Errorf("store.submissions.parse: %s", err)
		return nil, errors.Wrapf(ErrUnreadable, "%s: %s", SubmissionsKey, err)
	}
	return subs, nil
}

// Append adds sub at the end of the persisted list. A list that can't be
// read is left alone and ErrUnreadable is returned.
func (s *SubmissionStore) Append(sub model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.read()
	if err != nil {
		return err
	}
	return persist(s.kv, SubmissionsKey, append(subs, sub))
}

// List returns every submission in insertion order.
func (s *SubmissionStore) List() ([]model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// ListByConfig returns the submissions of one event in insertion order.
func (s *SubmissionStore) ListByConfig(configID string) ([]model.Submission, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	out := []model.Submission{}
	for _, sub := range all {
		if sub.ConfigID == configID {
			out = append(out, sub)
		}
	}
	return out, nil
}
