package store

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mbolis/grace-register/kv"
	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/model"
)

const ConfigsKey = "grace_reg_configs"

var ErrNotFound = errors.New("not found")

// ConfigStore is the ordered collection of registration configurations.
// The in-memory list is the source of truth for the running process;
// every mutation persists the whole list before returning. A failed
// write is reported as a PersistError but the mutation stays applied in
// memory.
type ConfigStore struct {
	mu       sync.Mutex
	kv       kv.Store
	configs  []model.Config
	loaded   bool
	// readOnly is set when the stored blob has a newer schema version.
	readOnly bool
}

func NewConfigStore(store kv.Store) *ConfigStore {
	return &ConfigStore{kv: store}
}

// Load reads the persisted list. A missing or unreadable blob is an
// empty list, and an empty list is seeded with model.DefaultConfig. The
// only error returned is a failure to persist that seed; the list is
// valid either way. A blob from a newer release also loads as the seed,
// but the store then never writes over it.
func (s *ConfigStore) Load() ([]model.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.load()
	return s.snapshot(), err
}

func (s *ConfigStore) load() error {
	s.loaded = true
	s.configs = nil
	s.readOnly = false

	raw, ok, err := s.kv.Get(ConfigsKey)
	if err != nil {
		log.Warnf("store.configs.load: %s", err)
	} else if ok {
		s.configs, err = decodeBlob[model.Config](raw)
		if err != nil {
			log.Warnf("store.configs.parse: %s", err)
			s.configs = nil
			s.readOnly = errors.Is(err, ErrNewerSchema)
		}
	}

	if len(s.configs) > 0 {
		return nil
	}

	log.Info("seeding default registration", model.DefaultConfigID)
	s.configs = []model.Config{model.DefaultConfig()}
	return s.save()
}

// save writes the whole list, unless the stored blob belongs to a newer
// release: then nothing is written and the list lives in memory only.
func (s *ConfigStore) save() error {
	if s.readOnly {
		return &PersistError{Key: ConfigsKey, Err: ErrNewerSchema}
	}
	return persist(s.kv, ConfigsKey, s.configs)
}

func (s *ConfigStore) ensureLoaded() {
	if s.loaded {
		return
	}
	if err := s.load(); err != nil {
		log.Warnf("store.configs.seed: %s", err)
	}
}

func (s *ConfigStore) snapshot() []model.Config {
	out := make([]model.Config, len(s.configs))
	for i, c := range s.configs {
		out[i] = c.Clone()
	}
	return out
}

// List returns a copy of the current list.
func (s *ConfigStore) List() []model.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	return s.snapshot()
}

func (s *ConfigStore) Get(id string) (model.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	for _, c := range s.configs {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return model.Config{}, false
}

// Upsert replaces the record with the same id in place, or appends it.
func (s *ConfigStore) Upsert(cfg model.Config) error {
	_, err := s.Hydrate(cfg)
	return err
}

// Hydrate reconciles a configuration received through a shared link:
// it always wins over the stored version. inserted reports whether the
// id was new to this profile.
func (s *ConfigStore) Hydrate(candidate model.Config) (inserted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	s.configs, inserted = Merge(candidate.Clone(), s.configs)
	return inserted, s.save()
}

// Delete removes the record with the given id. Submissions that point
// at it are left untouched.
func (s *ConfigStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	idx := indexOf(s.configs, id)
	if idx < 0 {
		return errors.Wrapf(ErrNotFound, "config %q", id)
	}

	remaining := make([]model.Config, 0, len(s.configs)-1)
	remaining = append(remaining, s.configs[:idx]...)
	remaining = append(remaining, s.configs[idx+1:]...)
	s.configs = remaining

	return s.save()
}

func indexOf(configs []model.Config, id string) int {
	for i, c := range configs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
