// Package link decides, once per page load, which registration a visitor
// lands on and whether the load is a restricted guest visit.
package link

import (
	"fmt"
	"net/url"

	"github.com/mbolis/grace-register/codec"
	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/model"
	"github.com/mbolis/grace-register/store"
)

const (
	ParamData  = "data"
	ParamEvent = "event"
)

type Mode string

const (
	ModeShared    Mode = "shared"
	ModeReference Mode = "reference"
	ModeNormal    Mode = "normal"
)

type Resolution struct {
	Mode Mode `json:"mode"`
	// GuestMode hides every administrative surface for this load. It
	// only depends on which parameters were present.
	GuestMode bool          `json:"guestMode"`
	ActiveID  string        `json:"activeId,omitempty"`
	Config    *model.Config `json:"config,omitempty"`
	// Inserted is set when a shared payload introduced a new event.
	Inserted         bool   `json:"inserted,omitempty"`
	HydrationMessage string `json:"hydrationMessage,omitempty"`
	// PersistFailed is set when the hydrated event could not be saved.
	// The event is still active for the current process.
	PersistFailed bool `json:"persistFailed,omitempty"`
}

// Unavailable reports the "inactive registration" state a guest sees
// when nothing could be resolved.
func (r Resolution) Unavailable() bool {
	return r.GuestMode && r.Config == nil
}

// IsGuest reports whether the query carries a shared payload or an
// event reference.
func IsGuest(query url.Values) bool {
	return query.Has(ParamData) || query.Has(ParamEvent)
}

type Resolver struct {
	Configs *store.ConfigStore
}

func NewResolver(configs *store.ConfigStore) *Resolver {
	return &Resolver{Configs: configs}
}

// Resolve inspects the query parameters of one page load. A data
// parameter takes priority over event.
func (r *Resolver) Resolve(query url.Values) Resolution {
	res := Resolution{Mode: ModeNormal, GuestMode: IsGuest(query)}

	switch {
	case query.Has(ParamData):
		r.resolveShared(query.Get(ParamData), &res)

	case query.Has(ParamEvent):
		res.Mode = ModeReference
		id := query.Get(ParamEvent)
		if cfg, ok := r.Configs.Get(id); ok {
			res.ActiveID = cfg.ID
			res.Config = &cfg
		} else {
			log.Debugf("link.resolve.event: not found (%s)", id)
		}

	default:
		if configs := r.Configs.List(); len(configs) > 0 {
			res.ActiveID = configs[0].ID
			res.Config = &configs[0]
		}
	}

	return res
}

func (r *Resolver) resolveShared(token string, res *Resolution) {
	candidate, err := codec.Decode(token)
	if err != nil {
		// ignored link: the guest sees an unavailable registration
		log.Warnf("link.resolve.data: %s", err)
		return
	}

	res.Mode = ModeShared
	inserted, err := r.Configs.Hydrate(candidate)
	if err != nil {
		log.With(log.Fields{"event": candidate.ID}).Warnf("link.resolve.hydrate: %s", err)
		res.PersistFailed = true
	}

	res.Inserted = inserted
	if inserted {
		res.HydrationMessage = fmt.Sprintf("Event %q loaded!", candidate.Title)
	}
	res.ActiveID = candidate.ID
	res.Config = &candidate
}
