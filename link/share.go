package link

import (
	"net/url"
	"strings"

	"github.com/mbolis/grace-register/codec"
	"github.com/mbolis/grace-register/model"
)

// MaxPortableLength is the size above which messaging apps start
// refusing or truncating a link.
const MaxPortableLength = 30000

// Share holds the links offered when publishing an event.
type Share struct {
	// Universal embeds the whole event and works on any device.
	Universal string `json:"universal"`
	// Quick only names the event; it resolves on this profile only.
	Quick string `json:"quick"`
	// TooLong is set when Universal exceeds MaxPortableLength.
	TooLong bool `json:"tooLong"`
	// Unbranded is Universal without the embedded logo, offered when
	// Universal is too long.
	Unbranded string `json:"unbranded,omitempty"`
}

// Universal builds a link carrying the whole configuration.
func Universal(base string, cfg model.Config, includeLogo bool) (string, error) {
	if !includeLogo {
		cfg.LogoURL = ""
	}
	token, err := codec.Encode(cfg)
	if err != nil {
		return "", err
	}
	return withQuery(base, ParamData, token), nil
}

// Quick builds a link naming an event already stored on this profile.
func Quick(base string, id string) string {
	return withQuery(base, ParamEvent, url.QueryEscape(id))
}

func NewShare(base string, cfg model.Config) (Share, error) {
	universal, err := Universal(base, cfg, true)
	if err != nil {
		return Share{}, err
	}

	share := Share{
		Universal: universal,
		Quick:     Quick(base, cfg.ID),
		TooLong:   len(universal) > MaxPortableLength,
	}
	if share.TooLong && cfg.LogoURL != "" {
		share.Unbranded, err = Universal(base, cfg, false)
		if err != nil {
			return Share{}, err
		}
	}
	return share, nil
}

// withQuery appends an already escaped parameter, dropping any query the
// base carried.
func withQuery(base, key, escaped string) string {
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return base + "?" + key + "=" + escaped
}
