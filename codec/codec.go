// Package codec turns a registration configuration into a token that
// can travel in a query parameter, and back.
//
// The token is the standard base64 encoding of the configuration's
// UTF-8 JSON, percent-escaped. Encoding works on bytes, never on
// characters, so any Unicode text survives the round trip.
package codec

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/mbolis/grace-register/model"
)

var (
	ErrMalformed = errors.New("malformed link payload")

	ErrEscape    = &decodeError{"invalid percent-encoding"}
	ErrBase64    = &decodeError{"invalid base64"}
	ErrUTF8      = &decodeError{"payload is not UTF-8"}
	ErrJSON      = &decodeError{"payload is not a JSON object"}
	ErrMissingID = &decodeError{"payload has no id"}
)

type decodeError struct {
	msg string
}

func (e *decodeError) Error() string { return e.msg }

// Is makes every decode failure match ErrMalformed.
func (e *decodeError) Is(target error) bool {
	return target == ErrMalformed
}

func Encode(cfg model.Config) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "codec.encode")
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(raw)), nil
}

// Decode reverses Encode. It never panics; every failure is returned as
// an error matching ErrMalformed and the specific failure class.
//
// Unescaping treats '+' literally: a token that was already unescaped
// by the query string parser still contains base64 '+' characters.
func Decode(token string) (cfg model.Config, err error) {
	unescaped, err := url.PathUnescape(token)
	if err != nil {
		return cfg, errors.Wrap(ErrEscape, err.Error())
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(unescaped), "="))
	if err != nil {
		return cfg, errors.Wrap(ErrBase64, err.Error())
	}

	if !utf8.Valid(raw) {
		return cfg, ErrUTF8
	}

	err = json.Unmarshal(raw, &cfg)
	if err != nil {
		return model.Config{}, errors.Wrap(ErrJSON, err.Error())
	}
	if cfg.ID == "" {
		return model.Config{}, ErrMissingID
	}
	return cfg, nil
}
