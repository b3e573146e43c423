package codec

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/grace-register/model"
)

func TestRoundTrip(t *testing.T) {
	cases := map[string]model.Config{
		"default": model.DefaultConfig(),
		"unicode": {
			ID:           "e-ü",
			Title:        "Fête de l'Été 🎉 𝄞",
			Description:  "日本語のテキスト, emoji 🙏🏽 and \u0000 control",
			LogoURL:      "",
			Price:        12.5,
			PriceOptions: []model.PriceOption{{ID: "a", Label: "Adulte €", Price: 20}},
			FoodOptions:  []string{"Jollof 🍚", "Ñoquis"},
			CashAppTag:   "$grace",
			Template:     model.TemplateValentine,
			Fields: []model.FormField{
				{ID: "1", Label: "Nom complet", Type: model.FieldText, Required: true},
				{ID: "2", Label: "Taille", Type: model.FieldSelect, Options: []string{"S", "M"}},
			},
		},
		"minimal": {ID: "x"},
		"empty and missing lists": {
			ID:           "lists",
			PriceOptions: []model.PriceOption{},
			Fields: []model.FormField{
				{ID: "1", Label: "Notes", Type: model.FieldTextarea, Options: []string{}},
				{ID: "2", Label: "Name", Type: model.FieldText},
			},
		},
		"logo": {
			ID:      "with-logo",
			LogoURL: "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==",
		},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := Encode(cfg)
			require.NoError(t, err)

			got, err := Decode(token)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestTokenIsQuerySafe(t *testing.T) {
	cfg := model.Config{ID: "q", Title: strings.Repeat("ÿ￾🙂", 40)}
	token, err := Encode(cfg)
	require.NoError(t, err)

	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "&")
}

func TestDecodeAfterQueryParsing(t *testing.T) {
	cfg := model.Config{ID: "q", Title: strings.Repeat("ÿ🙂>?", 30)}
	token, err := Encode(cfg)
	require.NoError(t, err)

	query, err := url.ParseQuery("data=" + token)
	require.NoError(t, err)

	got, err := Decode(query.Get("data"))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDecodeAcceptsMissingPadding(t *testing.T) {
	raw := base64.RawStdEncoding.EncodeToString([]byte(`{"id":"p","title":"no pad"}`))
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "no pad", got.Title)
}

func TestDecodeFailures(t *testing.T) {
	valid, err := Encode(model.DefaultConfig())
	require.NoError(t, err)

	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"bad escape", "abc%zz", ErrEscape},
		{"bad base64", "!!!not-base64!!!", ErrBase64},
		{"not utf8", b64("\xff\xfe{\"id\":\"x\"}"), ErrUTF8},
		{"not json", b64("hello"), ErrJSON},
		{"json array", b64(`[{"id":"x"}]`), ErrJSON},
		{"json null", b64("null"), ErrMissingID},
		{"no id", b64(`{"title":"orphan"}`), ErrMissingID},
		{"truncated", valid[:len(valid)/2], ErrMalformed},
		{"empty", "", ErrJSON},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got model.Config
			assert.NotPanics(t, func() {
				got, err = Decode(tc.token)
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Equal(t, model.Config{}, got)
		})
	}
}
