package i18n

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	tests := []struct {
		name   string
		locale Locale
		key    string
		opts   []Options
		want   string
	}{
		{"PlainEnglish", English, "report.title", nil, "Home Inventory Report"},
		{"PlainSpanish", Spanish, "report.title", nil, "Informe de Inventario del Hogar"},
		{"Interpolation", English, "report.brand", []Options{Values("value", "Acme")}, "Brand: Acme"},
		{"PluralOne", English, "report.roomItems", []Options{Count(1)}, "1 item"},
		{"PluralOther", English, "report.roomItems", []Options{Count(3)}, "3 items"},
		{"PluralZero", Spanish, "report.roomItems", []Options{Count(0)}, "0 artículos"},
		{"MissingKey", English, "nope.missing", nil, "nope.missing"},
		{"UnknownLocale", Locale("fr"), "report.title", nil, "report.title"},
		{"UnknownPlaceholderKept", English, "report.total", []Options{Values("other", 1)}, "Total Value: {{amount}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.locale, tt.key, tt.opts...))
		})
	}
}

func TestLoadCatalog_LocalesShareKeys(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	for key := range catalog.messages[English] {
		_, ok := catalog.messages[Spanish][key]
		assert.True(t, ok, "missing Spanish translation for %s", key)
	}
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, Spanish, Negotiate("es", "en-US"))
	assert.Equal(t, English, Negotiate("EN", "es"))
	assert.Equal(t, Spanish, Negotiate("", "es-MX,es;q=0.9"))
	assert.Equal(t, Spanish, Negotiate("de", "es"))
	assert.Equal(t, English, Negotiate("", ""))
	assert.Equal(t, English, Negotiate("", "ja"))
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(NewCookie(Spanish))
	req.Header.Set("Accept-Language", "en")
	assert.Equal(t, Spanish, FromRequest(req))
}

func TestNewCookie(t *testing.T) {
	c := NewCookie(Spanish)
	assert.Equal(t, "lang", c.Name)
	assert.Equal(t, "es", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 31536000, c.MaxAge)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatMoney(English, 1234.5))
	assert.Equal(t, "$0.00", FormatMoney(English, 0))
}

func TestContextLocale(t *testing.T) {
	assert.Equal(t, DefaultLocale, FromContext(context.Background()))
	ctx := WithLocale(context.Background(), Spanish)
	assert.Equal(t, Spanish, FromContext(ctx))
}
