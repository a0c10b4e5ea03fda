// Package i18n provides message catalogs and locale negotiation.
// The locale is always passed explicitly; there is no process-wide current locale.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Locale identifies a supported message catalog
type Locale string

const (
	English Locale = "en"
	Spanish Locale = "es"

	// DefaultLocale is used when nothing else matches
	DefaultLocale = English
)

// CookieName is the cookie carrying the preferred locale
const CookieName = "lang"

// CookieMaxAge keeps the language cookie for one year
const CookieMaxAge = 60 * 60 * 24 * 365

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	supported = []Locale{English, Spanish}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Spanish})

	placeholderPattern = regexp.MustCompile(`{{\s*([A-Za-z0-9_]+)\s*}}`)

	defaultCatalog = mustLoadCatalog()
)

// entry is either a plain template or a one/other plural pair
type entry struct {
	text   string
	one    string
	other  string
	plural bool
}

// Catalog holds the flattened messages of every supported locale
type Catalog struct {
	messages map[Locale]map[string]entry
}

// Options carries interpolation values and an optional plural count
type Options struct {
	Values map[string]any
	Count  *int
}

// Count returns Options selecting a plural form for n
func Count(n int) Options {
	return Options{Count: &n}
}

// Values returns Options interpolating kv given as alternating key, value pairs
func Values(kv ...any) Options {
	values := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		values[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Options{Values: values}
}

func mustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadCatalog parses the embedded locale files
func LoadCatalog() (*Catalog, error) {
	catalog := &Catalog{messages: make(map[Locale]map[string]entry, len(supported))}
	for _, locale := range supported {
		data, err := localeFS.ReadFile("locales/" + string(locale) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s catalog: %w", locale, err)
		}
		entries, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", locale, err)
		}
		catalog.messages[locale] = entries
	}
	return catalog, nil
}

func parseCatalog(data []byte) (map[string]entry, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	entries := make(map[string]entry)
	flatten("", tree, entries)
	return entries, nil
}

func flatten(prefix string, node map[string]any, out map[string]entry) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			one, hasOne := v["one"].(string)
			other, hasOther := v["other"].(string)
			if hasOne && hasOther {
				out[path] = entry{one: one, other: other, plural: true}
				continue
			}
			flatten(path, v, out)
		case string:
			out[path] = entry{text: v}
		default:
			out[path] = entry{text: fmt.Sprint(v)}
		}
	}
}

// T translates key in locale. A missing key is returned unchanged.
func (c *Catalog) T(locale Locale, key string, opts ...Options) string {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	e, ok := c.messages[locale][key]
	if !ok {
		return key
	}

	template := e.text
	if e.plural {
		template = e.other
		if opt.Count != nil && *opt.Count == 1 {
			template = e.one
		}
	}

	values := opt.Values
	if opt.Count != nil {
		if _, set := values["count"]; !set {
			merged := make(map[string]any, len(values)+1)
			for k, v := range values {
				merged[k] = v
			}
			merged["count"] = *opt.Count
			values = merged
		}
	}
	return interpolate(template, values)
}

func interpolate(template string, values map[string]any) string {
	if len(values) == 0 {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

// T translates key with the embedded catalog
func T(locale Locale, key string, opts ...Options) string {
	return defaultCatalog.T(locale, key, opts...)
}

// Parse returns the supported locale named by s
func Parse(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range supported {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Supported lists the available locales
func Supported() []Locale {
	return append([]Locale(nil), supported...)
}

// Tag returns the language tag for locale
func (l Locale) Tag() language.Tag {
	if l == Spanish {
		return language.Spanish
	}
	return language.English
}

// Negotiate picks a locale from the lang cookie value, falling back to Accept-Language
func Negotiate(cookieValue, acceptLanguage string) Locale {
	if l, ok := Parse(cookieValue); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supported[index]
}

// FromRequest negotiates the locale of an incoming request
func FromRequest(r *http.Request) Locale {
	var cookieValue string
	if c, err := r.Cookie(CookieName); err == nil {
		cookieValue = c.Value
	}
	return Negotiate(cookieValue, r.Header.Get("Accept-Language"))
}

// NewCookie builds the lang cookie for locale
func NewCookie(locale Locale) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(locale),
		Path:     "/",
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
}

// FormatMoney renders amount with two decimals and locale digit grouping
func FormatMoney(locale Locale, amount float64) string {
	p := message.NewPrinter(locale.Tag())
	return "$" + p.Sprintf("%.2f", amount)
}

type contextKey string

const localeContextKey contextKey = "locale"

// WithLocale stores locale in ctx
func WithLocale(ctx context.Context, locale Locale) context.Context {
	return context.WithValue(ctx, localeContextKey, locale)
}

// FromContext returns the request locale, or DefaultLocale when none was set
func FromContext(ctx context.Context) Locale {
	if l, ok := ctx.Value(localeContextKey).(Locale); ok {
		return l
	}
	return DefaultLocale
}
