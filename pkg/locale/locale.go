// Package locale negotiates the response language and renders message keys.
package locale

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	Korean  = language.Korean
	English = language.English

	supported = []language.Tag{Korean, English}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

type ctxKey struct{}

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Korean))
	for key, msg := range korean {
		_ = b.SetString(Korean, key, msg)
	}
	for key, msg := range english {
		_ = b.SetString(English, key, msg)
	}
	return b
}

// Parse maps a configured locale name ("ko", "en") to a supported tag.
func Parse(name string) language.Tag {
	if strings.EqualFold(strings.TrimSpace(name), "en") {
		return English
	}
	return Korean
}

// Negotiate picks the best supported language for an Accept-Language header,
// falling back to def when the header is empty or unparseable.
func Negotiate(acceptLanguage string, def language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return supported[idx]
}

func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the negotiated language, Korean when none was set.
func FromContext(ctx context.Context) language.Tag {
	if ctx != nil {
		if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
			return tag
		}
	}
	return Korean
}

// Translate renders key in tag. Unknown keys are returned unchanged.
func Translate(tag language.Tag, key string, args ...any) string {
	if !Has(key) {
		return key
	}
	p := message.NewPrinter(tag, message.Catalog(messages))
	return p.Sprintf(key, args...)
}

func Has(key string) bool {
	_, ok := korean[key]
	return ok
}

// InKorean renders key in the canonical language; used for mail bodies.
func InKorean(key string, args ...any) string {
	return Translate(Korean, key, args...)
}
