package i18n

import (
	"context"
	"net/http"
)

type langKey struct{}

// Language returns the language negotiated by Middleware, or the default.
func Language(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok {
		return lang
	}
	base, _ := fallback.Base()
	return base.String()
}

// Middleware injects a localizer into every request context. The language
// is taken from the "lang" query parameter, then Accept-Language, then
// defaultLang.
func Middleware(defaultLang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), defaultLang)
			w.Header().Set("Content-Language", lang)
			ctx := context.WithValue(r.Context(), langKey{}, lang)
			ctx = WithLocalizer(ctx, NewLocalizer(lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
