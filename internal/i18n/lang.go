package i18n

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderLang lets a client pick a language explicitly
	HeaderLang = "X-Lang"
	// ContextKey is where the negotiated language is stored on the gin context
	ContextKey = "lang"
)

var supportedLangs = map[string]bool{"en": true, "zh": true}

// LanguageMiddleware stores the request language on the gin context
func LanguageMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, FromRequest(c.Request, defaultLang))
		c.Next()
	}
}

// FromContext returns the negotiated language, or fallback if none was set
func FromContext(c *gin.Context, fallback string) string {
	if lang := c.GetString(ContextKey); lang != "" {
		return lang
	}
	return fallback
}

// FromRequest extracts language preference from HTTP headers
func FromRequest(r *http.Request, defaultLang string) string {
	if lang := r.Header.Get(HeaderLang); lang != "" {
		return normalizeLang(lang, defaultLang)
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		first := strings.TrimSpace(strings.Split(strings.Split(accept, ",")[0], ";")[0])
		return normalizeLang(first, defaultLang)
	}
	return defaultLang
}

// normalizeLang reduces a language tag to a supported base code
func normalizeLang(lang, defaultLang string) string {
	code := strings.ToLower(strings.Split(lang, "-")[0])
	if supportedLangs[code] {
		return code
	}
	return defaultLang
}
