// internal/registration/wizard-api/middleware.go
package wizardapi

import (
	"net/http"
	"time"

	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const localeContextKey = "locale"

// Locale resolves the request locale from ?lang=, then the locale cookie,
// then Accept-Language. A supported ?lang= value is remembered in the cookie.
func Locale(catalog *i18n.Catalog, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := resolveLocale(c, catalog, cookieName)
		c.Set(localeContextKey, tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

func resolveLocale(c *gin.Context, catalog *i18n.Catalog, cookieName string) language.Tag {
	if v := c.Query("lang"); v != "" {
		if tag, ok := catalog.ParseTag(v); ok {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, tag.String(), int((365 * 24 * time.Hour).Seconds()), "/", "", false, false)
			return tag
		}
	}
	if v, err := c.Cookie(cookieName); err == nil {
		if tag, ok := catalog.ParseTag(v); ok {
			return tag
		}
	}
	return catalog.MatchAcceptLanguage(c.GetHeader("Accept-Language"))
}

func localeFrom(c *gin.Context, catalog *i18n.Catalog) language.Tag {
	if v, ok := c.Get(localeContextKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return catalog.DefaultTag()
}

// RequestLogger logs one line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"route":     c.FullPath(),
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIP":  c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request completed", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request completed", fields)
		default:
			log.Info("request completed", fields)
		}
	}
}
