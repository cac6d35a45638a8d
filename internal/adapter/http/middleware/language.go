package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/faha1999/team-to-do-app-sub000/pkg/translator"
)

// LanguageMiddleware stores the request language for error
// localization. Only the primary subtag of Accept-Language matters;
// anything unparseable falls back to English.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := primaryLanguage(c.GetHeader("Accept-Language"))
		if lang == "" {
			lang = translator.LanguageEn
		}
		c.Set("lang", lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}

func primaryLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	// "fr-FR,fr;q=0.9" -> "fr"
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	first = strings.SplitN(first, "-", 2)[0]
	return strings.ToLower(strings.TrimSpace(first))
}
