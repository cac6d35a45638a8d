package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/faha1999/team-to-do-app-sub000/pkg/apierrors"
)

const userIDKey = "user_id"

// AuthMiddleware resolves the current user from a Bearer token. The
// editor only needs an opaque user id; the token's "sub" claim is it.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, lang)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, lang)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, lang)
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthorized(c, lang)
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, empty when the
// request never passed AuthMiddleware.
func CurrentUserID(c *gin.Context) string {
	if value, exists := c.Get(userIDKey); exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, lang string) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthorized, lang),
	)
}
