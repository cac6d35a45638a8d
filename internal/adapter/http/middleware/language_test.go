package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPrimaryLanguage(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "fr", want: "fr"},
		{header: "FR", want: "fr"},
		{header: "fr-FR,fr;q=0.9,en;q=0.8", want: "fr"},
		{header: "en-US", want: "en"},
		{header: "  de-DE  ", want: "de"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, primaryLanguage(tc.header), "header %q", tc.header)
	}
}

func TestLanguageMiddleware_StoresRequestLanguage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LanguageMiddleware())
	router.GET("/probe", func(c *gin.Context) {
		c.String(http.StatusOK, GetLang(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "fr", rec.Body.String())

	// No header falls back to English.
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "en", rec.Body.String())
}

func TestGetLang_DefaultsWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.Equal(t, "en", GetLang(c))
}
