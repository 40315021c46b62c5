package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/lottery-rounds/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	issuer := jwt.NewTokenIssuer("secret", time.Hour)
	router := gin.New()
	router.GET("/me", JWTAuthMiddleware(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, "%s/%s", CallerAddress(c), c.GetString(RoleKey))
	})

	token, err := issuer.Issue("0xa1", jwt.RolePlayer)
	require.NoError(t, err)
	expired, err := jwt.NewTokenIssuer("secret", -time.Minute).Issue("0xa1", jwt.RolePlayer)
	require.NoError(t, err)

	fixtures := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "0xa1/player"},
		{"missing", "", http.StatusUnauthorized, "Authorization header is required"},
		{"wrong schema", "Basic " + token, http.StatusUnauthorized, "must start with Bearer"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Token has expired"},
	}
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if f.header != "" {
				req.Header.Set("Authorization", f.header)
			}
			w := serve(router, req)
			require.Equal(t, f.status, w.Code)
			require.Contains(t, w.Body.String(), f.body)
		})
	}
}

func TestRequireRole(t *testing.T) {
	issuer := jwt.NewTokenIssuer("secret", time.Hour)
	router := gin.New()
	router.POST("/rounds", JWTAuthMiddleware(issuer), RequireRole(jwt.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for role, status := range map[string]int{
		jwt.RoleAdmin:  http.StatusCreated,
		jwt.RolePlayer: http.StatusForbidden,
		"":             http.StatusForbidden,
	} {
		token, err := issuer.Issue("0xad", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/rounds", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		require.Equal(t, status, serve(router, req).Code, "role %q", role)
	}
}

func TestOracleKeyMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("oracle-key"), bcrypt.MinCost)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/callback", OracleKeyMiddleware(string(hash)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for key, status := range map[string]int{
		"oracle-key": http.StatusNoContent,
		"wrong":      http.StatusUnauthorized,
		"":           http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodPost, "/callback", nil)
		if key != "" {
			req.Header.Set(OracleKeyHeader, key)
		}
		require.Equal(t, status, serve(router, req).Code, "key %q", key)
	}
}

func TestRequestIDAndCORS(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(), CORSMiddleware([]string{"a.test", "b.test"}))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	require.Equal(t, "a.test,b.test", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "given")
	require.Equal(t, "given", serve(router, req).Body.String())

	w = serve(router, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
}
