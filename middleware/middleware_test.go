package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	id, _ := GetIdentity(c)
	c.JSON(http.StatusOK, gin.H{"id": id.ID, "email": id.Email})
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthRequired(secret, "https://clerk.test"), whoAmI)

	good, err := GenerateToken(secret, "https://clerk.test", "user_2abc", "a@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(secret, "https://clerk.test", "user_2abc", "a@example.com", -time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := GenerateToken(secret, "https://evil.test", "user_2abc", "a@example.com", time.Hour)
	require.NoError(t, err)
	wrongKey, err := GenerateToken([]byte("other"), "https://clerk.test", "user_2abc", "a@example.com", time.Hour)
	require.NoError(t, err)
	noSubject, err := GenerateToken(secret, "https://clerk.test", "", "a@example.com", time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + good, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + wrongIssuer, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"alg none", "Bearer " + noneAlg, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.JSONEq(t, `{"id":"user_2abc","email":"a@example.com"}`, w.Body.String())
			}
		})
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":204`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimiterPerIdentity(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zerolog.Nop())
	r := gin.New()
	r.POST("/orders", AuthRequired(secret, ""), rl.Handler(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	tokenA, _ := GenerateToken(secret, "", "a", "", time.Hour)
	tokenB, _ := GenerateToken(secret, "", "b", "", time.Hour)
	post := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post(tokenA))
	assert.Equal(t, http.StatusCreated, post(tokenA))
	assert.Equal(t, http.StatusTooManyRequests, post(tokenA))
	assert.Equal(t, http.StatusCreated, post(tokenB), "buckets are per caller")

	rl.Sweep(-time.Second)
	assert.Equal(t, http.StatusCreated, post(tokenA), "sweeping resets idle buckets")
}
