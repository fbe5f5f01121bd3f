package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

type fakeRevocadas struct {
	revocadas map[string]bool
	err       error
}

func (f *fakeRevocadas) EstaRevocada(_ context.Context, jti string) (bool, error) {
	return f.revocadas[jti], f.err
}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(jti string) jwt.MapClaims {
	return jwt.MapClaims{
		"jti":      jti,
		"user_id":  "11111111-1111-1111-1111-111111111111",
		"username": "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
}

func newAuthEngine(rev RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/privado", JWTAuth(testSecret, rev), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Username)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	rev := &fakeRevocadas{revocadas: map[string]bool{"cerrada": true}}
	r := newAuthEngine(rev)

	w := get(r, "/privado", signToken(t, validClaims("abierta"), testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/privado", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/privado", "basura").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/privado", signToken(t, validClaims("x"), "otro-secreto")).Code)

	expirado := validClaims("x")
	expirado["exp"] = time.Now().Add(-time.Minute).Unix()
	assert.Equal(t, http.StatusUnauthorized, get(r, "/privado", signToken(t, expirado, testSecret)).Code)

	sinExp := validClaims("x")
	delete(sinExp, "exp")
	assert.Equal(t, http.StatusUnauthorized, get(r, "/privado", signToken(t, sinExp, testSecret)).Code)

	sinJTI := validClaims("")
	assert.Equal(t, http.StatusUnauthorized, get(r, "/privado", signToken(t, sinJTI, testSecret)).Code)

	w = get(r, "/privado", signToken(t, validClaims("cerrada"), testSecret))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "La sesion fue cerrada")
}

func TestJWTAuth_DenylistNoDisponible(t *testing.T) {
	r := newAuthEngine(&fakeRevocadas{err: errors.New("redis caido")})
	w := get(r, "/privado", signToken(t, validClaims("abierta"), testSecret))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLimiter_VentanaFija(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute, "demasiadas")
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, end := l.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), end)

	// other clients have their own window
	ok, _ = l.Allow("2.2.2.2")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow("1.1.1.1")
	assert.True(t, ok)
}

func TestLimiter_PurgaEntradasVencidas(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(1, time.Minute, "x")
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	assert.Len(t, l.entries, 2)

	now = now.Add(10 * time.Minute)
	l.Allow("c")
	assert.Len(t, l.entries, 1)
}

func TestLimiter_Middleware429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewLimiter(1, time.Minute, "Demasiados intentos").Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	w := get(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "/", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Body.String())
}

func TestErrorHandler_OcultaDetalle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(), Recovery())
	r.GET("/error", func(c *gin.Context) { _ = c.Error(errors.New("pq: password authentication failed")) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := get(r, "/error", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error interno del servidor")
	assert.NotContains(t, w.Body.String(), "password")

	w = get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTimeout_AcotaContexto(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	r.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		if !ok || time.Until(deadline) > 50*time.Millisecond {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://panel.example.com, https://admin.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
