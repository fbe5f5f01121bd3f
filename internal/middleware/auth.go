package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/TORRES240325/panel-socios-final/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every admin session token.
// RegisteredClaims.ID carries the jti used for revocation.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a session (by jti) was revoked at logout.
type RevocationChecker interface {
	EstaRevocada(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates the Bearer token on every protected route: signature,
// expiry and the revocation denylist.
func JWTAuth(secret string, revocadas RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Debes iniciar sesion para acceder"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithExpirationRequired())

		if err != nil || !token.Valid || claims.ID == "" || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		revocada, err := revocadas.EstaRevocada(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("no se pudo verificar la sesion")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New("No se pudo verificar la sesion"))
			return
		}
		if revocada {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("La sesion fue cerrada"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
