package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notekeep/internal/service"
)

const authClaimsKey = "auth_claims"

// AuthMiddleware valida el bearer token y guarda los claims en el contexto.
// Acepta "Bearer <token>" o el token pelado; los clientes viejos mandan a
// veces la cadena literal "undefined" o "null", que se trata como ausente.
func AuthMiddleware(logger *zap.Logger, tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "auth not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}

		if token == "" || token == "undefined" || token == "null" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			// Expirado e invalido se loguean distinto pero responden igual.
			if errors.Is(err, service.ErrTokenExpired) {
				logger.Info("expired token rejected", zap.String("path", c.Request.URL.Path))
			} else {
				logger.Warn("invalid token rejected", zap.String("path", c.Request.URL.Path))
			}
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene los claims del token desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
