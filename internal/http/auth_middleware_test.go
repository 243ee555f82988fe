package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notekeep/internal/domain"
	"notekeep/internal/service"
)

func setupGuardedRoute(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(zap.NewNop(), tokens), func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID})
	})
	return r
}

func guardedRequest(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_AllowsBearerToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.Generate(domain.User{ID: "u1", Name: "Test"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := guardedRequest(setupGuardedRoute(tokens), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_AllowsBareToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.Generate(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Compatibilidad con clientes que mandan el token sin el prefijo Bearer.
	rec := guardedRequest(setupGuardedRoute(tokens), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	rec := guardedRequest(setupGuardedRoute(tokens), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsLiteralUndefined(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	r := setupGuardedRoute(tokens)

	for _, header := range []string{"undefined", "null", "Bearer undefined", "Bearer null"} {
		rec := guardedRequest(r, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	other := service.NewTokenService("other-secret", time.Hour)
	token, err := other.Generate(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := guardedRequest(setupGuardedRoute(tokens), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
