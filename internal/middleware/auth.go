package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/seucuidado/internal/session"
)

// SignInPath is where the web client sends unauthenticated users.
const SignInPath = "/auth"

func tokenFrom(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(session.CookieName); err == nil {
		return cookie
	}
	return ""
}

func unauthenticated(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error_code": code,
		"message":    "Faça login para continuar.",
		"redirect":   SignInPath,
	})
}

// AuthMiddleware resolves the session from a Bearer token or the session
// cookie and rejects revoked tokens.
func AuthMiddleware(issuer *session.Issuer, denylist session.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			unauthenticated(c, "unauthenticated")
			return
		}

		s, err := issuer.Parse(token)
		if err != nil {
			unauthenticated(c, "invalid_token")
			return
		}

		revoked, err := denylist.IsRevoked(c.Request.Context(), s.TokenID)
		if err != nil {
			log.Printf("session denylist: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error_code": "session_store_unavailable"})
			return
		}
		if revoked {
			unauthenticated(c, "session_revoked")
			return
		}

		session.Set(c, s)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.From(c)
		if !ok {
			unauthenticated(c, "unauthenticated")
			return
		}

		for _, r := range roles {
			if s.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error_code": "forbidden_role",
			"message":    "Você não tem permissão para acessar este recurso.",
		})
	}
}
