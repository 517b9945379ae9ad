package handlers

import (
	"net/http"
	"strings"

	"library_api/internal/auth"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// identityMiddleware attaches the caller's user to the request context.
// It never rejects a request: a missing, malformed, expired or unresolvable
// token leaves the request anonymous.
func (h *Handler) identityMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.Next()
		return
	}

	user, err := h.services.ResolveUser(c.Request.Context(), token)
	if err != nil {
		if h.log != nil {
			h.log.Warnw("identity_resolve_failed", "err", err)
		}
		c.Next()
		return
	}
	if user == nil {
		c.Next()
		return
	}

	c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
	c.Set(userIDKey, user.ID)
	c.Next()
}

// requireUser guards REST routes; it must run after identityMiddleware.
func (h *Handler) requireUser(c *gin.Context) {
	if _, ok := auth.UserFromContext(c.Request.Context()); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing or invalid token",
		})
		return
	}
	c.Next()
}
