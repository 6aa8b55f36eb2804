package middleware

import (
	"net/http"
	"strings"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"
	"pcshop_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ctxUserID    = "user_id"
	ctxAuthority = "user_authority"
)

// AuthMiddleware resolves the session token into an entities.Identity stored
// on the gin context.
type AuthMiddleware struct {
	tokens interfaces.ITokenIssuer
}

func NewAuthMiddleware(tokens interfaces.ITokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Authorization token required", http.StatusUnauthorized))
			return
		}

		identity, err := am.tokens.Parse(token)
		if err != nil {
			logrus.WithField("path", c.FullPath()).Infof("[auth][middleware] token rejected err=%v", err)
			abort(c, pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Invalid token", http.StatusUnauthorized))
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if !identity.Authenticated() {
			abort(c, pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Authorization token required", http.StatusUnauthorized))
			return
		}
		if !identity.IsAdmin() {
			abort(c, pkg.NewDomainErrorSimple("FORBIDDEN", "Insufficient permissions", http.StatusForbidden))
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and lets
// anonymous requests through.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if identity, err := am.tokens.Parse(token); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func setIdentity(c *gin.Context, identity entities.Identity) {
	c.Set(ctxUserID, identity.UserID)
	c.Set(ctxAuthority, string(identity.Authority))
}

// extractToken reads "Authorization: Bearer <token>".
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// IdentityFrom returns the caller identity, or the zero Identity for
// anonymous requests.
func IdentityFrom(c *gin.Context) entities.Identity {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return entities.Identity{}
	}
	return entities.Identity{UserID: userID, Authority: entities.Authority(c.GetString(ctxAuthority))}
}

// WithIdentity stores identity on the context. Handler tests use it in place
// of a token.
func WithIdentity(identity entities.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		setIdentity(c, identity)
		c.Next()
	}
}
