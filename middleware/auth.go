package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jdblank/fire-backend/config"
	"github.com/jdblank/fire-backend/internal/user"
)

// AuthMiddleware verifies the identity-provider bearer token and sets up access context.
// Accounts are provisioned on first sight from the token claims.
func AuthMiddleware(cfg *config.Config, userSvc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		tokenStr := parts[1]
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.AuthTokenSecret), nil
		}, jwt.WithIssuer(cfg.AuthIssuer))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		identity := extractIdentityClaims(claims)
		if identity.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sub missing in token"})
			return
		}

		u, err := userSvc.EnsureFromClaims(identity)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not resolve account"})
			return
		}

		if u.Status != "active" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
			return
		}

		c.Set("user", *u)
		c.Set("user_id", u.ID)
		c.Set("claims", claims)

		accessContext := CreateAccessContext(u)
		c.Set("access_context", accessContext)

		c.Next()
	}
}

func extractIdentityClaims(claims jwt.MapClaims) user.IdentityClaims {
	identity := user.IdentityClaims{}
	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.FullName = name
	}
	if picture, ok := claims["picture"].(string); ok {
		identity.AvatarURL = picture
	}
	return identity
}

// CreateAccessContext derives permissions from the stored role
func CreateAccessContext(u *user.User) AccessContext {
	accessContext := AccessContext{
		UserID:   u.ID,
		RoleName: u.Role.RoleName,
	}

	switch u.Role.RoleName {
	case RoleAdmin, RoleOrganizer, RoleMember:
		accessContext.PermissionType = "full"
	default:
		accessContext.PermissionType = "readonly"
	}

	return accessContext
}
