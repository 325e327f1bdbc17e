package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aurixon/api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClaimsKey is the context key for the authenticated token claims.
const ClaimsKey = "claims"

// Claims is the bearer token payload.
type Claims struct {
	UserID uuid.UUID          `json:"userId"`
	Email  string             `json:"email"`
	Roles  []models.RoleGrant `json:"roles"`
	jwt.RegisteredClaims
}

// RoleFor returns the role the token grants on companyID.
func (c *Claims) RoleFor(companyID uuid.UUID) models.Role {
	return models.EffectiveRole(c.Roles, companyID)
}

// HighestRole returns the strongest role in the token on any company.
func (c *Claims) HighestRole() models.Role {
	best := models.RoleNone
	for _, g := range c.Roles {
		if g.Role > best {
			best = g.Role
		}
	}
	return best
}

// IssueToken signs claims with HS256. ttl sets the expiry when the claims
// carry none.
func IssueToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil && ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	if claims.Subject == "" {
		claims.Subject = claims.UserID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}

// Authenticate rejects requests without a valid bearer token and stores
// the claims in the context.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "No token provided")
			return
		}

		claims, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected bearer token", map[string]interface{}{"reason": err.Error()})
			}
			message := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "Token expired"
			}
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose token does not grant at least min on
// the company named by the :companyId path parameter. On routes without
// that parameter the strongest role in the token is checked.
// internal_admin passes on every company.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
			return
		}

		var role models.Role
		if raw := c.Param("companyId"); raw != "" {
			companyID, err := uuid.Parse(raw)
			if err != nil {
				abort(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid company id")
				return
			}
			role = claims.RoleFor(companyID)
		} else {
			role = claims.HighestRole()
		}

		if !role.AtLeast(min) {
			abort(c, http.StatusForbidden, "FORBIDDEN",
				fmt.Sprintf("Insufficient permissions: requires %s", min))
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the authenticated claims from the Gin context.
// Returns nil if the request was not authenticated.
func GetClaims(c *gin.Context) *Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// abort writes the standard error envelope. Middleware cannot use the
// errors package, which depends on this one.
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
