package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/pkg/jwt"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	CallerAddressKey = "callerAddress"
	RoleKey          = "role"

	OracleKeyHeader = "X-Oracle-Key"
)

// JWTAuthMiddleware authenticates the caller from a bearer token and stores
// its address in the context
func JWTAuthMiddleware(issuer *jwt.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := issuer.Parse(authHeader[len(bearerSchema):])
		if err != nil {
			log.WithError(err).WithField("path", c.FullPath()).Warn("token rejected")
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(CallerAddressKey, models.Address(claims.Subject))
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole admits only callers whose token carries role. It runs after
// JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != role {
			log.WithFields(log.Fields{
				"caller": CallerAddress(c),
				"path":   c.FullPath(),
			}).Warn("role rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}
		c.Next()
	}
}

// OracleKeyMiddleware admits only requests carrying the oracle key whose
// bcrypt hash is keyHash
func OracleKeyMiddleware(keyHash string) gin.HandlerFunc {
	hash := []byte(keyHash)
	return func(c *gin.Context) {
		key := c.GetHeader(OracleKeyHeader)
		if key == "" || len(hash) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Oracle key is required"})
			return
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
			log.WithField("ip", c.ClientIP()).Warn("oracle key rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid oracle key"})
			return
		}
		c.Next()
	}
}

// CallerAddress returns the address set by JWTAuthMiddleware
func CallerAddress(c *gin.Context) models.Address {
	if v, ok := c.Get(CallerAddressKey); ok {
		if addr, ok := v.(models.Address); ok {
			return addr
		}
	}
	return ""
}
