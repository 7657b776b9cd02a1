package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-settlement/internal/api/shared/errors"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	AUTH_CALLER_KEY contextKey = "auth_caller"
	JWT_CLAIMS_KEY  contextKey = "jwt_claims"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success bool
	Claims  *jwt.RegisteredClaims
	Caller  common.Address
	Error   error
}

// Authenticate validates a bearer token whose subject is the caller's address
func Authenticate(authHeader string, publicKey *rsa.PublicKey) AuthResult {
	result := AuthResult{
		Success: false,
	}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	// Parse the authorization header
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}
	if strings.ToLower(parts[0]) != "bearer" {
		result.Error = fmt.Errorf("unsupported authorization type: %s", parts[0])
		return result
	}

	claims, err := validateJWT(parts[1], publicKey)
	if err != nil {
		result.Error = err
		return result
	}

	caller, err := domain.ParseAddress(claims.Subject)
	if err != nil || caller == (common.Address{}) {
		result.Error = errors.New("token subject is not an address")
		return result
	}

	result.Success = true
	result.Claims = claims
	result.Caller = caller
	return result
}

// Auth returns a gin middleware for JWT authentication.
// A key that cannot be parsed rejects every request.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	publicKey, keyErr := ParseRSAPublicKey(cfg.JWTPublicKey)
	if keyErr != nil {
		logger.Warn("JWT public key unusable, authenticated routes will reject all requests", zap.Error(keyErr))
	}

	return func(c *gin.Context) {
		var result AuthResult
		if keyErr != nil {
			result.Error = fmt.Errorf("failed to parse RSA public key: %w", keyErr)
		} else {
			result = Authenticate(c.GetHeader("Authorization"), publicKey)
		}

		if !result.Success {
			logger.Warn("Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apiErr})
			return
		}

		c.Set(string(JWT_CLAIMS_KEY), result.Claims)
		c.Set(string(AUTH_CALLER_KEY), result.Caller)
		logger.Debug("JWT authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.String("caller", result.Caller.Hex()),
		)

		c.Next()
	}
}

// Caller returns the authenticated caller set by Auth
func Caller(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(string(AUTH_CALLER_KEY))
	if !ok {
		return common.Address{}, false
	}
	caller, ok := v.(common.Address)
	return caller, ok
}

// validateJWT validates a JWT token with RSA signature and returns claims
func validateJWT(tokenString string, publicKey *rsa.PublicKey) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is RSA
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	now := time.Now()
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return nil, errors.New("token has expired")
	}
	if claims.NotBefore != nil && claims.NotBefore.After(now) {
		return nil, errors.New("token not yet valid")
	}

	return claims, nil
}

// ParseRSAPublicKey parses a PKIX, PKCS1 or certificate PEM holding an RSA public key
func ParseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	if strings.TrimSpace(publicKeyPEM) == "" {
		return nil, errors.New("JWT public key not configured")
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT public key: %w", err)
	}
	return key, nil
}
