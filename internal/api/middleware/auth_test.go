package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCaller = common.HexToAddress("0x00000000000000000000000000000000000000c1")

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(pemBytes)
}

func signToken(t *testing.T, key *rsa.PrivateKey, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := generateKey(t)
	otherKey, _ := generateKey(t)
	publicKey, err := ParseRSAPublicKey(publicPEM)
	require.NoError(t, err)

	valid := jwt.RegisteredClaims{
		Subject:   testCaller.Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name        string
		header      string
		expectError string
	}{
		{
			name:   "valid bearer token",
			header: "Bearer " + signToken(t, key, jwt.SigningMethodRS256, valid),
		},
		{
			name:        "missing header",
			header:      "",
			expectError: "missing Authorization header",
		},
		{
			name:        "malformed header",
			header:      "Bearer",
			expectError: "invalid Authorization header format",
		},
		{
			name:        "api key scheme",
			header:      "ApiKey secret",
			expectError: "unsupported authorization type",
		},
		{
			name:        "signed by another key",
			header:      "Bearer " + signToken(t, otherKey, jwt.SigningMethodRS256, valid),
			expectError: "failed to parse token",
		},
		{
			name: "expired",
			header: "Bearer " + signToken(t, key, jwt.SigningMethodRS256, jwt.RegisteredClaims{
				Subject:   testCaller.Hex(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}),
			expectError: "failed to parse token",
		},
		{
			name:        "subject is not an address",
			header:      "Bearer " + signToken(t, key, jwt.SigningMethodRS256, jwt.RegisteredClaims{Subject: "alice"}),
			expectError: "token subject is not an address",
		},
		{
			name:        "zero address subject",
			header:      "Bearer " + signToken(t, key, jwt.SigningMethodRS256, jwt.RegisteredClaims{Subject: common.Address{}.Hex()}),
			expectError: "token subject is not an address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Authenticate(tt.header, publicKey)

			if tt.expectError != "" {
				assert.False(t, result.Success)
				require.Error(t, result.Error)
				assert.Contains(t, result.Error.Error(), tt.expectError)
				return
			}
			require.NoError(t, result.Error)
			assert.True(t, result.Success)
			assert.Equal(t, testCaller, result.Caller)
		})
	}
}

func TestParseRSAPublicKey(t *testing.T) {
	_, publicPEM := generateKey(t)

	_, err := ParseRSAPublicKey(publicPEM)
	assert.NoError(t, err)

	_, err = ParseRSAPublicKey("")
	assert.Error(t, err)

	_, err = ParseRSAPublicKey("not a pem")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, publicPEM := generateKey(t)

	newRouter := func(cfg AuthConfig) *gin.Engine {
		router := gin.New()
		router.GET("/me", Auth(cfg), func(c *gin.Context) {
			caller, ok := Caller(c)
			require.True(t, ok)
			c.String(http.StatusOK, caller.Hex())
		})
		return router
	}

	token := signToken(t, key, jwt.SigningMethodRS256, jwt.RegisteredClaims{Subject: testCaller.Hex()})

	t.Run("sets caller", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter(AuthConfig{JWTPublicKey: publicPEM}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testCaller.Hex(), w.Body.String())
	})

	t.Run("rejects missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		newRouter(AuthConfig{JWTPublicKey: publicPEM}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
	})

	t.Run("rejects everything without a key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter(AuthConfig{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "2b1f6a86-6b4c-4a59-9a26-8a0c7c3f8f11")
	router.ServeHTTP(w, req)
	assert.Equal(t, "2b1f6a86-6b4c-4a59-9a26-8a0c7c3f8f11", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}
