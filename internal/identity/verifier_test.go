package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://id.lefade.example/"
	testAudience = "https://api.lefade.example"
)

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier("dev-secret")

	tok := signHS256(t, "dev-secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "john@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	claims, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "john@example.com", claims.Email)

	t.Run("wrong secret", func(t *testing.T) {
		bad := signHS256(t, "other", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
		_, err := v.Verify(context.Background(), bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := signHS256(t, "dev-secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()})
		_, err := v.Verify(context.Background(), old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		nosub := signHS256(t, "dev-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		_, err := v.Verify(context.Background(), nosub)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newJWKS(key, "test-key"))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	v, err := NewJWKSVerifier(ctx, testIssuer, testAudience, server.URL)
	require.NoError(t, err)

	claims, err := v.Verify(ctx, signRS256(t, key, "test-key", testIssuer, testAudience))
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)

	t.Run("unknown key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = v.Verify(ctx, signRS256(t, other, "test-key", testIssuer, testAudience))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := v.Verify(ctx, signRS256(t, key, "test-key", testIssuer, "https://elsewhere"))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tok, ok := ExtractBearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = ExtractBearerToken("bearer  xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Token abc"} {
		_, ok := ExtractBearerToken(h)
		assert.False(t, ok, h)
	}
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid, issuer, audience string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": "user-123",
		"exp": now.Add(10 * time.Minute).Unix(),
		"iat": now.Unix(),
	})
	token.Header["kid"] = kid
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func newJWKS(key *rsa.PrivateKey, kid string) map[string][]jwk {
	return map[string][]jwk{
		"keys": {{
			Kty: "RSA",
			Kid: kid,
			Use: "sig",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
}
