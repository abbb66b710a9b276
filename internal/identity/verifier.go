// Package identity verifies bearer tokens issued by the external identity
// provider.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const defaultLeeway = 30 * time.Second

var ErrInvalidToken = errors.New("identity: invalid token")

// Claims is the verified principal.
type Claims struct {
	Subject   string
	Issuer    string
	Email     string
	Name      string
	ExpiresAt time.Time
	Raw       map[string]any
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// --------------------------------------------------
// JWKS (RS256) verifier
// --------------------------------------------------

type JWKSVerifier struct {
	issuer   string
	audience string
	keyfunc  keyfunc.Keyfunc
	parser   *jwt.Parser
}

// NewJWKSVerifier validates RS tokens against the issuer's key set. The key
// set URL defaults to <issuer>/.well-known/jwks.json.
func NewJWKSVerifier(ctx context.Context, issuer, audience, jwksURL string) (*JWKSVerifier, error) {
	normalizedIssuer := normalizeIssuer(issuer)
	if normalizedIssuer == "" && jwksURL == "" {
		return nil, errors.New("issuer or JWKS URL must be set")
	}
	if jwksURL == "" {
		jwksURL = normalizedIssuer + ".well-known/jwks.json"
	}

	keyProvider, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init JWKS keyfunc: %w", err)
	}

	opts := []jwt.ParserOption{
		jwt.WithLeeway(defaultLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{
			jwt.SigningMethodRS256.Name,
			jwt.SigningMethodRS384.Name,
			jwt.SigningMethodRS512.Name,
		}),
	}
	if normalizedIssuer != "" {
		opts = append(opts, jwt.WithIssuer(normalizedIssuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &JWKSVerifier{
		issuer:   normalizedIssuer,
		audience: audience,
		keyfunc:  keyProvider,
		parser:   jwt.NewParser(opts...),
	}, nil
}

func (v *JWKSVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	token, err := v.parser.Parse(tokenString, v.keyfunc.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claimsFrom(token)
}

// --------------------------------------------------
// Shared secret (HS256) verifier for local development
// --------------------------------------------------

type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithLeeway(defaultLeeway),
			jwt.WithExpirationRequired(),
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		),
	}
}

func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	token, err := v.parser.Parse(tokenString, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claimsFrom(token)
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func claimsFrom(token *jwt.Token) (*Claims, error) {
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	claims := &Claims{
		Subject:   readString(mapClaims, "sub"),
		Issuer:    readString(mapClaims, "iss"),
		Email:     readString(mapClaims, "email"),
		Name:      readString(mapClaims, "name"),
		ExpiresAt: readExpiry(mapClaims["exp"]),
		Raw:       mapClaims,
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return claims, nil
}

func normalizeIssuer(issuer string) string {
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return ""
	}
	if !strings.HasSuffix(issuer, "/") {
		issuer += "/"
	}
	return issuer
}

func readString(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}

func readExpiry(raw any) time.Time {
	switch v := raw.(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return time.Unix(i, 0)
		}
	case int64:
		return time.Unix(v, 0)
	}
	return time.Time{}
}

// ExtractBearerToken returns the token of an "Authorization: Bearer x" header.
func ExtractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// FromSettings picks the JWKS verifier when an issuer or key set URL is
// configured and the shared-secret verifier when only a secret is. It
// returns nil when neither is set.
func FromSettings(ctx context.Context, issuer, audience, jwksURL, secret string) (Verifier, error) {
	switch {
	case issuer != "" || jwksURL != "":
		return NewJWKSVerifier(ctx, issuer, audience, jwksURL)
	case secret != "":
		return NewHMACVerifier(secret), nil
	default:
		return nil, nil
	}
}
