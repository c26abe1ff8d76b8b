// Package token encodes and decodes the signed claims carried by API
// tokens. Signing is asymmetric (RS256) so verifiers only need the public
// key, which is published at /.well-known/jwks.json.
package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strconv"
	"time"

	"orbit/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is the "iss" claim stamped on every token.
	Issuer = "orbit-api"
	// Audience is the "aud" claim stamped on every token.
	Audience = "orbit-client"
)

// Verification failure classes. Callers can distinguish them with
// errors.Is; the HTTP layer surfaces all three uniformly as 401.
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token malformed")
	ErrSignature = errors.New("token signature invalid")
)

// Claims is the verified payload of a signed token.
type Claims struct {
	UserID   uint            `json:"uid"`
	Email    string          `json:"email"`
	Tier     models.UserTier `json:"tier"`
	Role     models.UserRole `json:"role"`
	Username string          `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed tokens. It is stateless; a Codec is a
// pure function of its key pair and TTL.
type Codec struct {
	priv *rsa.PrivateKey
	ttl  time.Duration
	kid  string
	now  func() time.Time
}

// NewCodec returns a Codec signing with priv. TTL is fixed per deployment
// profile, not per request.
func NewCodec(priv *rsa.PrivateKey, ttl time.Duration) *Codec {
	return &Codec{
		priv: priv,
		ttl:  ttl,
		kid:  keyID(&priv.PublicKey),
		now:  time.Now,
	}
}

// Issue creates a signed token for the given user.
func (c *Codec) Issue(user *models.User) (string, error) {
	if c.priv == nil {
		return "", fmt.Errorf("signing key not configured")
	}

	now := c.now()
	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Tier:     user.Tier,
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.New().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = c.kid
	return tok.SignedString(c.priv)
}

// Verify parses and validates a signed token, returning its claims.
// Failures are classified as ErrExpired, ErrSignature or ErrMalformed.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return &c.priv.PublicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if !tok.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// keyID derives a stable key identifier from the public key modulus.
func keyID(pub *rsa.PublicKey) string {
	sum := sha256.Sum256(pub.N.Bytes())
	return hex.EncodeToString(sum[:8])
}

// LoadPrivateKey parses a PKCS#1 or PKCS#8 PEM-encoded RSA private key.
func LoadPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block found in key data")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("PEM block does not contain an RSA private key")
	}
	return key, nil
}

// GenerateDevKey creates an ephemeral 2048-bit key for development and
// tests. Production deployments must configure a persistent key file.
func GenerateDevKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}
