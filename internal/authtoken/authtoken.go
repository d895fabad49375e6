// Package authtoken issues and verifies the web session JWT described in
// spec.md §4.8: claims {user_id, home_id, role, exp}, signed with the
// deployment's web secret (internal/config's Auth.WebSecret), carried in
// the web_jwt_token cookie. Shape and Parse/Issue split are grounded on
// mind-engage-mindengage-lms's internal/auth/middleware AuthService,
// generalized from a single bearer-only claims type to one that also
// carries the tenant's home_id, which this system's gate needs to cross
// check against the URL tenant on every standard-mode request.
package authtoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned for any unparseable, unsigned, or expired token.
var ErrInvalid = errors.New("authtoken: invalid or expired token")

// Claims is the payload carried by both the access and refresh cookie;
// refresh tokens carry an empty Role and a longer expiry.
type Claims struct {
	UserID int64  `json:"user_id"`
	HomeID uint64 `json:"home_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer issues and verifies tokens for one signing domain (web sessions
// or the separate admin surface use distinct Issuers with distinct
// secrets, per config's Auth.WebSecret / Auth.AdminSecret).
type Issuer struct {
	secret []byte
}

// New builds an Issuer bound to secret.
func New(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// IssueAccess mints a short-lived token carrying the full caller identity,
// used for the web_jwt_token cookie.
func (i *Issuer) IssueAccess(userID int64, homeID uint64, role string, ttl time.Duration) (string, error) {
	return i.issue(userID, homeID, role, ttl)
}

// IssueRefresh mints a long-lived token with an empty role, exchanged back
// for a fresh access token but never itself accepted by the gate.
func (i *Issuer) IssueRefresh(userID int64, homeID uint64, ttl time.Duration) (string, error) {
	return i.issue(userID, homeID, "", ttl)
}

func (i *Issuer) issue(userID int64, homeID uint64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		HomeID: homeID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Parse verifies signature and expiry and returns the embedded claims.
// WithValidMethods pins acceptance to HS256, the only method issue ever
// signs with, so a token with an altered "alg" header (e.g. "none") is
// rejected before the keyfunc ever returns a key.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalid
	}
	return claims, nil
}
