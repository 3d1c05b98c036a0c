package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for refresh tokens
    "encoding/hex"  // hex encoding functions
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrNoSecret indicates that the signing secret is not configured.  It is a
// server misconfiguration, not an authentication failure, and handlers map
// it to HTTP 500.
var ErrNoSecret = errors.New("access token secret not configured")

// ErrInvalidToken covers every access token rejection: bad signature,
// malformed token, elapsed validity window.  The cases are deliberately
// indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short‑lived and carried in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long‑lived opaque token used to obtain new
// access tokens.  Raw is the token string returned to the client; only a
// SHA‑256 hash of it is persisted.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// Identity is the verified content of an access token.
type Identity struct {
    UserID uint64
    Email  string
    Role   string
}

// TokenService issues and verifies tokens.  Now is injectable so tests can
// move the clock past an access token's validity window.
type TokenService struct {
    Secret     string
    AccessTTL  time.Duration
    RefreshTTL time.Duration
    Now        func() time.Time
}

// NewTokenService builds a TokenService with a real clock.  ttlSeconds and
// ttlDays follow the configuration defaults (300 seconds, 7 days).
func NewTokenService(secret string, ttlSeconds, ttlDays int) *TokenService {
    return &TokenService{
        Secret:     secret,
        AccessTTL:  time.Duration(ttlSeconds) * time.Second,
        RefreshTTL: time.Duration(ttlDays) * 24 * time.Hour,
        Now:        func() time.Time { return time.Now().UTC() },
    }
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The claims are
// subject (sub), email, role, expiration (exp) and issued at (iat).
func (s *TokenService) NewAccessToken(userID uint64, email, role string) (AccessToken, error) {
    if s.Secret == "" {
        return AccessToken{}, ErrNoSecret
    }
    now := s.Now()
    exp := now.Add(s.AccessTTL)
    claims := jwt.MapClaims{
        "sub":   userID,
        "email": email,
        "role":  role,
        "exp":   exp.Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(s.Secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks the signature and validity window of a token and
// returns the identity it encodes.  Every rejection surfaces as
// ErrInvalidToken; a missing secret surfaces as ErrNoSecret.
func (s *TokenService) VerifyAccessToken(raw string) (Identity, error) {
    if s.Secret == "" {
        return Identity{}, ErrNoSecret
    }
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(s.Secret), nil
    }, jwt.WithTimeFunc(s.Now))
    if err != nil || !tok.Valid {
        return Identity{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Identity{}, ErrInvalidToken
    }
    var id Identity
    switch sub := claims["sub"].(type) {
    case float64:
        id.UserID = uint64(sub)
    case string:
        n, err := strconv.ParseUint(sub, 10, 64)
        if err != nil {
            return Identity{}, ErrInvalidToken
        }
        id.UserID = n
    default:
        return Identity{}, ErrInvalidToken
    }
    id.Email, _ = claims["email"].(string)
    id.Role, _ = claims["role"].(string)
    return id, nil
}

// NewRefreshToken returns a cryptographically secure random token and its
// expiration time.  48 random bytes hex-encoded give 96 characters, far
// above the 128-bit entropy floor required for session tokens.
func (s *TokenService) NewRefreshToken() (RefreshToken, error) {
    raw, err := randomHex(48)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Raw: raw, Exp: s.Now().Add(s.RefreshTTL)}, nil
}

// HashRefreshToken returns the SHA‑256 hash of the raw refresh token as a
// hex string.  Only the hash is stored so a leaked database cannot be used
// to refresh sessions.
func HashRefreshToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
