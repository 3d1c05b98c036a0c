package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // sentinel errors such as sql.ErrNoRows
    "log"          // server-side logging of internal failures
    "net/http"     // HTTP status codes and primitives
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/marketplace-api/internal/middleware"
    "github.com/iliyamo/marketplace-api/internal/model"
    "github.com/iliyamo/marketplace-api/internal/repository"
    "github.com/iliyamo/marketplace-api/internal/utils"
)

// UserStore is the slice of the user repository the auth handlers need.
type UserStore interface {
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore is the slice of the refresh token repository the auth handlers
// need.
type TokenStore interface {
    Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
    Rotate(ctx context.Context, oldHash, newHash string, newExp time.Time) (uint64, error)
    Revoke(ctx context.Context, tokenHash string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Users  UserStore
    Tokens TokenStore
    Issuer *utils.TokenService
}

func NewAuthHandler(u UserStore, t TokenStore, issuer *utils.TokenService) *AuthHandler {
    return &AuthHandler{Users: u, Tokens: t, Issuer: issuer}
}

// ----- DTOs -----

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refreshToken"`
}

// tokenResp is the shape shared by login and refresh.
type tokenResp struct {
    AccessToken  string `json:"accessToken"`
    RefreshToken string `json:"refreshToken"`
    TokenType    string `json:"tokenType"`
    ExpiresIn    int    `json:"expiresIn"`
}

type meResp struct {
    ID        uint64    `json:"id"`
    Email     string    `json:"email"`
    Role      string    `json:"role"`
    CreatedAt time.Time `json:"createdAt"`
}

// issuePair mints an access token and a stored refresh token for a user.
func (h *AuthHandler) issuePair(ctx context.Context, u model.User) (tokenResp, error) {
    access, err := h.Issuer.NewAccessToken(u.ID, u.Email, u.Role)
    if err != nil {
        return tokenResp{}, err
    }
    refresh, err := h.Issuer.NewRefreshToken()
    if err != nil {
        return tokenResp{}, err
    }
    if err := h.Tokens.Store(ctx, u.ID, utils.HashRefreshToken(refresh.Raw), refresh.Exp); err != nil {
        return tokenResp{}, err
    }
    return tokenResp{
        AccessToken:  access.Token,
        RefreshToken: refresh.Raw, // raw back to client, hash at rest
        TokenType:    "Bearer",
        ExpiresIn:    int(h.Issuer.AccessTTL / time.Second),
    }, nil
}

// Login verifies credentials and returns a fresh token pair.  Unknown email
// and wrong password produce the same response so the client cannot tell
// which check failed.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
        }
        log.Printf("login: query user: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
    }

    resp, err := h.issuePair(ctx, u)
    if err == utils.ErrNoSecret {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server misconfiguration"})
    }
    if err != nil {
        log.Printf("login: issue tokens: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// one is minted in the same transaction.  A token that is unknown, revoked,
// expired, or already rotated by a concurrent request yields one
// indistinguishable 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "refreshToken is required"})
    }
    oldHash := utils.HashRefreshToken(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    next, err := h.Issuer.NewRefreshToken()
    if err != nil {
        log.Printf("refresh: issue token: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }

    userID, err := h.Tokens.Rotate(ctx, oldHash, utils.HashRefreshToken(next.Raw), next.Exp)
    if err != nil {
        if err == repository.ErrTokenNotActive {
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid refresh token"})
        }
        log.Printf("refresh: rotate: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid refresh token"})
        }
        log.Printf("refresh: load user: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }

    access, err := h.Issuer.NewAccessToken(u.ID, u.Email, u.Role)
    if err == utils.ErrNoSecret {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server misconfiguration"})
    }
    if err != nil {
        log.Printf("refresh: sign access: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    return c.JSON(http.StatusOK, tokenResp{
        AccessToken:  access.Token,
        RefreshToken: next.Raw,
        TokenType:    "Bearer",
        ExpiresIn:    int(h.Issuer.AccessTTL / time.Second),
    })
}

// Logout revokes every row matching the presented refresh token.  Unknown
// and already-revoked tokens still succeed, so repeated logouts are
// harmless.  Access tokens are stateless and simply expire.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "refreshToken is required"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tokens.Revoke(ctx, utils.HashRefreshToken(strings.TrimSpace(req.RefreshToken))); err != nil {
        log.Printf("logout: revoke: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the current persisted identity.  The user row is re-read from
// the store so role or email changes since token issuance are reflected.
func (h *AuthHandler) Me(c echo.Context) error {
    userID, ok := c.Get(middleware.CtxUserID).(uint64)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
        }
        log.Printf("me: load user: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
    }
    return c.JSON(http.StatusOK, meResp{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
}
