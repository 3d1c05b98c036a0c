package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/marketplace-api/internal/utils"
)

// Context keys under which the verified identity is stored.  Handlers read
// these via c.Get().
const (
    CtxUserID = "user_id"
    CtxEmail  = "email"
    CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity into the request context.  Requests with
// a missing or malformed Authorization header are rejected with 401 before
// reaching the handler.  A missing signing secret is a server
// misconfiguration and maps to 500, never to an auth failure.
func JWTAuth(tokens *utils.TokenService) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Missing Authorization header"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            id, err := tokens.VerifyAccessToken(raw)
            if err == utils.ErrNoSecret {
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server misconfiguration"})
            }
            if err != nil {
                // Bad signature and elapsed window are deliberately
                // indistinguishable here.
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
            }

            c.Set(CtxUserID, id.UserID)
            c.Set(CtxEmail, id.Email)
            c.Set(CtxRole, id.Role)
            return next(c)
        }
    }
}
