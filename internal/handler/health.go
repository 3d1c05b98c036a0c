package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Root returns a small banner listing the available route groups so a
// developer hitting the bare host sees something useful.
func Root(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Marketplace API is running",
        "routes": echo.Map{
            "auth":     []string{"/auth/login", "/auth/refresh", "/auth/logout", "/auth/me"},
            "products": []string{"/products"},
        },
    })
}
