package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
    Env               string // application environment (e.g. "dev", "prod")
    Port              string // HTTP port to listen on
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    AccessTokenSecret string // secret used to sign access tokens (may be empty, see below)
    AccessTTLSeconds  int    // access token time‑to‑live in seconds
    RefreshTTLDays    int    // refresh token time‑to‑live in days
    BcryptCost        int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Database settings are required and enforced by must(); missing
// values cause the program to exit with a fatal log message.
//
// ACCESS_TOKEN_SECRET is intentionally NOT required at startup: its absence
// is a server misconfiguration surfaced as a 500 on token operations, so
// the rest of the API keeps serving.
func Load() Config {
    return Config{
        Env:               getenv("APP_ENV", "dev"),
        Port:              getenv("APP_PORT", "3000"),
        DBUser:            must("DB_USER"),
        DBPass:            os.Getenv("DB_PASS"), // empty allowed
        DBHost:            must("DB_HOST"),
        DBPort:            must("DB_PORT"),
        DBName:            must("DB_NAME"),
        AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
        AccessTTLSeconds:  intenv("ACCESS_TOKEN_TTL_SECONDS", 300),
        RefreshTTLDays:    intenv("REFRESH_TOKEN_TTL_DAYS", 7),
        BcryptCost:        intenv("BCRYPT_COST", 10),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// intenv returns the variable parsed as an int, or a default when unset.
// An unparsable value is a fatal configuration error.
func intenv(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}
