package config // package config loads application configuration from environment variables

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Identifiers and secrets stay strings; the
// token lifetimes and the bcrypt cost are numeric because that is how
// they are consumed.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTModulus     string // base64url RSA public modulus (USER_JWT_N)
	JWTPrivateExp  string // base64url RSA private exponent (USER_JWT_D)
	JWTKeyID       string // key id placed in every token header
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The token
// lifetimes and bcrypt cost have defaults matching what clients expect:
// one hour access tokens, thirty day refresh tokens.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTModulus:     must("USER_JWT_N"),
		JWTPrivateExp:  must("USER_JWT_D"),
		JWTKeyID:       envStr("USER_JWT_KID", "user_manager_kid"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 30),
		BcryptCost:     envInt("BCRYPT_COST", 12),
	}
}

// AccessTTL returns the configured access token lifetime.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the configured refresh token lifetime.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// SigningKey assembles the RSA private key from the modulus and private
// exponent in the environment.  The public exponent is the usual 65537
// ("AQAB").  The resulting key has no CRT precomputation, which is fine
// for signing.
func (c Config) SigningKey() (*rsa.PrivateKey, error) {
	n, err := decodeBigInt(c.JWTModulus)
	if err != nil {
		return nil, fmt.Errorf("decode USER_JWT_N: %w", err)
	}
	d, err := decodeBigInt(c.JWTPrivateExp)
	if err != nil {
		return nil, fmt.Errorf("decode USER_JWT_D: %w", err)
	}
	return &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: 65537},
		D:         d,
	}, nil
}

// decodeBigInt parses a base64url-encoded big-endian integer.  Padding
// is tolerated since key material is often copied around with it.
func decodeBigInt(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envStr returns the value of an environment variable or a default when
// it is unset or empty.
func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envInt is like envStr but converts the value into an integer, falling
// back to the default on parse errors.
func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

// envBool parses common boolean spellings, falling back to the default.
func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

// envDur parses a Go duration string, falling back to the default.
func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
