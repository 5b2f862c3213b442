package lattice

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const userIDKey contextKey = "userID"

// JWTAuth returns a generator that validates JWT bearer tokens from the
// Authorization header ("Authorization: Bearer <token>"). On success the
// token's subject is added to the request context; otherwise the chain
// short-circuits with a 401.
//
// The route's configuration value, when a non-empty string, names the only
// subject the route accepts; any other valid token gets a 403.
//
//	reg.Add(lattice.Descriptor{
//	    Name:     "authorization",
//	    Policy:   lattice.Policy{lattice.IncludeOptional},
//	    Generate: lattice.JWTAuth(secret),
//	})
func JWTAuth(secret string) Generator {
	return func(cfg any) Middleware {
		subject, _ := cfg.(string)
		return func(next Handler) Handler {
			return func(ctx context.Context, r *http.Request) Response {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					return JSON(http.StatusUnauthorized, map[string]string{
						"error": "missing authorization header",
					})
				}

				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					return JSON(http.StatusUnauthorized, map[string]string{
						"error": "invalid authorization format",
					})
				}

				userID, err := ValidateJWT(parts[1], secret)
				if err != nil {
					return JSON(http.StatusUnauthorized, map[string]string{
						"error": "invalid token",
					})
				}

				if subject != "" && userID != subject {
					return JSON(http.StatusForbidden, map[string]string{
						"error": "subject not allowed",
					})
				}

				return next(WithUserID(ctx, userID), r)
			}
		}
	}
}

// GenerateJWT creates a signed token for the given user ID with standard
// claims (subject, issued at, expiration).
func GenerateJWT(userID string, secret string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT parses a token, verifies its signature and expiration, and
// returns the user ID from the "sub" claim.
func ValidateJWT(tokenString string, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("missing user ID in token")
	}

	return userID, nil
}

// WithUserID adds a user ID to the request context. Called by the auth
// middleware; exposed for tests and custom generators.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts the user ID from the request context. The boolean
// reports whether one was set.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
