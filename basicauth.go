package lattice

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost defines the computational cost of the bcrypt algorithm.
// Higher values are more secure but slower.
const bcryptCost = 12

// HashPassword generates a bcrypt hash of the given password. The resulting
// hash is safe to store in a database.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies that a plaintext password matches a bcrypt hash.
// Returns nil if the password is correct.
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// BasicAuth returns a generator enforcing HTTP Basic credentials against
// bcrypt hashes keyed by username. On success the username is added to the
// request context; otherwise the chain short-circuits with a 401 and a
// WWW-Authenticate challenge.
//
// The route's configuration value, when a non-empty string, overrides the
// challenge realm.
func BasicAuth(users map[string]string) Generator {
	return func(cfg any) Middleware {
		realm, _ := cfg.(string)
		if realm == "" {
			realm = "restricted"
		}
		return func(next Handler) Handler {
			return func(ctx context.Context, r *http.Request) Response {
				user, pass, ok := r.BasicAuth()
				if ok {
					if hash, found := users[user]; found && CheckPassword(pass, hash) == nil {
						return next(WithUserID(ctx, user), r)
					}
				}
				return basicChallenge{realm: realm}
			}
		}
	}
}

// basicChallenge is the 401 response carrying the WWW-Authenticate header.
type basicChallenge struct {
	realm string
}

func (c basicChallenge) Write(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+c.realm+`"`)
	return JSONResponse{
		StatusCode: http.StatusUnauthorized,
		Data:       map[string]string{"error": "unauthorized"},
	}.Write(ctx, w)
}
