// middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"contentboost/session"
)

// SessionName is the cookie session shared by the auth handlers and Auth.
const SessionName = "session"

type userIDKey struct{}

// UserID returns the id Auth resolved for the request.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// Auth admits a request carrying either an authenticated cookie session or a
// bearer token, and only when it names the user the store currently holds.
func Auth(cookies sessions.Store, tokens *Tokens, store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string

			sess, _ := cookies.Get(r, SessionName)
			if auth, ok := sess.Values["authenticated"].(bool); ok && auth {
				userID, _ = sess.Values["user_id"].(string)
			} else {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					unauthorized(w, "authentication required")
					return
				}
				scheme, raw, found := strings.Cut(authHeader, " ")
				if !found || scheme != "Bearer" {
					unauthorized(w, "invalid token format")
					return
				}
				claims, err := tokens.Parse(raw)
				if err != nil {
					unauthorized(w, "invalid token")
					return
				}
				userID, _ = claims["user_id"].(string)
			}

			current, ok := store.Current()
			if !ok || userID == "" || current.ID != userID {
				unauthorized(w, "session expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": msg,
	})
}
