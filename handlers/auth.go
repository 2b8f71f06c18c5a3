// handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"contentboost/middleware"
	"contentboost/models"
	"contentboost/session"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(store *session.Store, cookies sessions.Store, tokens *middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		user, err := store.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		signIn(w, r, cookies, tokens, user, req.Remember)
	}
}

func Register(store *session.Store, cookies sessions.Store, tokens *middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		user, err := store.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		signIn(w, r, cookies, tokens, user, false)
	}
}

func Guest(store *session.Store, cookies sessions.Store, tokens *middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signIn(w, r, cookies, tokens, store.LoginAsGuest(r.Context()), false)
	}
}

func Logout(store *session.Store, cookies sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Logout(r.Context())

		sess, _ := cookies.Get(r, middleware.SessionName)
		sess.Values = map[interface{}]interface{}{"authenticated": false}
		sess.Options.MaxAge = -1
		sess.Save(r, w)

		writeOK(w, map[string]interface{}{"message": "logged out"})
	}
}

func RefreshToken(tokens *middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		token, err := tokens.Refresh(req.Token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"message": "invalid token",
			})
			return
		}
		writeOK(w, map[string]interface{}{"token": token})
	}
}

// signIn starts a fresh cookie session for user, which also clears the
// tasks the previous user completed.
func signIn(w http.ResponseWriter, r *http.Request, cookies sessions.Store, tokens *middleware.Tokens, user models.User, remember bool) {
	token, err := tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, _ := cookies.Get(r, middleware.SessionName)
	sess.Values = map[interface{}]interface{}{
		"authenticated": true,
		"user_id":       user.ID,
		"username":      user.Username,
		"completed":     []string{},
	}
	if remember {
		sess.Options.MaxAge = 86400 * 30
	} else {
		sess.Options.MaxAge = 86400
	}
	if err := sess.Save(r, w); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
