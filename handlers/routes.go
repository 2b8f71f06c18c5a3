// handlers/routes.go
package handlers

import (
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"contentboost/game"
	"contentboost/logger"
	"contentboost/middleware"
	"contentboost/session"
)

type Deps struct {
	Store   *session.Store
	Service *game.Service
	Cookies sessions.Store
	Tokens  *middleware.Tokens
	Log     *logger.Logger
}

// NewRouter mounts the JSON API under /api.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logger(d.Log))

	api := r.PathPrefix("/api").Subrouter()

	// public
	api.HandleFunc("/auth/login", Login(d.Store, d.Cookies, d.Tokens)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/register", Register(d.Store, d.Cookies, d.Tokens)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/guest", Guest(d.Store, d.Cookies, d.Tokens)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", Logout(d.Store, d.Cookies)).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", RefreshToken(d.Tokens)).Methods("POST", "OPTIONS")

	api.HandleFunc("/tasks", GetTasks(d.Service, d.Cookies)).Methods("GET")
	api.HandleFunc("/tasks/{id}", GetTask(d.Service, d.Cookies)).Methods("GET")
	api.HandleFunc("/submissions", GetSubmissions(d.Service)).Methods("GET")
	api.HandleFunc("/leaderboard", GetLeaderboard(d.Service)).Methods("GET")
	api.HandleFunc("/badges", GetBadges()).Methods("GET")

	// protected
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.Auth(d.Cookies, d.Tokens, d.Store))

	protected.HandleFunc("/tasks/{id}/submit", SubmitTask(d.Service, d.Cookies, d.Log)).Methods("POST")
	protected.HandleFunc("/submissions/{id}/comments", AddComment(d.Service)).Methods("POST")
	protected.HandleFunc("/user/profile", GetMyProfile(d.Service)).Methods("GET")
	protected.HandleFunc("/dashboard", GetDashboard(d.Service, d.Cookies)).Methods("GET")
	protected.HandleFunc("/ws/submit", SubmitWebSocket(d.Service, d.Cookies, d.Log))

	return r
}
