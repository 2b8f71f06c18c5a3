// handlers/websocket.go
package handlers

import (
	"net/http"
	"slices"

	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"

	"contentboost/apperr"
	"contentboost/game"
	"contentboost/logger"
	"contentboost/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SubmitWebSocket scores submissions over a websocket so the client can show
// a pending state while the evaluator runs. Every message gets a "pending"
// frame followed by "scored" or "error".
//
// Headers are gone once the connection is upgraded, so completions made here
// are tracked per connection on top of the cookie list read at upgrade time.
// Each message is credited to the user authenticated at upgrade and fails
// once another user has taken over the session.
func SubmitWebSocket(svc *game.Service, cookies sessions.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		done := completedTasks(cookies, r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()
		userID := middleware.UserID(r.Context())
		log.Debug("websocket opened", "user_id", userID)

		for {
			var req SubmitRequest
			if err := conn.ReadJSON(&req); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("websocket read ended", "error", err)
				}
				return
			}

			if err := conn.WriteJSON(map[string]interface{}{"status": "pending", "task_id": req.TaskID}); err != nil {
				return
			}

			if slices.Contains(done, req.TaskID) {
				if err := writeWSError(conn, apperr.Conflict("task already completed")); err != nil {
					return
				}
				continue
			}

			sub, granted, err := svc.SubmitAs(r.Context(), userID, req.TaskID, req.Content)
			if err != nil {
				if err := writeWSError(conn, err); err != nil {
					return
				}
				continue
			}
			done = append(done, req.TaskID)

			msg := submitResult(sub, granted)
			msg["status"] = "scored"
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func writeWSError(conn *websocket.Conn, err error) error {
	return conn.WriteJSON(map[string]interface{}{
		"status":  "error",
		"code":    apperr.StatusOf(err),
		"message": err.Error(),
	})
}
