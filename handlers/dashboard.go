// handlers/dashboard.go
package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"contentboost/game"
)

func GetDashboard(svc *game.Service, cookies sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.Dashboard(completedTasks(cookies, r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, map[string]interface{}{"dashboard": data})
	}
}
