// handlers/leaderboard.go
package handlers

import (
	"net/http"

	"contentboost/game"
)

func GetLeaderboard(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board := svc.Leaderboard()
		writeOK(w, map[string]interface{}{
			"entries": board.Entries,
			"podium":  board.Podium,
			"rest":    board.Rest,
			"stats":   board.Stats,
		})
	}
}
