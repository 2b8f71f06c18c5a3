// handlers/profile.go
package handlers

import (
	"net/http"

	"contentboost/catalog"
	"contentboost/game"
)

func GetMyProfile(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Profile()
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, map[string]interface{}{"profile": p})
	}
}

// GetBadges lists the full badge catalog.
func GetBadges() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, map[string]interface{}{"badges": catalog.Badges()})
	}
}
