// handlers/submissions.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"contentboost/game"
	"contentboost/models"
)

type CommentRequest struct {
	Content string `json:"content"`
}

func GetSubmissions(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, map[string]interface{}{"submissions": svc.Feed()})
	}
}

func AddComment(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommentRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		c, granted, err := svc.Comment(r.Context(), mux.Vars(r)["id"], req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		if granted == nil {
			granted = []models.Badge{}
		}
		writeOK(w, map[string]interface{}{
			"comment": c,
			"badges":  granted,
		})
	}
}
