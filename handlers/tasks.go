// handlers/tasks.go
package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"contentboost/apperr"
	"contentboost/game"
	"contentboost/logger"
	"contentboost/middleware"
	"contentboost/models"
)

type TaskView struct {
	models.Task
	TimeLeft  int  `json:"timeLeft"` // hours
	Completed bool `json:"completed"`
}

type SubmitRequest struct {
	TaskID  string `json:"task_id"`
	Content string `json:"content"`
}

func GetTasks(svc *game.Service, cookies sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		done := completedTasks(cookies, r)
		now := time.Now()
		tasks := svc.Tasks()
		views := make([]TaskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, TaskView{
				Task:      t,
				TimeLeft:  t.TimeLeft(now),
				Completed: slices.Contains(done, t.ID),
			})
		}
		writeOK(w, map[string]interface{}{"tasks": views})
	}
}

func GetTask(svc *game.Service, cookies sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Task(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, map[string]interface{}{"task": TaskView{
			Task:      t,
			TimeLeft:  t.TimeLeft(time.Now()),
			Completed: slices.Contains(completedTasks(cookies, r), t.ID),
		}})
	}
}

// SubmitTask scores a submission once per task per cookie session.
func SubmitTask(svc *game.Service, cookies sessions.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := mux.Vars(r)["id"]

		var req SubmitRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}

		sess, _ := cookies.Get(r, middleware.SessionName)
		done, _ := sess.Values["completed"].([]string)
		if slices.Contains(done, taskID) {
			writeError(w, apperr.Conflict("task already completed"))
			return
		}

		userID := middleware.UserID(r.Context())
		sub, granted, err := svc.SubmitAs(r.Context(), userID, taskID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}

		sess.Values["completed"] = append(done, taskID)
		if err := sess.Save(r, w); err != nil {
			log.Warn("failed to save completed task to session",
				"user_id", userID,
				"task_id", taskID,
				"error", err,
			)
		}

		writeOK(w, submitResult(sub, granted))
	}
}

func submitResult(sub models.Submission, granted []models.Badge) map[string]interface{} {
	if granted == nil {
		granted = []models.Badge{}
	}
	return map[string]interface{}{
		"submission": sub,
		"result": models.Result{
			Points:     sub.Points,
			Percentage: sub.Percentage,
			Feedback:   sub.Feedback,
		},
		"badges": granted,
		"user":   sub.User,
	}
}

func completedTasks(cookies sessions.Store, r *http.Request) []string {
	sess, err := cookies.Get(r, middleware.SessionName)
	if err != nil {
		return nil
	}
	done, _ := sess.Values["completed"].([]string)
	return done
}
