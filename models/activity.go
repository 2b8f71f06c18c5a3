// models/activity.go

package models

import "time"

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// EarnedBadge is a catalog badge annotated for a profile view.
type EarnedBadge struct {
	Badge
	Earned bool `json:"earned"`
}

type Comment struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId"`
	UserID       string    `json:"userId"`
	User         User      `json:"user"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Submission struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	UserID     string    `json:"userId"`
	User       User      `json:"user"`
	Content    string    `json:"content"`
	Points     int       `json:"points"`
	Percentage int       `json:"percentage"`
	Feedback   string    `json:"feedback"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AddComment appends c. Comments are never edited or removed.
func (s *Submission) AddComment(c Comment) {
	s.Comments = append(s.Comments, c)
}
