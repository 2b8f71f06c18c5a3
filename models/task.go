// models/task.go

package models

import "time"

type TaskCategory string

const (
	CategoryCaption  TaskCategory = "caption"
	CategoryPost     TaskCategory = "post"
	CategoryIdea     TaskCategory = "idea"
	CategoryHeadline TaskCategory = "headline"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryCaption, CategoryPost, CategoryIdea, CategoryHeadline:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	Difficulty  Difficulty   `json:"difficulty"`
	MaxPoints   int          `json:"maxPoints"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// TimeLeft returns the whole hours until expiry, never negative.
// Expiry is advisory and does not block submission.
func (t Task) TimeLeft(now time.Time) int {
	h := int(t.ExpiresAt.Sub(now).Hours())
	if h < 0 {
		return 0
	}
	return h
}

// Result is what an evaluator returns for one submission.
type Result struct {
	Points     int    `json:"points"`
	Percentage int    `json:"percentage"`
	Feedback   string `json:"feedback"`
}
