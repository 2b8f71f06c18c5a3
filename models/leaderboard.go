// models/leaderboard.go

package models

// LeaderboardEntry is recomputed on every read and never persisted.
type LeaderboardEntry struct {
	Rank            int  `json:"rank"`
	User            User `json:"user"`
	DailyPoints     int  `json:"dailyPoints"`
	DailyPercentage int  `json:"dailyPercentage"`
	TasksCompleted  int  `json:"tasksCompleted"`
}
