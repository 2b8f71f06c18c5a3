package models

type LevelInfo struct {
	Level        int     `json:"level"`
	Progress     float64 `json:"progress"`
	PointsToNext int     `json:"pointsToNext"`
}

type DashboardStats struct {
	CompletedToday int     `json:"completedToday"`
	DailyGoal      int     `json:"dailyGoal"`
	DailyProgress  float64 `json:"dailyProgress"`
	TasksLeft      int     `json:"tasksLeft"`
	TotalPoints    int     `json:"totalPoints"`
	Streak         int     `json:"streak"`
	TasksCompleted int     `json:"tasksCompleted"`
}

type DashboardData struct {
	User       User               `json:"user"`
	Stats      DashboardStats     `json:"stats"`
	Level      LevelInfo          `json:"level"`
	Tasks      []Task             `json:"tasks"`
	Completed  []string           `json:"completed"`
	TopPlayers []LeaderboardEntry `json:"topPlayers"`
}

type ProfileData struct {
	User   User          `json:"user"`
	Level  LevelInfo     `json:"level"`
	Rank   int           `json:"rank"`
	Badges []EarnedBadge `json:"badges"`
}
