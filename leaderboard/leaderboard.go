package leaderboard

import (
	"math"
	"sort"

	"contentboost/models"
)

// ViewerPercentage is the placeholder daily percentage shown for the viewer.
const ViewerPercentage = 75

// Rank merges the viewer into the seed standings. A missing viewer or one
// without points leaves the seed as is. Ranks are dense and positional:
// ties keep their prior order and still get distinct ranks.
func Rank(seed []models.LeaderboardEntry, viewer *models.User) []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, len(seed), len(seed)+1)
	copy(out, seed)

	if viewer == nil || viewer.TotalPoints == 0 {
		return out
	}

	out = append(out, models.LeaderboardEntry{
		User:            viewer.Clone(),
		DailyPoints:     viewer.TotalPoints,
		DailyPercentage: ViewerPercentage,
		TasksCompleted:  viewer.TasksCompleted,
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DailyPoints > out[j].DailyPoints
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

type Stats struct {
	Participants int `json:"totalParticipants"`
	TotalPoints  int `json:"totalPoints"`
	AverageScore int `json:"averageScore"`
}

func Summarize(entries []models.LeaderboardEntry) Stats {
	s := Stats{Participants: len(entries)}
	if len(entries) == 0 {
		return s
	}
	pct := 0
	for _, e := range entries {
		s.TotalPoints += e.DailyPoints
		pct += e.DailyPercentage
	}
	s.AverageScore = int(math.Round(float64(pct) / float64(len(entries))))
	return s
}

// Podium returns the top three entries for display.
func Podium(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	return entries[:min(3, len(entries))]
}

func Rest(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	return entries[min(3, len(entries)):]
}

// Position returns the rank held by userID, or 0 when absent.
func Position(entries []models.LeaderboardEntry, userID string) int {
	for _, e := range entries {
		if e.User.ID == userID {
			return e.Rank
		}
	}
	return 0
}
