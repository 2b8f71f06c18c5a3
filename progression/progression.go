package progression

import (
	"time"

	"contentboost/models"
)

const PointsPerLevel = 500

// ApplySubmissionResult folds one scored submission into u. It is not
// idempotent: applying the same result twice counts it twice.
func ApplySubmissionResult(u models.User, r models.Result) models.User {
	out := u.Clone()
	out.TotalPoints += r.Points
	out.TasksCompleted++
	return out
}

func Level(totalPoints int) int {
	return max(totalPoints, 0)/PointsPerLevel + 1
}

// Progress is the percentage (0-100) of the way to the next level.
func Progress(totalPoints int) float64 {
	return float64(max(totalPoints, 0)%PointsPerLevel) / (PointsPerLevel / 100)
}

func PointsToNextLevel(totalPoints int) int {
	return PointsPerLevel - max(totalPoints, 0)%PointsPerLevel
}

func Describe(totalPoints int) models.LevelInfo {
	return models.LevelInfo{
		Level:        Level(totalPoints),
		Progress:     Progress(totalPoints),
		PointsToNext: PointsToNextLevel(totalPoints),
	}
}

const dayLayout = "2006-01-02"

// TouchStreak records activity on day. A second completion on the same day
// changes nothing, the next calendar day extends the streak and any longer
// gap restarts it at 1.
func TouchStreak(u models.User, day time.Time) models.User {
	out := u.Clone()
	y, m, d := day.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	key := today.Format(dayLayout)

	if out.LastActiveOn == key {
		return out
	}

	last, err := time.ParseInLocation(dayLayout, out.LastActiveOn, day.Location())
	switch {
	case out.LastActiveOn == "" || err != nil:
		out.Streak = max(out.Streak, 1)
	case last.After(today):
		return out
	case last.AddDate(0, 0, 1).Equal(today):
		out.Streak++
	default:
		out.Streak = 1
	}
	out.LastActiveOn = key
	return out
}
