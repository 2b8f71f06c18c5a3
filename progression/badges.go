package progression

import (
	"contentboost/catalog"
	"contentboost/models"
)

// Facts are the observations a badge rule may look at besides the user.
type Facts struct {
	Result           *models.Result
	LeaderboardRank  int
	CommentsReceived int
}

type Rule struct {
	BadgeID  string
	Unlocked func(u models.User, f Facts) bool
}

func DefaultRules() []Rule {
	return []Rule{
		{BadgeID: catalog.BadgeFirstSteps, Unlocked: func(u models.User, _ Facts) bool {
			return u.TasksCompleted >= 1
		}},
		{BadgeID: catalog.BadgeOnFire, Unlocked: func(u models.User, _ Facts) bool {
			return u.Streak >= 3
		}},
		{BadgeID: catalog.BadgeChampion, Unlocked: func(_ models.User, f Facts) bool {
			return f.LeaderboardRank == 1
		}},
		{BadgeID: catalog.BadgeWordsmith, Unlocked: func(_ models.User, f Facts) bool {
			return f.Result != nil && f.Result.Percentage >= 90
		}},
		{BadgeID: catalog.BadgeSocialStar, Unlocked: func(_ models.User, f Facts) bool {
			return f.CommentsReceived >= 10
		}},
	}
}

// EvaluateBadges grants every badge whose rule holds and that u does not own
// yet. Badges are never revoked.
func EvaluateBadges(u models.User, f Facts, rules []Rule) (models.User, []models.Badge) {
	out := u.Clone()
	var granted []models.Badge
	for _, r := range rules {
		if out.HasBadge(r.BadgeID) || !r.Unlocked(out, f) {
			continue
		}
		b, ok := catalog.BadgeByID(r.BadgeID)
		if !ok {
			continue
		}
		out.GrantBadge(b)
		granted = append(granted, b)
	}
	return out, granted
}
