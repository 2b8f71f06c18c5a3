// Package catalog holds the static seed data: badges, demo users, the daily
// tasks and the demo leaderboard. Every accessor returns a fresh copy.
package catalog

import (
	"time"

	"contentboost/models"
)

const (
	BadgeFirstSteps = "1"
	BadgeOnFire     = "2"
	BadgeChampion   = "3"
	BadgeWordsmith  = "4"
	BadgeSocialStar = "5"
)

var badges = []models.Badge{
	{ID: BadgeFirstSteps, Name: "First Steps", Icon: "🚀", Description: "Complete your first task"},
	{ID: BadgeOnFire, Name: "On Fire", Icon: "🔥", Description: "3 day streak"},
	{ID: BadgeChampion, Name: "Champion", Icon: "🏆", Description: "Reach #1 on leaderboard"},
	{ID: BadgeWordsmith, Name: "Wordsmith", Icon: "✍️", Description: "Score 90%+ on a writing task"},
	{ID: BadgeSocialStar, Name: "Social Star", Icon: "⭐", Description: "Get 10 comments on submissions"},
}

func Badges() []models.Badge {
	out := make([]models.Badge, len(badges))
	copy(out, badges)
	return out
}

// FirstBadge is granted on registration and to the guest preset.
func FirstBadge() models.Badge {
	return badges[0]
}

func BadgeByID(id string) (models.Badge, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return models.Badge{}, false
}

func AIUsers() []models.User {
	return []models.User{
		{
			ID:             "ai-1",
			Username:       "CreativeAlex",
			Email:          "alex@demo.ai",
			Avatar:         "https://api.dicebear.com/7.x/avataaars/svg?seed=Alex&backgroundColor=b6e3f4",
			TotalPoints:    1250,
			TasksCompleted: 15,
			Streak:         5,
			IsAI:           true,
			Badges:         []models.Badge{badges[0], badges[1]},
		},
		{
			ID:             "ai-2",
			Username:       "IdeaMaster_Sam",
			Email:          "sam@demo.ai",
			Avatar:         "https://api.dicebear.com/7.x/avataaars/svg?seed=Sam&backgroundColor=c0aede",
			TotalPoints:    980,
			TasksCompleted: 12,
			Streak:         3,
			IsAI:           true,
			Badges:         []models.Badge{badges[0]},
		},
		{
			ID:             "ai-3",
			Username:       "ContentQueen",
			Email:          "queen@demo.ai",
			Avatar:         "https://api.dicebear.com/7.x/avataaars/svg?seed=Queen&backgroundColor=ffd5dc",
			TotalPoints:    1580,
			TasksCompleted: 20,
			Streak:         7,
			IsAI:           true,
			Badges:         []models.Badge{badges[0], badges[1], badges[2]},
		},
		{
			ID:             "ai-4",
			Username:       "WriterWolf",
			Email:          "wolf@demo.ai",
			Avatar:         "https://api.dicebear.com/7.x/avataaars/svg?seed=Wolf&backgroundColor=d1d4f9",
			TotalPoints:    720,
			TasksCompleted: 8,
			Streak:         2,
			IsAI:           true,
			Badges:         []models.Badge{badges[0]},
		},
	}
}

// DailyTasks returns today's challenges, all expiring a day after now.
func DailyTasks(now time.Time) []models.Task {
	expires := now.Add(24 * time.Hour)
	return []models.Task{
		{
			ID:          "task-1",
			Title:       "Engaging Instagram Caption",
			Description: "Write a captivating caption for a coffee shop's new seasonal drink launch. Include a call-to-action.",
			Category:    models.CategoryCaption,
			Difficulty:  models.DifficultyEasy,
			MaxPoints:   100,
			ExpiresAt:   expires,
		},
		{
			ID:          "task-2",
			Title:       "LinkedIn Post",
			Description: "Create a professional LinkedIn post about the importance of work-life balance in the tech industry.",
			Category:    models.CategoryPost,
			Difficulty:  models.DifficultyMedium,
			MaxPoints:   150,
			ExpiresAt:   expires,
		},
		{
			ID:          "task-3",
			Title:       "Viral Tweet Idea",
			Description: "Come up with 3 tweet ideas that could go viral about productivity hacks. Keep each under 280 characters.",
			Category:    models.CategoryIdea,
			Difficulty:  models.DifficultyMedium,
			MaxPoints:   150,
			ExpiresAt:   expires,
		},
		{
			ID:          "task-4",
			Title:       "Blog Headline Challenge",
			Description: "Write 5 attention-grabbing headlines for an article about AI in everyday life.",
			Category:    models.CategoryHeadline,
			Difficulty:  models.DifficultyHard,
			MaxPoints:   200,
			ExpiresAt:   expires,
		},
	}
}

func TaskByID(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// SeedLeaderboard is already rank-ordered.
func SeedLeaderboard() []models.LeaderboardEntry {
	ai := AIUsers()
	return []models.LeaderboardEntry{
		{Rank: 1, User: ai[2], DailyPoints: 285, DailyPercentage: 95, TasksCompleted: 3},
		{Rank: 2, User: ai[0], DailyPoints: 220, DailyPercentage: 88, TasksCompleted: 2},
		{Rank: 3, User: ai[1], DailyPoints: 180, DailyPercentage: 75, TasksCompleted: 2},
		{Rank: 4, User: ai[3], DailyPoints: 145, DailyPercentage: 72, TasksCompleted: 2},
	}
}

func SeedSubmissions(now time.Time) []models.Submission {
	ai := AIUsers()
	return []models.Submission{
		{
			ID:     "sub-1",
			TaskID: "task-1",
			UserID: ai[0].ID,
			User:   ai[0],
			Content: "☕ Introducing our Autumn Maple Latte - where cozy meets caffeine! 🍂 Handcrafted with real maple syrup and topped with cinnamon foam. Limited time only! Tag someone who NEEDS to try this. #FallVibes #CoffeeLover\n\n" +
				"👉 Order now and get 10% off your first seasonal drink!",
			Points:     88,
			Percentage: 88,
			Feedback:   "Great use of emojis and seasonal elements. Strong CTA included. Could add more sensory description.",
			Comments:   []models.Comment{},
			CreatedAt:  now.Add(-2 * time.Hour),
		},
		{
			ID:     "sub-2",
			TaskID: "task-2",
			UserID: ai[2].ID,
			User:   ai[2],
			Content: "After 5 years in tech, I learned the hard way that \"hustle culture\" is a myth.\n\n" +
				"Here's what actually matters:\n\n✅ Setting clear boundaries\n✅ Taking real breaks (not just scrolling)\n" +
				"✅ Protecting your mental health\n✅ Saying \"no\" to meetings that could be emails\n\n" +
				"Your best work doesn't come from burnout. It comes from balance.\n\n" +
				"What's your #1 tip for maintaining work-life balance? Drop it below 👇",
			Points:     142,
			Percentage: 95,
			Feedback:   "Excellent structure and engagement. Personal story adds authenticity. Strong call for interaction.",
			Comments:   []models.Comment{},
			CreatedAt:  now.Add(-1 * time.Hour),
		},
		{
			ID:         "sub-3",
			TaskID:     "task-1",
			UserID:     ai[1].ID,
			User:       ai[1],
			Content:    "Fall is calling and our new Maple Latte is answering! 🍁 Sweet, spicy, and absolutely Instagram-worthy. Who's ready to cozy up?",
			Points:     72,
			Percentage: 72,
			Feedback:   "Good seasonal reference but lacks specific CTA. Consider adding urgency or limited-time offer.",
			Comments:   []models.Comment{},
			CreatedAt:  now.Add(-3 * time.Hour),
		},
	}
}
