// Package game runs the submission flow: score the content, fold the result
// into the current user's progression, persist it and keep the feed.
package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contentboost/apperr"
	"contentboost/catalog"
	"contentboost/leaderboard"
	"contentboost/logger"
	"contentboost/models"
	"contentboost/progression"
	"contentboost/scoring"
	"contentboost/session"
)

type Service struct {
	store *session.Store
	eval  scoring.Evaluator
	log   *logger.Logger
	now   func() time.Time
	newID func(prefix string) string
	rules []progression.Rule
	tasks []models.Task
	seed  []models.LeaderboardEntry

	mu   sync.Mutex
	feed []models.Submission // newest first
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTasks(tasks []models.Task) Option {
	return func(s *Service) { s.tasks = tasks }
}

func WithSeedLeaderboard(seed []models.LeaderboardEntry) Option {
	return func(s *Service) { s.seed = seed }
}

func WithFeed(feed []models.Submission) Option {
	return func(s *Service) { s.feed = feed }
}

func WithRules(rules []progression.Rule) Option {
	return func(s *Service) { s.rules = rules }
}

func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService wires the catalog seed data unless options replace it.
func NewService(store *session.Store, eval scoring.Evaluator, opts ...Option) *Service {
	s := &Service{
		store: store,
		eval:  eval,
		log:   logger.Nop(),
		now:   time.Now,
		newID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()
		},
		rules: progression.DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	now := s.now()
	if s.tasks == nil {
		s.tasks = catalog.DailyTasks(now)
	}
	s.tasks = s.validTasks(s.tasks)
	if s.seed == nil {
		s.seed = catalog.SeedLeaderboard()
	}
	if s.feed == nil {
		s.feed = catalog.SeedSubmissions(now)
	}
	return s
}

// validTasks drops tasks that could never be scored sensibly.
func (s *Service) validTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || !t.Category.Valid() || !t.Difficulty.Valid() || t.MaxPoints <= 0 {
			s.log.Warn("skipping invalid task",
				"task_id", t.ID,
				"category", t.Category,
				"difficulty", t.Difficulty,
				"max_points", t.MaxPoints,
			)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Service) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Service) Task(id string) (models.Task, error) {
	t, ok := catalog.TaskByID(s.tasks, id)
	if !ok {
		return models.Task{}, apperr.NotFound("task " + id)
	}
	return t, nil
}

// Submit scores content for a task and credits the current user. Guarding
// against submitting the same task twice is left to the caller.
func (s *Service) Submit(ctx context.Context, taskID, content string) (models.Submission, []models.Badge, error) {
	u, ok := s.store.Current()
	if !ok {
		if _, err := s.Task(taskID); err != nil {
			return models.Submission{}, nil, err
		}
		return models.Submission{}, nil, apperr.Unauthenticated()
	}
	return s.SubmitAs(ctx, u.ID, taskID, content)
}

// SubmitAs is Submit on behalf of userID. The result is credited only while
// userID is still the current user, both before and after evaluation.
func (s *Service) SubmitAs(ctx context.Context, userID, taskID, content string) (models.Submission, []models.Badge, error) {
	task, err := s.Task(taskID)
	if err != nil {
		return models.Submission{}, nil, err
	}
	if u, ok := s.store.Current(); !ok || userID == "" || u.ID != userID {
		return models.Submission{}, nil, apperr.Unauthenticated()
	}
	if strings.TrimSpace(content) == "" {
		return models.Submission{}, nil, apperr.Validation("submission content is empty")
	}

	res, err := s.eval.Evaluate(ctx, task, content)
	if err != nil {
		return models.Submission{}, nil, err
	}
	res.Percentage = min(max(res.Percentage, 0), 100)
	res.Points = min(max(res.Points, 0), task.MaxPoints)

	now := s.now()
	var granted []models.Badge
	switched := false
	user, ok := s.store.Update(ctx, func(u models.User) models.User {
		if u.ID != userID {
			switched = true
			return u
		}
		u = progression.ApplySubmissionResult(u, res)
		u = progression.TouchStreak(u, now)
		facts := progression.Facts{
			Result:           &res,
			LeaderboardRank:  leaderboard.Position(leaderboard.Rank(s.seed, &u), u.ID),
			CommentsReceived: s.commentsReceived(u.ID),
		}
		u, granted = progression.EvaluateBadges(u, facts, s.rules)
		return u
	})
	if !ok || switched {
		// session ended or changed hands while the evaluation was pending
		s.log.Warn("submission dropped, session changed during scoring",
			"user_id", userID,
			"task_id", task.ID,
		)
		return models.Submission{}, nil, apperr.Unauthenticated()
	}

	sub := models.Submission{
		ID:         s.newID("sub"),
		TaskID:     task.ID,
		UserID:     user.ID,
		User:       user,
		Content:    content,
		Points:     res.Points,
		Percentage: res.Percentage,
		Feedback:   res.Feedback,
		Comments:   []models.Comment{},
		CreatedAt:  now,
	}
	s.mu.Lock()
	s.feed = append([]models.Submission{sub}, s.feed...)
	s.mu.Unlock()

	s.log.Info("submission scored",
		"user_id", user.ID,
		"task_id", task.ID,
		"percentage", res.Percentage,
		"points", res.Points,
		"total_points", user.TotalPoints,
		"badges_granted", len(granted),
	)
	return cloneSubmission(sub), granted, nil
}

// Feed lists submissions newest first.
func (s *Service) Feed() []models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Submission, 0, len(s.feed))
	for _, sub := range s.feed {
		out = append(out, cloneSubmission(sub))
	}
	return out
}

// Comment appends a comment by the current user to a submission.
func (s *Service) Comment(ctx context.Context, submissionID, content string) (models.Comment, []models.Badge, error) {
	author, ok := s.store.Current()
	if !ok {
		return models.Comment{}, nil, apperr.Unauthenticated()
	}
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, nil, apperr.Validation("comment is empty")
	}

	c := models.Comment{
		ID:           s.newID("comment"),
		SubmissionID: submissionID,
		UserID:       author.ID,
		User:         author,
		Content:      content,
		CreatedAt:    s.now(),
	}

	s.mu.Lock()
	idx := -1
	for i := range s.feed {
		if s.feed[i].ID == submissionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Comment{}, nil, apperr.NotFound("submission " + submissionID)
	}
	s.feed[idx].AddComment(c)
	ownerID := s.feed[idx].UserID
	s.mu.Unlock()

	var granted []models.Badge
	if ownerID == author.ID {
		granted = s.reevaluate(ctx, progression.Facts{})
	}
	return c, granted, nil
}

type Standings struct {
	Entries []models.LeaderboardEntry `json:"entries"`
	Podium  []models.LeaderboardEntry `json:"podium"`
	Rest    []models.LeaderboardEntry `json:"rest"`
	Stats   leaderboard.Stats         `json:"stats"`
}

// Leaderboard ranks the seed standings together with the current user. It
// never mutates the user; Champion is granted when a submission reaches #1.
func (s *Service) Leaderboard() Standings {
	var viewer *models.User
	if u, ok := s.store.Current(); ok {
		viewer = &u
	}
	entries := leaderboard.Rank(s.seed, viewer)
	return Standings{
		Entries: entries,
		Podium:  leaderboard.Podium(entries),
		Rest:    leaderboard.Rest(entries),
		Stats:   leaderboard.Summarize(entries),
	}
}

func (s *Service) Profile() (models.ProfileData, error) {
	u, ok := s.store.Current()
	if !ok {
		return models.ProfileData{}, apperr.Unauthenticated()
	}
	badges := catalog.Badges()
	earned := make([]models.EarnedBadge, 0, len(badges))
	for _, b := range badges {
		earned = append(earned, models.EarnedBadge{Badge: b, Earned: u.HasBadge(b.ID)})
	}
	return models.ProfileData{
		User:   u,
		Level:  progression.Describe(u.TotalPoints),
		Rank:   leaderboard.Position(leaderboard.Rank(s.seed, &u), u.ID),
		Badges: earned,
	}, nil
}

// Dashboard summarizes today's progress. completed holds the task ids the
// caller has already submitted in this session.
func (s *Service) Dashboard(completed []string) (models.DashboardData, error) {
	u, ok := s.store.Current()
	if !ok {
		return models.DashboardData{}, apperr.Unauthenticated()
	}

	done := []string{}
	for _, id := range completed {
		if _, ok := catalog.TaskByID(s.tasks, id); ok {
			done = append(done, id)
		}
	}
	stats := models.DashboardStats{
		CompletedToday: len(done),
		DailyGoal:      len(s.tasks),
		TasksLeft:      len(s.tasks) - len(done),
		TotalPoints:    u.TotalPoints,
		Streak:         u.Streak,
		TasksCompleted: u.TasksCompleted,
	}
	if len(s.tasks) > 0 {
		stats.DailyProgress = float64(len(done)) / float64(len(s.tasks)) * 100
	}

	return models.DashboardData{
		User:       u,
		Stats:      stats,
		Level:      progression.Describe(u.TotalPoints),
		Tasks:      s.Tasks(),
		Completed:  done,
		TopPlayers: leaderboard.Podium(leaderboard.Rank(s.seed, &u)),
	}, nil
}

// reevaluate runs the badge rules for the current user outside a submission.
func (s *Service) reevaluate(ctx context.Context, facts progression.Facts) []models.Badge {
	var granted []models.Badge
	s.store.Update(ctx, func(u models.User) models.User {
		facts.CommentsReceived = s.commentsReceived(u.ID)
		u, granted = progression.EvaluateBadges(u, facts, s.rules)
		return u
	})
	if len(granted) > 0 {
		s.log.Info("badges granted", "count", len(granted))
	}
	return granted
}

func (s *Service) commentsReceived(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.feed {
		if sub.UserID == userID {
			n += len(sub.Comments)
		}
	}
	return n
}

func cloneSubmission(sub models.Submission) models.Submission {
	out := sub
	out.User = sub.User.Clone()
	out.Comments = make([]models.Comment, len(sub.Comments))
	copy(out.Comments, sub.Comments)
	return out
}
