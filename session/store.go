package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contentboost/apperr"
	"contentboost/catalog"
	"contentboost/logger"
	"contentboost/models"
)

const (
	StorageKey       = "contentboost_user"
	DefaultAuthDelay = 800 * time.Millisecond

	GuestUsername = "Guest User"
	GuestEmail    = "guest@contentboost.app"
	guestAvatar   = "https://api.dicebear.com/7.x/avataaars/svg?seed=Guest&backgroundColor=ffd5dc"
)

// Store owns the single current-user slot. It loads once at startup,
// persists after every mutation and clears the slot on logout.
type Store struct {
	slot      Slot
	key       string
	log       *logger.Logger
	authDelay time.Duration
	newID     func(prefix string) string

	mu   sync.RWMutex
	user *models.User
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithAuthDelay sets the simulated login/register latency. Tests pass 0.
func WithAuthDelay(d time.Duration) Option {
	return func(s *Store) { s.authDelay = d }
}

func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Store) { s.newID = fn }
}

func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:      slot,
		key:       StorageKey,
		log:       logger.Nop(),
		authDelay: DefaultAuthDelay,
		newID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the stored session. A missing, unreadable or corrupt blob
// leaves the store logged out and is never an error.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil

	raw, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("session slot unavailable, starting logged out", "key", s.key, "error", err)
		return
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn("stored session is corrupt, starting logged out", "key", s.key, "error", err)
		return
	}
	if u.ID == "" {
		s.log.Warn("stored session has no id, starting logged out", "key", s.key)
		return
	}
	if u.Badges == nil {
		u.Badges = []models.Badge{}
	}
	s.user = &u
	s.log.Info("session restored", "user_id", u.ID, "username", u.Username)
}

func (s *Store) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return s.user.Clone(), true
}

func (s *Store) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return models.User{}, apperr.Validation("email and password are required")
	}
	if err := s.wait(ctx); err != nil {
		return models.User{}, err
	}

	localPart, _, _ := strings.Cut(email, "@")
	u := models.User{
		ID:       s.newID("user"),
		Username: localPart,
		Email:    email,
		Avatar:   avatarURL(email),
		Badges:   []models.Badge{},
	}
	s.replace(ctx, &u)
	s.log.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return u.Clone(), nil
}

func (s *Store) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return models.User{}, apperr.Validation("username, email and password are required")
	}
	if err := s.wait(ctx); err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:       s.newID("user"),
		Username: username,
		Email:    email,
		Avatar:   avatarURL(username),
		Streak:   1,
		Badges:   []models.Badge{catalog.FirstBadge()},
	}
	s.replace(ctx, &u)
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u.Clone(), nil
}

// LoginAsGuest installs the guest preset, replacing any current session.
func (s *Store) LoginAsGuest(ctx context.Context) models.User {
	u := models.User{
		ID:             s.newID("guest"),
		Username:       GuestUsername,
		Email:          GuestEmail,
		Avatar:         guestAvatar,
		TotalPoints:    50,
		TasksCompleted: 1,
		Streak:         1,
		Badges:         []models.Badge{catalog.FirstBadge()},
	}
	s.replace(ctx, &u)
	s.log.Info("guest logged in", "user_id", u.ID)
	return u.Clone()
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if err := s.slot.Delete(ctx, s.key); err != nil {
		s.log.Warn("failed to clear session slot", "key", s.key, "error", err)
	}
}

// UpdatePoints adds delta to the current user's total. Totals only grow, so a
// negative delta is ignored.
func (s *Store) UpdatePoints(ctx context.Context, delta int) {
	if delta < 0 {
		s.log.Warn("ignoring negative points delta", "delta", delta)
		return
	}
	s.Update(ctx, func(u models.User) models.User {
		u.TotalPoints += delta
		return u
	})
}

func (s *Store) IncrementTasksCompleted(ctx context.Context) {
	s.Update(ctx, func(u models.User) models.User {
		u.TasksCompleted++
		return u
	})
}

// Update applies fn to the current user and persists the result once. It
// reports false and does nothing when nobody is logged in.
func (s *Store) Update(ctx context.Context, fn func(models.User) models.User) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	next := fn(s.user.Clone())
	s.user = &next
	if err := s.persist(ctx); err != nil {
		s.log.Warn("failed to persist session", "user_id", next.ID, "error", err)
	}
	return next.Clone(), true
}

// Flush writes the current user again and reports persistence failures that
// mutations only log.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	return s.persist(ctx)
}

func (s *Store) replace(ctx context.Context, u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if err := s.persist(ctx); err != nil {
		s.log.Warn("failed to persist session", "user_id", u.ID, "error", err)
	}
}

// persist requires s.mu held.
func (s *Store) persist(ctx context.Context) error {
	b, err := json.Marshal(s.user)
	if err != nil {
		return apperr.Persistence(fmt.Errorf("encode user: %w", err))
	}
	if err := s.slot.Set(ctx, s.key, b); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.authDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.authDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func avatarURL(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s&backgroundColor=ffdfbf", url.QueryEscape(seed))
}
