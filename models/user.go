// models/user.go
package models

// User is the persisted blob stored in the session slot.
type User struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Avatar         string  `json:"avatar"`
	TotalPoints    int     `json:"totalPoints"`
	TasksCompleted int     `json:"tasksCompleted"`
	Streak         int     `json:"streak"`
	IsAI           bool    `json:"isAI"`
	Badges         []Badge `json:"badges"`
	LastActiveOn   string  `json:"lastActiveOn,omitempty"` // YYYY-MM-DD
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	out := u
	if u.Badges == nil {
		return out
	}
	out.Badges = make([]Badge, len(u.Badges))
	copy(out.Badges, u.Badges)
	return out
}

func (u User) HasBadge(id string) bool {
	for _, b := range u.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// GrantBadge adds b unless a badge with the same id is already held.
func (u *User) GrantBadge(b Badge) bool {
	if u.HasBadge(b.ID) {
		return false
	}
	u.Badges = append(u.Badges, b)
	return true
}
