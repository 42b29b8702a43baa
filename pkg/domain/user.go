package domain

import "time"

// Role is the closed set of account roles the backend hands out.
type Role string

const (
	RoleClient Role = "client"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// ValidRole returns true if r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleClient, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// User is the session record: the authenticated profile plus its bearer token.
// It is what gets persisted between runs.
type User struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      Role            `json:"role"`
	Token     string          `json:"token"`
	Flags     map[string]bool `json:"flags,omitempty"` // role-specific, e.g. "accepting_clients" for coaches
	CreatedAt time.Time       `json:"createdAt,omitzero"`
}

// IsCoach reports whether the user manages availability.
func (u *User) IsCoach() bool {
	return u != nil && u.Role == RoleCoach
}

// Clone returns a deep copy so callers can't mutate a record they don't own.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Flags != nil {
		c.Flags = make(map[string]bool, len(u.Flags))
		for k, v := range u.Flags {
			c.Flags[k] = v
		}
	}
	return &c
}

// UserPatch is a partial update. Nil fields are left alone.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *Role
	Token *string
	Flags map[string]bool
}

// Apply shallow-merges p into a copy of u and returns it.
// Flags replaces the whole flag set when non-nil.
func (p UserPatch) Apply(u *User) *User {
	out := u.Clone()
	if out == nil {
		return nil
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Role != nil {
		out.Role = *p.Role
	}
	if p.Token != nil {
		out.Token = *p.Token
	}
	if p.Flags != nil {
		out.Flags = make(map[string]bool, len(p.Flags))
		for k, v := range p.Flags {
			out.Flags[k] = v
		}
	}
	return out
}

// Coach is an entry from the user directory filtered to coaches.
type Coach struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Coaches keeps only the directory entries with the coach role.
func Coaches(users []Coach) []Coach {
	out := make([]Coach, 0, len(users))
	for _, u := range users {
		if u.Role == RoleCoach {
			out = append(out, u)
		}
	}
	return out
}
