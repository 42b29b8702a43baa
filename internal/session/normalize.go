package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

// wireProfile is every field name the backends have been seen to use for
// the profile, flattened or nested under "user".
type wireProfile struct {
	UnderscoreID string          `json:"_id"`
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	Flags        map[string]bool `json:"flags"`
	CreatedAt    string          `json:"createdAt"`
	User         *wireProfile    `json:"user"`
}

func (w *wireProfile) id() string {
	for _, id := range []string{w.UnderscoreID, w.ID, w.UserID} {
		if id != "" {
			return id
		}
	}
	return ""
}

// normalizeProfile turns any observed profile shape into the one canonical
// record. Fields on a nested "user" object win over top-level ones; the
// top level fills whatever the nested object leaves empty.
func normalizeProfile(raw json.RawMessage) (*domain.User, error) {
	if len(raw) == 0 {
		return &domain.User{}, nil
	}
	var top wireProfile
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	u := &domain.User{}
	if top.User != nil {
		fill(u, top.User)
	}
	fill(u, &top)
	return u, nil
}

func fill(u *domain.User, w *wireProfile) {
	if u.ID == "" {
		u.ID = w.id()
	}
	if u.Name == "" {
		u.Name = w.Name
	}
	if u.Email == "" {
		u.Email = w.Email
	}
	if u.Role == "" && w.Role != "" {
		u.Role = domain.Role(strings.ToLower(w.Role))
	}
	if u.Flags == nil && w.Flags != nil {
		u.Flags = w.Flags
	}
	if u.CreatedAt.IsZero() && w.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
			u.CreatedAt = t
		}
	}
}

// mergeProfiles fills the gaps in primary from secondary.
func mergeProfiles(primary, secondary *domain.User) *domain.User {
	out := primary.Clone()
	if secondary == nil {
		return out
	}
	if out.ID == "" {
		out.ID = secondary.ID
	}
	if out.Name == "" {
		out.Name = secondary.Name
	}
	if out.Email == "" {
		out.Email = secondary.Email
	}
	if out.Role == "" {
		out.Role = secondary.Role
	}
	if out.Flags == nil && secondary.Flags != nil {
		out.Flags = secondary.Clone().Flags
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = secondary.CreatedAt
	}
	return out
}
