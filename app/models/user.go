package models

import (
	"strings"
	"time"
)

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	return Validate(u)
}

// BeforeCreate fills defaults and stamps times
func (u *User) BeforeCreate() {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
	if u.Role == "" {
		u.Role = RoleAuthor
	}
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
}

// Touch marks the user as modified now
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
