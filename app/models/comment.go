package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return Validate(c)
}

// BeforeCreate stamps creation and update times
func (c *Comment) BeforeCreate() {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = c.CreatedAt
}

// Touch marks the comment as modified now
func (c *Comment) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// Stored returns a copy of the comment without its resolved author.
func (c *Comment) Stored() *Comment {
	cp := *c
	cp.Author = nil
	return &cp
}

// SetPost binds the comment to its parent post
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	c.PostID = post.ID
	return nil
}
