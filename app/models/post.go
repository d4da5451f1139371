package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return Validate(p)
}

// BeforeCreate stamps creation and update times
func (p *Post) BeforeCreate() {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt
}

// Touch marks the post as modified now
func (p *Post) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// Stored returns a copy of the post without the fields resolved at read time.
func (p *Post) Stored() *Post {
	cp := *p
	cp.Author = nil
	cp.Comments = nil
	cp.ContentHTML = ""
	return &cp
}

// AddComment appends a resolved comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}
	if comment.PostID != p.ID {
		return errors.New("comment belongs to another post")
	}
	p.Comments = append(p.Comments, comment)
	return nil
}

// CommentIDs lists the ids of the resolved comments in order
func (p *Post) CommentIDs() []int {
	ids := make([]int, 0, len(p.Comments))
	for _, c := range p.Comments {
		ids = append(ids, c.ID)
	}
	return ids
}
