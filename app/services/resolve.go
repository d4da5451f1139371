package services

import (
	"errors"
	"fmt"

	"blogstore/app/models"
	"blogstore/app/repositories"
)

// resolver dereferences author and comment references for one read.
// Users are looked up once per resolver.
type resolver struct {
	users    repositories.UserRepository
	comments repositories.CommentRepository
	seen     map[int]*models.User
}

func newResolver(users repositories.UserRepository, comments repositories.CommentRepository) *resolver {
	return &resolver{users: users, comments: comments, seen: make(map[int]*models.User)}
}

// author returns nil for an unset or dangling reference.
func (r *resolver) author(id int) (*models.User, error) {
	if id <= 0 {
		return nil, nil
	}
	if u, ok := r.seen[id]; ok {
		return u, nil
	}
	u, err := r.users.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		u, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.seen[id] = u
	return u, nil
}

func (r *resolver) comment(c *models.Comment) error {
	author, err := r.author(c.AuthorID)
	if err != nil {
		return err
	}
	c.Author = author
	return nil
}

func (r *resolver) commentsOf(postID int) ([]*models.Comment, error) {
	comments, err := r.comments.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		if err := r.comment(c); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

func (r *resolver) post(p *models.Post) error {
	author, err := r.author(p.AuthorID)
	if err != nil {
		return err
	}
	p.Author = author

	comments, err := r.commentsOf(p.ID)
	if err != nil {
		return err
	}
	p.Comments = make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if err := p.AddComment(c); err != nil {
			return fmt.Errorf("post %d comment %d: %w", p.ID, c.ID, err)
		}
	}
	return nil
}

func (r *resolver) posts(posts []*models.Post) error {
	for _, p := range posts {
		if err := r.post(p); err != nil {
			return err
		}
	}
	return nil
}

// requireUser checks that an author reference points at a user.
func requireUser(users repositories.UserRepository, id int) error {
	if id <= 0 {
		return nil
	}
	_, err := users.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return validationError("author %d does not exist", id)
	}
	if err != nil {
		return internal("look up author", err)
	}
	return nil
}
