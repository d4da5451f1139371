package services

import (
	"context"
	"errors"

	"blogstore/app/models"
	"blogstore/app/repositories"
)

// CommentService handles business logic for comments. Every operation
// is scoped to a parent post, which must exist.
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// ListForPost retrieves a post's comments in creation order
func (s *CommentService) ListForPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	if _, err := s.requirePost(postID); err != nil {
		return nil, err
	}
	comments, err := newResolver(s.userRepo, s.commentRepo).commentsOf(postID)
	if err != nil {
		return nil, internal("list comments", err)
	}
	return comments, nil
}

// Get retrieves one comment of a post
func (s *CommentService) Get(ctx context.Context, postID, id int) (*models.Comment, error) {
	if _, err := s.requirePost(postID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.Get(postID, id)
	if err != nil {
		return nil, commentErr("get comment", err)
	}
	if err := newResolver(s.userRepo, s.commentRepo).comment(comment); err != nil {
		return nil, internal("resolve comment", err)
	}
	return comment, nil
}

// Create adds a comment to a post. The repository re-checks the post in
// the same transaction as the insert.
func (s *CommentService) Create(ctx context.Context, postID int, req *models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.requirePost(postID)
	if err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, invalid("validate comment", err)
	}
	if err := requireUser(s.userRepo, req.Author); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Comment:  req.Comment,
		Rate:     *req.Rate,
		AuthorID: req.Author,
	}
	if err := comment.SetPost(post); err != nil {
		return nil, internal("bind comment", err)
	}
	if err := s.commentRepo.Create(comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, internal("create comment", err)
	}
	if err := newResolver(s.userRepo, s.commentRepo).comment(comment); err != nil {
		return nil, internal("resolve comment", err)
	}
	return comment, nil
}

// Update applies the supplied fields to a comment of a post. The parent
// reference cannot be changed.
func (s *CommentService) Update(ctx context.Context, postID, id int, req *models.UpdateCommentRequest) (*models.Comment, error) {
	if _, err := s.requirePost(postID); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, invalid("validate comment", err)
	}
	if req.RefPost != nil {
		return nil, validationError("refPost cannot be changed")
	}
	if req.Empty() {
		return nil, validationError("no fields to update")
	}
	if req.Author != nil {
		if err := requireUser(s.userRepo, *req.Author); err != nil {
			return nil, err
		}
	}

	comment, err := s.commentRepo.Patch(postID, id, func(c *models.Comment) error {
		req.Apply(c)
		return c.Validate()
	})
	if err != nil {
		return nil, commentErr("update comment", err)
	}
	if err := newResolver(s.userRepo, s.commentRepo).comment(comment); err != nil {
		return nil, internal("resolve comment", err)
	}
	return comment, nil
}

// Delete removes a comment of a post
func (s *CommentService) Delete(ctx context.Context, postID, id int) error {
	if _, err := s.requirePost(postID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(postID, id); err != nil {
		return commentErr("delete comment", err)
	}
	return nil
}

func (s *CommentService) requirePost(postID int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, internal("get post", err)
	}
	return post, nil
}

func commentErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("comment")
	}
	return invalid(op, err)
}
