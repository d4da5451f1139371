package services

import (
	"context"
	"errors"

	"blogstore/app/media"
	"blogstore/app/models"
	"blogstore/app/render"
	"blogstore/app/repositories"
	"blogstore/pkg/logger"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 3
	MaxPageSize     = 100
)

// PostPage is one window of the newest-first post listing.
type PostPage struct {
	Posts       []*models.Post `json:"posts"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalPosts  int            `json:"totalPosts"`
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	uploader    media.Uploader
}

// NewPostService creates a new PostService. uploader stores covers
// attached to existing posts.
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, uploader media.Uploader) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		uploader:    uploader,
	}
}

func (s *PostService) resolver() *resolver {
	return newResolver(s.userRepo, s.commentRepo)
}

// Create validates and stores a new post
func (s *PostService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	if err := models.Validate(req); err != nil {
		return nil, invalid("validate post", err)
	}
	if err := requireUser(s.userRepo, req.Author); err != nil {
		return nil, err
	}

	post := req.Post()
	if err := s.postRepo.Create(post); err != nil {
		return nil, internal("create post", err)
	}
	if err := s.resolver().post(post); err != nil {
		return nil, internal("resolve post", err)
	}
	return post, nil
}

// Get retrieves a post with its author and comments resolved and its
// content rendered to HTML.
func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver().post(post); err != nil {
		return nil, internal("resolve post", err)
	}
	html, err := render.Markdown(post.Content)
	if err != nil {
		return nil, internal("render post", err)
	}
	post.ContentHTML = html
	return post, nil
}

// List retrieves one page of posts, newest first. The total is counted
// separately from the window.
func (s *PostService) List(ctx context.Context, page, pageSize int) (*PostPage, error) {
	if page < 1 {
		return nil, validationError("page must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, validationError("pageSize must be between 1 and %d", MaxPageSize)
	}

	total, err := s.postRepo.Count()
	if err != nil {
		return nil, internal("count posts", err)
	}
	posts, err := s.postRepo.List(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, internal("list posts", err)
	}
	if err := s.resolver().posts(posts); err != nil {
		return nil, internal("resolve posts", err)
	}

	return &PostPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  (total + pageSize - 1) / pageSize,
		TotalPosts:  total,
	}, nil
}

// ListByAuthor retrieves every post written by a user, newest first
func (s *PostService) ListByAuthor(ctx context.Context, userID int) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, internal("get user", err)
	}
	posts, err := s.postRepo.ListByAuthor(userID)
	if err != nil {
		return nil, internal("list posts", err)
	}
	if err := s.resolver().posts(posts); err != nil {
		return nil, internal("resolve posts", err)
	}
	return posts, nil
}

// Update applies the supplied fields to an existing post
func (s *PostService) Update(ctx context.Context, id int, req *models.UpdatePostRequest) (*models.Post, error) {
	if err := models.Validate(req); err != nil {
		return nil, invalid("validate post", err)
	}
	if req.Empty() {
		return nil, validationError("no fields to update")
	}
	if req.Author != nil {
		if err := requireUser(s.userRepo, *req.Author); err != nil {
			return nil, err
		}
	}

	post, err := s.postRepo.Patch(id, func(p *models.Post) error {
		req.Apply(p)
		return p.Validate()
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, invalid("update post", err)
	}
	if err := s.resolver().post(post); err != nil {
		return nil, internal("resolve post", err)
	}
	return post, nil
}

// Delete deletes a post together with its comments
func (s *PostService) Delete(ctx context.Context, id int) error {
	if err := s.postRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("post")
		}
		return internal("delete post", err)
	}
	return nil
}

// AttachCover uploads asset and then points the post's cover at it. The
// post is left untouched when the upload fails.
func (s *PostService) AttachCover(ctx context.Context, id int, asset *media.Asset, origin string) (*models.Post, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}

	url, err := StoreAsset(ctx, s.uploader, asset, media.Target{Kind: media.KindCover, Origin: origin})
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.Patch(id, func(p *models.Post) error {
		p.Cover = url
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("post removed during cover upload, asset orphaned", "post_id", id, "url", url)
			return nil, notFound("post")
		}
		return nil, internal("save cover", err)
	}
	if err := s.resolver().post(post); err != nil {
		return nil, internal("resolve post", err)
	}
	return post, nil
}

func (s *PostService) find(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, internal("get post", err)
	}
	return post, nil
}
