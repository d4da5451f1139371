package services

import (
	"context"
	"errors"

	"blogstore/app/auth"
	"blogstore/app/media"
	"blogstore/app/models"
	"blogstore/app/repositories"
	"blogstore/pkg/logger"
)

// UserService handles accounts, login and avatars
type UserService struct {
	userRepo      repositories.UserRepository
	tokens        *auth.Tokens
	uploader      media.Uploader
	defaultAvatar string
}

// NewUserService creates a new UserService. uploader stores avatars
// attached to existing users.
func NewUserService(userRepo repositories.UserRepository, tokens *auth.Tokens, uploader media.Uploader, defaultAvatar string) *UserService {
	if defaultAvatar == "" {
		defaultAvatar = models.DefaultAvatar
	}
	return &UserService{
		userRepo:      userRepo,
		tokens:        tokens,
		uploader:      uploader,
		defaultAvatar: defaultAvatar,
	}
}

// Register creates an account with a hashed password. Email addresses
// are unique regardless of case.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, invalid("validate user", err)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internal("hash password", err)
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		Avatar:    req.Avatar,
		Password:  hash,
	}
	if user.Avatar == "" {
		user.Avatar = s.defaultAvatar
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, validationError("email already registered")
		}
		return nil, internal("create user", err)
	}
	return user, nil
}

// Login checks credentials and issues a signed token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	if err := models.Validate(req); err != nil {
		return "", nil, invalid("validate login", err)
	}
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, notFound("user")
		}
		return "", nil, internal("get user", err)
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", nil, validationError("invalid email or password")
		}
		return "", nil, internal("check password", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, internal("issue token", err)
	}
	return token, user, nil
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, internal("list users", err)
	}
	return users, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, internal("get user", err)
	}
	return user, nil
}

// Update applies the supplied profile fields. A new password is hashed
// before it is stored.
func (s *UserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, invalid("validate user", err)
	}
	var hash string
	if req.Password != nil {
		h, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, internal("hash password", err)
		}
		hash = h
	}

	user, err := s.userRepo.Patch(id, func(u *models.User) error {
		req.Apply(u)
		if hash != "" {
			u.Password = hash
		}
		return u.Validate()
	})
	if err != nil {
		return nil, userErr("update user", err)
	}
	return user, nil
}

// AttachAvatar uploads asset and then points the user's avatar at it
func (s *UserService) AttachAvatar(ctx context.Context, id int, asset *media.Asset, origin string) (*models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	url, err := StoreAsset(ctx, s.uploader, asset, media.Target{Kind: media.KindAvatar, Origin: origin})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Patch(id, func(u *models.User) error {
		u.Avatar = url
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("user removed during avatar upload, asset orphaned", "user_id", id, "url", url)
		}
		return nil, userErr("save avatar", err)
	}
	return user, nil
}

// Me returns the profile of the user whose token authenticated ctx
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return nil, unauthorized("authentication required")
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, unauthorized("account no longer exists")
		}
		return nil, internal("get user", err)
	}
	return user, nil
}

func userErr(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFound("user")
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return validationError("email already registered")
	default:
		return invalid(op, err)
	}
}
