package repositories

import "blogstore/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	// List returns posts newest first.
	List(limit, offset int) ([]*models.Post, error)
	ListByAuthor(authorID int) ([]*models.Post, error)
	Count() (int, error)
	// Patch reads, mutates and writes a post atomically.
	Patch(id int, mutate func(post *models.Post) error) (*models.Post, error)
	// Delete removes the post together with every comment under it.
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access.
// Comments are always addressed through their parent post.
type CommentRepository interface {
	// Create fails with ErrNotFound when the parent post does not exist.
	Create(comment *models.Comment) error
	Get(postID, id int) (*models.Comment, error)
	// ListByPost returns comments in creation order.
	ListByPost(postID int) ([]*models.Comment, error)
	Patch(postID, id int, mutate func(comment *models.Comment) error) (*models.Comment, error)
	Delete(postID, id int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create fails with ErrDuplicateEmail when the address is taken.
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List() ([]*models.User, error)
	Patch(id int, mutate func(user *models.User) error) (*models.User, error)
}
