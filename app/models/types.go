package models

import "time"

// Read time units accepted for a post.
const (
	UnitMinutes = "minutes"
	UnitHours   = "hours"
)

// User roles.
const (
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// DefaultAvatar is assigned to users registered without one.
const DefaultAvatar = "https://cdn.iconscout.com/icon/free/png-512/free-avatar-370-456322.png"

// ReadTime is an estimated reading duration.
type ReadTime struct {
	Value float64 `json:"value" validate:"gt=0"`
	Unit  string  `json:"unit" validate:"required,oneof=minutes hours"`
}

// Post represents a blog post. Author and Comments are resolved on read
// and never stored with the post.
type Post struct {
	ID          int        `json:"id"`
	Title       string     `json:"title" validate:"required"`
	Category    string     `json:"category" validate:"required"`
	Cover       string     `json:"cover,omitempty" validate:"omitempty,url"`
	Content     string     `json:"content,omitempty"`
	ReadTime    *ReadTime  `json:"readTime,omitempty"`
	AuthorID    int        `json:"authorId,omitempty" validate:"gte=0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Author      *User      `json:"author,omitempty" validate:"-"`
	Comments    []*Comment `json:"comments" validate:"-"`
	ContentHTML string     `json:"contentHtml,omitempty" validate:"-"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int       `json:"id"`
	Comment   string    `json:"comment" validate:"required"`
	Rate      float64   `json:"rate"`
	AuthorID  int       `json:"authorId,omitempty" validate:"gte=0"`
	PostID    int       `json:"refPost" validate:"required,gt=0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    *User     `json:"author,omitempty" validate:"-"`
}

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID        int       `json:"id"`
	FirstName string    `json:"firstName" validate:"required"`
	LastName  string    `json:"lastName" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Avatar    string    `json:"avatar"`
	BirthDate string    `json:"birthDate,omitempty"`
	Password  string    `json:"-" validate:"required"`
	Role      string    `json:"role" validate:"oneof=author admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
