package models

// CreatePostRequest is the body of POST /posts/create.
type CreatePostRequest struct {
	Title    string    `json:"title" validate:"required"`
	Category string    `json:"category" validate:"required"`
	Cover    string    `json:"cover" validate:"omitempty,url"`
	Content  string    `json:"content"`
	ReadTime *ReadTime `json:"readTime"`
	Author   int       `json:"author" validate:"gte=0"`
}

// Post builds the post described by the request.
func (r *CreatePostRequest) Post() *Post {
	return &Post{
		Title:    r.Title,
		Category: r.Category,
		Cover:    r.Cover,
		Content:  r.Content,
		ReadTime: r.ReadTime,
		AuthorID: r.Author,
	}
}

// UpdatePostRequest carries the fields of a partial post update. Nil
// fields are left unchanged.
type UpdatePostRequest struct {
	Title    *string   `json:"title" validate:"omitempty,min=1"`
	Category *string   `json:"category" validate:"omitempty,min=1"`
	Cover    *string   `json:"cover" validate:"omitempty,url"`
	Content  *string   `json:"content"`
	ReadTime *ReadTime `json:"readTime"`
	Author   *int      `json:"author" validate:"omitempty,gte=0"`
}

// Empty reports whether no field was supplied.
func (r *UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Category == nil && r.Cover == nil &&
		r.Content == nil && r.ReadTime == nil && r.Author == nil
}

// Apply copies the supplied fields onto p.
func (r *UpdatePostRequest) Apply(p *Post) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Cover != nil {
		p.Cover = *r.Cover
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.ReadTime != nil {
		rt := *r.ReadTime
		p.ReadTime = &rt
	}
	if r.Author != nil {
		p.AuthorID = *r.Author
	}
}

// CreateCommentRequest is the body of POST /posts/{id}/comments/create.
type CreateCommentRequest struct {
	Comment string   `json:"comment" validate:"required"`
	Rate    *float64 `json:"rate" validate:"required"`
	Author  int      `json:"author" validate:"gte=0"`
}

// UpdateCommentRequest carries the fields of a partial comment update.
// RefPost is only declared so that attempts to move a comment are
// rejected instead of silently ignored; any value is refused.
type UpdateCommentRequest struct {
	Comment *string  `json:"comment" validate:"omitempty,min=1"`
	Rate    *float64 `json:"rate"`
	Author  *int     `json:"author" validate:"omitempty,gte=0"`
	RefPost *int     `json:"refPost"`
}

// Empty reports whether no mutable field was supplied.
func (r *UpdateCommentRequest) Empty() bool {
	return r.Comment == nil && r.Rate == nil && r.Author == nil
}

// Apply copies the supplied fields onto c.
func (r *UpdateCommentRequest) Apply(c *Comment) {
	if r.Comment != nil {
		c.Comment = *r.Comment
	}
	if r.Rate != nil {
		c.Rate = *r.Rate
	}
	if r.Author != nil {
		c.AuthorID = *r.Author
	}
}

// RegisterRequest is the body of POST /register and POST /users/create.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	BirthDate string `json:"birthDate"`
	Avatar    string `json:"avatar" validate:"omitempty,url"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries the fields of a partial user update.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	BirthDate *string `json:"birthDate"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
	Role      *string `json:"role" validate:"omitempty,oneof=author admin"`
}

// Apply copies the supplied profile fields onto u. The password is
// hashed by the caller.
func (r *UpdateUserRequest) Apply(u *User) {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.BirthDate != nil {
		u.BirthDate = *r.BirthDate
	}
	if r.Avatar != nil {
		u.Avatar = *r.Avatar
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
}
