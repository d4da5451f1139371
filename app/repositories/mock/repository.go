package mock

import (
	"sort"
	"sync"

	"blogstore/app/models"
	"blogstore/app/repositories"
)

// Store is an in-memory stand-in for repositories.Store. Posts, comments
// and users share one lock so that cascades and parent checks behave
// like the badger transactions.
type Store struct {
	mutex    sync.RWMutex
	posts    map[int]*models.Post
	comments map[int]*models.Comment
	users    map[int]*models.User
	nextPost int
	nextCmt  int
	nextUser int

	Posts    *PostRepository
	Comments *CommentRepository
	Users    *UserRepository
}

type PostRepository struct{ s *Store }

type CommentRepository struct{ s *Store }

type UserRepository struct{ s *Store }

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	s.Posts = &PostRepository{s: s}
	s.Comments = &CommentRepository{s: s}
	s.Users = &UserRepository{s: s}
	return s
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.users = make(map[int]*models.User)
	s.nextPost, s.nextCmt, s.nextUser = 1, 1, 1
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	post.ID = m.s.nextPost
	m.s.nextPost++
	post.BeforeCreate()
	m.s.posts[post.ID] = post.Stored()
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return post.Stored(), nil
}

func (m *PostRepository) sorted() []*models.Post {
	posts := make([]*models.Post, 0, len(m.s.posts))
	for _, p := range m.s.posts {
		posts = append(posts, p.Stored())
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts
}

func (m *PostRepository) List(limit, offset int) ([]*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	all := m.sorted()
	if offset >= len(all) || limit <= 0 {
		return []*models.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *PostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	posts := []*models.Post{}
	for _, p := range m.sorted() {
		if p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (m *PostRepository) Count() (int, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	return len(m.s.posts), nil
}

func (m *PostRepository) Patch(id int, mutate func(post *models.Post) error) (*models.Post, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	current, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	post := current.Stored()
	if err := mutate(post); err != nil {
		return nil, err
	}
	post.ID = id
	post.CreatedAt = current.CreatedAt
	post.Touch()
	m.s.posts[id] = post.Stored()
	return post, nil
}

func (m *PostRepository) Delete(id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	for cid, c := range m.s.comments {
		if c.PostID == id {
			delete(m.s.comments, cid)
		}
	}
	delete(m.s.posts, id)
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.s.nextCmt
	m.s.nextCmt++
	comment.BeforeCreate()
	m.s.comments[comment.ID] = comment.Stored()
	return nil
}

func (m *CommentRepository) Get(postID, id int) (*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	comment, exists := m.s.comments[id]
	if !exists || comment.PostID != postID {
		return nil, repositories.ErrNotFound
	}
	return comment.Stored(), nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, c := range m.s.comments {
		if c.PostID == postID {
			comments = append(comments, c.Stored())
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) Patch(postID, id int, mutate func(comment *models.Comment) error) (*models.Comment, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	current, exists := m.s.comments[id]
	if !exists || current.PostID != postID {
		return nil, repositories.ErrNotFound
	}
	comment := current.Stored()
	if err := mutate(comment); err != nil {
		return nil, err
	}
	comment.ID = id
	comment.PostID = postID
	comment.CreatedAt = current.CreatedAt
	comment.Touch()
	m.s.comments[id] = comment.Stored()
	return comment, nil
}

func (m *CommentRepository) Delete(postID, id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	comment, exists := m.s.comments[id]
	if !exists || comment.PostID != postID {
		return repositories.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}

// UserRepository implementation
func (m *UserRepository) emailTaken(email string, except int) bool {
	for id, u := range m.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *UserRepository) Create(user *models.User) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	user.Email = models.NormalizeEmail(user.Email)
	if m.emailTaken(user.Email, 0) {
		return repositories.ErrDuplicateEmail
	}
	user.ID = m.s.nextUser
	m.s.nextUser++
	user.BeforeCreate()
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	user, exists := m.s.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetByEmail(email string) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	email = models.NormalizeEmail(email)
	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List() ([]*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	users := make([]*models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *UserRepository) Patch(id int, mutate func(user *models.User) error) (*models.User, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	current, exists := m.s.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	user := *current
	if err := mutate(&user); err != nil {
		return nil, err
	}
	user.ID = id
	user.CreatedAt = current.CreatedAt
	user.Email = models.NormalizeEmail(user.Email)
	if m.emailTaken(user.Email, id) {
		return nil, repositories.ErrDuplicateEmail
	}
	user.Touch()
	stored := user
	m.s.users[id] = &stored
	return &user, nil
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.UserRepository    = (*UserRepository)(nil)
)
