package repositories

import (
	"blogstore/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create assigns an id and timestamps and stores the post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return update(r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate()

		return putEntity(txn, postKey(post.ID), post.Stored())
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves a window of posts, newest first
func (r *BadgerPostRepository) List(limit, offset int) ([]*models.Post, error) {
	posts := []*models.Post{}
	if limit <= 0 {
		return posts, nil
	}
	err := r.db.View(func(txn *badger.Txn) error {
		skipped := 0
		return scan(txn, []byte(PostKeyPrefix), true, func(val []byte) (bool, error) {
			if skipped < offset {
				skipped++
				return true, nil
			}
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return false, err
			}
			posts = append(posts, &post)
			return len(posts) < limit, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor retrieves every post written by a user, newest first
func (r *BadgerPostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(PostKeyPrefix), true, func(val []byte) (bool, error) {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return false, err
			}
			if post.AuthorID == authorID {
				posts = append(posts, &post)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the total number of posts
func (r *BadgerPostRepository) Count() (int, error) {
	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		n = len(collectKeys(txn, []byte(PostKeyPrefix)))
		return nil
	})
	return n, err
}

// Patch applies mutate to the stored post inside one transaction
func (r *BadgerPostRepository) Patch(id int, mutate func(post *models.Post) error) (*models.Post, error) {
	var post models.Post
	err := update(r.db, func(txn *badger.Txn) error {
		post = models.Post{}
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		createdAt := post.CreatedAt
		if err := mutate(&post); err != nil {
			return err
		}
		post.ID = id
		post.CreatedAt = createdAt
		post.Touch()

		return putEntity(txn, postKey(id), post.Stored())
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete deletes a post and its comments in a single transaction
func (r *BadgerPostRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := postKey(id)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		for _, ck := range collectKeys(txn, commentPrefix(id)) {
			if err := txn.Delete(ck); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
}
