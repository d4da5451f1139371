package repositories

import (
	"blogstore/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments live under their post's key range, so a post's comment list
// is a prefix scan and is never stored separately.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create stores a comment after checking, in the same transaction, that
// its post exists. A post deleted concurrently makes the commit conflict
// and the retry then reports ErrNotFound.
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return update(r.db, func(txn *badger.Txn) error {
		found, err := exists(txn, postKey(comment.PostID))
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		comment.BeforeCreate()

		return putEntity(txn, commentKey(comment.PostID, comment.ID), comment.Stored())
	})
}

// Get retrieves a comment that belongs to the given post
func (r *BadgerCommentRepository) Get(postID, id int) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, commentKey(postID, id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post in creation order
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scan(txn, commentPrefix(postID), false, func(val []byte) (bool, error) {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return false, err
			}
			comments = append(comments, &comment)
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Patch applies mutate to a stored comment. The parent reference and
// creation time cannot be changed by mutate.
func (r *BadgerCommentRepository) Patch(postID, id int, mutate func(comment *models.Comment) error) (*models.Comment, error) {
	var comment models.Comment
	key := commentKey(postID, id)
	err := update(r.db, func(txn *badger.Txn) error {
		comment = models.Comment{}
		if err := getEntity(txn, key, &comment); err != nil {
			return err
		}
		createdAt := comment.CreatedAt
		if err := mutate(&comment); err != nil {
			return err
		}
		comment.ID = id
		comment.PostID = postID
		comment.CreatedAt = createdAt
		comment.Touch()

		return putEntity(txn, key, comment.Stored())
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete deletes a comment that belongs to the given post
func (r *BadgerCommentRepository) Delete(postID, id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := commentKey(postID, id)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return txn.Delete(key)
	})
}
