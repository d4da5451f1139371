package repositories

import (
	"fmt"
	"io"

	"blogstore/pkg/logger"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger database and the repositories built on it.
type Store struct {
	db       *badger.DB
	Posts    *BadgerPostRepository
	Comments *BadgerCommentRepository
	Users    *BadgerUserRepository
}

// Open opens the database at path. An empty path opens an in-memory
// database, which is what tests use.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(logger.BadgerLogger{}).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Store{
		db:       db,
		Posts:    NewBadgerPostRepository(db),
		Comments: NewBadgerCommentRepository(db),
		Users:    NewBadgerUserRepository(db),
	}, nil
}

// DB exposes the underlying database.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear drops every key, sequences included.
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Backup writes a full backup of the database to w.
func (s *Store) Backup(w io.Writer) error {
	_, err := s.db.Backup(w, 0)
	return err
}

// Restore loads a backup produced by Backup into the database.
func (s *Store) Restore(r io.Reader) error {
	return s.db.Load(r, 256)
}

var (
	_ PostRepository    = (*BadgerPostRepository)(nil)
	_ CommentRepository = (*BadgerCommentRepository)(nil)
	_ UserRepository    = (*BadgerUserRepository)(nil)
)
