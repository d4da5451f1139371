package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix      = "post:"
	CommentKeyPrefix   = "comment:"
	UserKeyPrefix      = "user:"
	UserEmailKeyPrefix = "user-email:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	UserSeqKey    = "seq:user"

	maxTxnAttempts = 5
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Ids are zero padded so that key order matches id order.
func postKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", PostKeyPrefix, id))
}

func commentPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", CommentKeyPrefix, postID))
}

func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d:%010d", CommentKeyPrefix, postID, id))
}

func userKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", UserKeyPrefix, id))
}

func userEmailKey(normalized string) []byte {
	return []byte(UserEmailKeyPrefix + normalized)
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, fmt.Errorf("failed to get sequence: %w", err)
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %q", seqKey)
			}
			id = binary.BigEndian.Uint64(val) + 1
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, id)
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return int(id), nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the value at key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// putEntity marshals entity and stores it at key.
func putEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// exists reports whether key is present.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// collectKeys returns copies of every key under prefix. The iterator is
// closed before returning so the caller may write in the same txn.
func collectKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// scan calls fn with the value of every key under prefix, newest key
// first when reverse is set. fn returns false to stop.
func scan(txn *badger.Txn, prefix []byte, reverse bool, fn func(val []byte) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	start := prefix
	if reverse {
		start = append(append([]byte{}, prefix...), 0xFF)
	}
	for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
		var more bool
		err := it.Item().Value(func(val []byte) error {
			var ferr error
			more, ferr = fn(val)
			return ferr
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

// update runs fn in a read-write transaction, retrying when badger
// reports a conflict with a concurrently committed transaction.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}
