package repositories

import (
	"errors"
	"strconv"

	"blogstore/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userRecord is the stored form of a user. The password hash is kept
// out of the public JSON shape of models.User.
type userRecord struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func toRecord(u *models.User) *userRecord {
	return &userRecord{User: *u, PasswordHash: u.Password}
}

func (rec *userRecord) user() *models.User {
	u := rec.User
	u.Password = rec.PasswordHash
	return &u
}

func getUser(txn *badger.Txn, id int) (*models.User, error) {
	var rec userRecord
	if err := getEntity(txn, userKey(id), &rec); err != nil {
		return nil, err
	}
	return rec.user(), nil
}

// BadgerUserRepository implements UserRepository using BadgerDB. A
// secondary key maps each normalized email to its user id.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a user and claims its email address
func (r *BadgerUserRepository) Create(user *models.User) error {
	return update(r.db, func(txn *badger.Txn) error {
		user.Email = models.NormalizeEmail(user.Email)
		emailKey := userEmailKey(user.Email)
		taken, err := exists(txn, emailKey)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id
		user.BeforeCreate()

		if err := txn.Set(emailKey, []byte(strconv.Itoa(id))); err != nil {
			return err
		}
		return putEntity(txn, userKey(id), toRecord(user))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user *models.User
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user through the email index
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	var user *models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(models.NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id int
		err = item.Value(func(val []byte) error {
			var convErr error
			id, convErr = strconv.Atoi(string(val))
			return convErr
		})
		if err != nil {
			return err
		}
		user, err = getUser(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves all users in registration order
func (r *BadgerUserRepository) List() ([]*models.User, error) {
	users := []*models.User{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(UserKeyPrefix), false, func(val []byte) (bool, error) {
			var rec userRecord
			if err := unmarshalEntity(val, &rec); err != nil {
				return false, err
			}
			users = append(users, rec.user())
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Patch applies mutate to a stored user, moving the email index entry
// when the address changes.
func (r *BadgerUserRepository) Patch(id int, mutate func(user *models.User) error) (*models.User, error) {
	var user *models.User
	err := update(r.db, func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		if err != nil {
			return err
		}
		oldEmail := user.Email
		createdAt := user.CreatedAt
		if err := mutate(user); err != nil {
			return err
		}
		user.ID = id
		user.CreatedAt = createdAt
		user.Email = models.NormalizeEmail(user.Email)
		user.Touch()

		if user.Email != oldEmail {
			newKey := userEmailKey(user.Email)
			taken, err := exists(txn, newKey)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
			if err := txn.Delete(userEmailKey(oldEmail)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(strconv.Itoa(id))); err != nil {
				return err
			}
		}
		return putEntity(txn, userKey(id), toRecord(user))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
