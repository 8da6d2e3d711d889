// Package session persists the signed-in user's state across restarts:
// the access token, the user id, the last-used group and, between
// registration and first login, the pending display name. Every write
// is a committed bolt transaction, so durability needs no extra flush.
package session

import (
	"github.com/boltdb/bolt"
)

// Well-known keys. The store itself is key-agnostic.
const (
	KeyAccessToken = "access_token"
	KeyUserID      = "user_id"
	KeyGroupID     = "group_id"
	KeyPendingName = "pending_name"
)

type Store struct {
	Driver *Driver
}

// Get retrieves the value stored under key. The boolean reports whether
// the key was present, an absent key is not an error.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	var found bool
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get([]byte(key))
		if data == nil {
			return nil
		}

		value = string(data)
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}

	return value, found, nil
}

func (s *Store) Set(key, value string) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), []byte(value))
	})
}

func (s *Store) Delete(key string) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
}

// Clear drops every key, i.e. logs the user out.
func (s *Store) Clear() error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(sessionBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(sessionBucket)
		return err
	})
}

// Session is a point-in-time view of the four well-known keys. Absent
// keys read as empty strings.
type Session struct {
	AccessToken string
	UserID      string
	GroupID     string
	PendingName string
}

// Snapshot reads the whole session in a single view transaction.
func (s *Store) Snapshot() (Session, error) {
	var session Session
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionBucket)
		session.AccessToken = string(bucket.Get([]byte(KeyAccessToken)))
		session.UserID = string(bucket.Get([]byte(KeyUserID)))
		session.GroupID = string(bucket.Get([]byte(KeyGroupID)))
		session.PendingName = string(bucket.Get([]byte(KeyPendingName)))
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// AccessToken reports the stored bearer token, if any. It satisfies the
// token source the HTTP client wants.
func (s *Store) AccessToken() (string, bool) {
	token, found, err := s.Get(KeyAccessToken)
	if err != nil {
		return "", false
	}
	return token, found && token != ""
}
