// Package repositories is the persistence gateway: the sole point of contact
// with the relational store. Every repository receives the shared *gorm.DB
// pool through its constructor.
package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound signals that the requested entity does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict signals a duplicate value in a unique column.
var ErrConflict = errors.New("duplicate record")

// translate maps gorm's error values onto the repository taxonomy. Anything
// unrecognised propagates as-is and is treated as a storage fault upstream.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
