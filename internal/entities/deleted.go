package entities

import (
	"errors"

	"github.com/google/uuid"
)

// Active is the delete marker of a record which was not deleted.
var Active = uuid.Nil

// DeleteMarker is the only value a delete request may carry.
// It is replaced with the record's own identity when the record is tombstoned.
var DeleteMarker = uuid.Max

// ErrInvalidTombstone is returned when a record is tombstoned with unexpected marker.
var ErrInvalidTombstone = errors.New("invalid delete marker")

// ErrAlreadyDeleted is returned when a tombstoned record is tombstoned again.
var ErrAlreadyDeleted = errors.New("already deleted")

// IsActive returns true if the record was not deleted.
func (b Base) IsActive() bool {
	return b.Deleted == Active
}

// IsTombstone returns true if the record's delete marker equals to its own identity.
func (b Base) IsTombstone() bool {
	return b.ID != uuid.Nil && b.Deleted == b.ID
}

// Tombstone marks the record as deleted.
// The marker is unique per record, so deleted records can share business keys in uniqueness indexes.
func (b *Base) Tombstone(marker uuid.UUID) error {
	if marker != DeleteMarker {
		return ErrInvalidTombstone
	}

	if !b.IsActive() {
		return ErrAlreadyDeleted
	}

	b.Deleted = b.ID

	return nil
}
