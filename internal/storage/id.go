package storage

import "github.com/google/uuid"

// NewID returns "<prefix>_<uuid>". Version 7 UUIDs lead with a millisecond
// timestamp, so ids created later sort after earlier ones.
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if prefix == "" {
		return id.String()
	}
	return prefix + "_" + id.String()
}
