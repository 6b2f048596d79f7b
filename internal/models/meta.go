package models

import "time"

// Meta holds the storage-assigned identity of a record.
type Meta struct {
	// ID is unique within the record's own collection only.
	ID string `json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base returns the embedded Meta so generic storage code can stamp ids and
// timestamps without knowing the concrete record type.
func (m *Meta) Base() *Meta { return m }
