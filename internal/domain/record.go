// Package domain defines the core entities of the Inkwell content-sharing service.
package domain

import "time"

// Record provides the common identity, timestamp, and soft-delete fields shared
// by every persisted entity. It gets embedded in each domain type.
// UpdatedAt and DeletedAt are nullable: a freshly created record has neither.
type Record struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (r *Record) Touch() {
	now := time.Now()
	r.UpdatedAt = &now
}

// InitTimestamps sets CreatedAt to now. UpdatedAt stays nil until the first
// mutation so clients can tell an untouched record apart.
func (r *Record) InitTimestamps() {
	r.CreatedAt = time.Now()
}

// IsDeleted returns true if this entity has been soft-deleted.
func (r *Record) IsDeleted() bool {
	return r.DeletedAt != nil
}

// MarkDeleted marks this entity as soft-deleted by setting DeletedAt to now.
// This also updates UpdatedAt so the deletion is visible to change consumers.
func (r *Record) MarkDeleted() {
	now := time.Now()
	r.DeletedAt = &now
	r.UpdatedAt = &now
}
