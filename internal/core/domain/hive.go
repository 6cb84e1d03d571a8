// Package domain contains the core catalogue types and lifecycle rules.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import "time"

// =============================================================================
// Lifecycle
// =============================================================================

// LifecycleState is the soft-delete state of a hive, hive section or product.
type LifecycleState string

const (
	StateActive      LifecycleState = "active"
	StateSoftDeleted LifecycleState = "soft_deleted"
)

// StateOf returns the lifecycle state for a deleted flag.
func StateOf(deleted bool) LifecycleState {
	if deleted {
		return StateSoftDeleted
	}
	return StateActive
}

// CanPurge reports whether a record in the given state may be physically removed.
// Only soft-deleted records can be purged.
func (s LifecycleState) CanPurge() bool {
	return s == StateSoftDeleted
}

// Audit holds the bookkeeping fields shared by every catalogue record.
type Audit struct {
	CreatedBy     int
	LastUpdatedBy int
	CreatedAt     time.Time
	LastUpdated   time.Time
}

// =============================================================================
// Hive
// =============================================================================

// Hive is a storage location (warehouse or site).
// Code is unique across all hives, including soft-deleted ones.
type Hive struct {
	ID        int
	Code      string
	Name      string
	Address   string
	IsDeleted bool
	Audit
}

// State returns the lifecycle state of the hive.
func (h Hive) State() LifecycleState {
	return StateOf(h.IsDeleted)
}

// =============================================================================
// Hive Section
// =============================================================================

// HiveSection is a subdivision belonging to exactly one hive.
type HiveSection struct {
	ID        int
	Code      string
	Name      string
	HiveID    int
	IsDeleted bool
	Audit
}

// State returns the lifecycle state of the section.
func (s HiveSection) State() LifecycleState {
	return StateOf(s.IsDeleted)
}

// BelongsTo reports whether the section is owned by the given hive.
func (s HiveSection) BelongsTo(hiveID int) bool {
	return s.HiveID == hiveID
}
