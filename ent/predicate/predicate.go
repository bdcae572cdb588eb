// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// Checkpoint is the predicate function for checkpoint builders.
type Checkpoint func(*sql.Selector)

// CheckpointFile is the predicate function for checkpointfile builders.
type CheckpointFile func(*sql.Selector)

// Event is the predicate function for event builders.
type Event func(*sql.Selector)

// Message is the predicate function for message builders.
type Message func(*sql.Selector)

// ModelRecord is the predicate function for modelrecord builders.
type ModelRecord func(*sql.Selector)

// Session is the predicate function for session builders.
type Session func(*sql.Selector)
