// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
	"github.com/kiln-dev/kiln/ent/event"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/ent/modelrecord"
	"github.com/kiln-dev/kiln/ent/schema"
	"github.com/kiln-dev/kiln/ent/session"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	checkpointFields := schema.Checkpoint{}.Fields()
	_ = checkpointFields
	// checkpointDescCreatedAt is the schema descriptor for created_at field.
	checkpointDescCreatedAt := checkpointFields[2].Descriptor()
	// checkpoint.DefaultCreatedAt holds the default value on creation for the created_at field.
	checkpoint.DefaultCreatedAt = checkpointDescCreatedAt.Default.(func() time.Time)
	checkpointfileFields := schema.CheckpointFile{}.Fields()
	_ = checkpointfileFields
	// checkpointfileDescCreatedAt is the schema descriptor for created_at field.
	checkpointfileDescCreatedAt := checkpointfileFields[5].Descriptor()
	// checkpointfile.DefaultCreatedAt holds the default value on creation for the created_at field.
	checkpointfile.DefaultCreatedAt = checkpointfileDescCreatedAt.Default.(func() time.Time)
	eventFields := schema.Event{}.Fields()
	_ = eventFields
	// eventDescCreatedAt is the schema descriptor for created_at field.
	eventDescCreatedAt := eventFields[3].Descriptor()
	// event.DefaultCreatedAt holds the default value on creation for the created_at field.
	event.DefaultCreatedAt = eventDescCreatedAt.Default.(func() time.Time)
	messageFields := schema.Message{}.Fields()
	_ = messageFields
	// messageDescCreatedAt is the schema descriptor for created_at field.
	messageDescCreatedAt := messageFields[12].Descriptor()
	// message.DefaultCreatedAt holds the default value on creation for the created_at field.
	message.DefaultCreatedAt = messageDescCreatedAt.Default.(func() time.Time)
	modelrecordFields := schema.ModelRecord{}.Fields()
	_ = modelrecordFields
	// modelrecordDescUpdatedAt is the schema descriptor for updated_at field.
	modelrecordDescUpdatedAt := modelrecordFields[5].Descriptor()
	// modelrecord.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	modelrecord.DefaultUpdatedAt = modelrecordDescUpdatedAt.Default.(func() time.Time)
	// modelrecord.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	modelrecord.UpdateDefaultUpdatedAt = modelrecordDescUpdatedAt.UpdateDefault.(func() time.Time)
	sessionFields := schema.Session{}.Fields()
	_ = sessionFields
	// sessionDescAutoApproveCommands is the schema descriptor for auto_approve_commands field.
	sessionDescAutoApproveCommands := sessionFields[7].Descriptor()
	// session.DefaultAutoApproveCommands holds the default value on creation for the auto_approve_commands field.
	session.DefaultAutoApproveCommands = sessionDescAutoApproveCommands.Default.(bool)
	// sessionDescAutoApproveSensitiveEdits is the schema descriptor for auto_approve_sensitive_edits field.
	sessionDescAutoApproveSensitiveEdits := sessionFields[8].Descriptor()
	// session.DefaultAutoApproveSensitiveEdits holds the default value on creation for the auto_approve_sensitive_edits field.
	session.DefaultAutoApproveSensitiveEdits = sessionDescAutoApproveSensitiveEdits.Default.(bool)
	// sessionDescCreatedAt is the schema descriptor for created_at field.
	sessionDescCreatedAt := sessionFields[12].Descriptor()
	// session.DefaultCreatedAt holds the default value on creation for the created_at field.
	session.DefaultCreatedAt = sessionDescCreatedAt.Default.(func() time.Time)
}
