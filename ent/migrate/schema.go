// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CheckpointsColumns holds the columns for the "checkpoints" table.
	CheckpointsColumns = []*schema.Column{
		{Name: "checkpoint_id", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
	}
	// CheckpointsTable holds the schema information for the "checkpoints" table.
	CheckpointsTable = &schema.Table{
		Name:       "checkpoints",
		Columns:    CheckpointsColumns,
		PrimaryKey: []*schema.Column{CheckpointsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "checkpoints_sessions_checkpoints",
				Columns:    []*schema.Column{CheckpointsColumns[2]},
				RefColumns: []*schema.Column{SessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "checkpoint_session_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{CheckpointsColumns[2], CheckpointsColumns[1]},
			},
		},
	}
	// CheckpointFilesColumns holds the columns for the "checkpoint_files" table.
	CheckpointFilesColumns = []*schema.Column{
		{Name: "checkpoint_file_id", Type: field.TypeString, Unique: true},
		{Name: "path", Type: field.TypeString},
		{Name: "original_content", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "action", Type: field.TypeEnum, Enums: []string{"created", "modified", "deleted"}},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "checkpoint_id", Type: field.TypeString},
	}
	// CheckpointFilesTable holds the schema information for the "checkpoint_files" table.
	CheckpointFilesTable = &schema.Table{
		Name:       "checkpoint_files",
		Columns:    CheckpointFilesColumns,
		PrimaryKey: []*schema.Column{CheckpointFilesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "checkpoint_files_checkpoints_files",
				Columns:    []*schema.Column{CheckpointFilesColumns[5]},
				RefColumns: []*schema.Column{CheckpointsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "checkpointfile_checkpoint_id_path",
				Unique:  true,
				Columns: []*schema.Column{CheckpointFilesColumns[5], CheckpointFilesColumns[1]},
			},
		},
	}
	// EventsColumns holds the columns for the "events" table.
	EventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "channel", Type: field.TypeString},
		{Name: "payload", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
	}
	// EventsTable holds the schema information for the "events" table.
	EventsTable = &schema.Table{
		Name:       "events",
		Columns:    EventsColumns,
		PrimaryKey: []*schema.Column{EventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "events_sessions_events",
				Columns:    []*schema.Column{EventsColumns[4]},
				RefColumns: []*schema.Column{SessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "event_channel_id",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[1], EventsColumns[0]},
			},
			{
				Name:    "event_session_id",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[4]},
			},
			{
				Name:    "event_created_at",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[3]},
			},
		},
	}
	// MessagesColumns holds the columns for the "messages" table.
	MessagesColumns = []*schema.Column{
		{Name: "message_id", Type: field.TypeString, Unique: true},
		{Name: "sequence_number", Type: field.TypeInt},
		{Name: "role", Type: field.TypeEnum, Enums: []string{"system", "user", "assistant", "tool"}},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "model", Type: field.TypeString, Nullable: true},
		{Name: "tool_name", Type: field.TypeString, Nullable: true},
		{Name: "tool_call_id", Type: field.TypeString, Nullable: true},
		{Name: "tool_calls", Type: field.TypeJSON, Nullable: true},
		{Name: "tool_input", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "tool_output", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "progress_title", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
	}
	// MessagesTable holds the schema information for the "messages" table.
	MessagesTable = &schema.Table{
		Name:       "messages",
		Columns:    MessagesColumns,
		PrimaryKey: []*schema.Column{MessagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "messages_sessions_messages",
				Columns:    []*schema.Column{MessagesColumns[12]},
				RefColumns: []*schema.Column{SessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "message_session_id_sequence_number",
				Unique:  false,
				Columns: []*schema.Column{MessagesColumns[12], MessagesColumns[1]},
			},
			{
				Name:    "message_session_id_tool_name",
				Unique:  false,
				Columns: []*schema.Column{MessagesColumns[12], MessagesColumns[5]},
			},
		},
	}
	// ModelRecordsColumns holds the columns for the "model_records" table.
	ModelRecordsColumns = []*schema.Column{
		{Name: "model_record_id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "context_length", Type: field.TypeInt, Nullable: true},
		{Name: "capabilities", Type: field.TypeJSON, Nullable: true},
		{Name: "parameters", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ModelRecordsTable holds the schema information for the "model_records" table.
	ModelRecordsTable = &schema.Table{
		Name:       "model_records",
		Columns:    ModelRecordsColumns,
		PrimaryKey: []*schema.Column{ModelRecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "modelrecord_name",
				Unique:  true,
				Columns: []*schema.Column{ModelRecordsColumns[1]},
			},
		},
	}
	// SessionsColumns holds the columns for the "sessions" table.
	SessionsColumns = []*schema.Column{
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "task", Type: field.TypeString, Size: 2147483647},
		{Name: "mode", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Nullable: true},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"idle", "pending", "generating", "completed", "cancelled", "error"}, Default: "idle"},
		{Name: "workspace", Type: field.TypeString},
		{Name: "auto_approve_commands", Type: field.TypeBool, Default: false},
		{Name: "auto_approve_sensitive_edits", Type: field.TypeBool, Default: false},
		{Name: "sensitive_file_patterns", Type: field.TypeJSON, Nullable: true},
		{Name: "files_changed", Type: field.TypeJSON, Nullable: true},
		{Name: "memory", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "pod_id", Type: field.TypeString, Nullable: true},
		{Name: "last_interaction_at", Type: field.TypeTime, Nullable: true},
		{Name: "deleted_at", Type: field.TypeTime, Nullable: true},
	}
	// SessionsTable holds the schema information for the "sessions" table.
	SessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    SessionsColumns,
		PrimaryKey: []*schema.Column{SessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "session_status",
				Unique:  false,
				Columns: []*schema.Column{SessionsColumns[5]},
			},
			{
				Name:    "session_mode",
				Unique:  false,
				Columns: []*schema.Column{SessionsColumns[2]},
			},
			{
				Name:    "session_status_created_at",
				Unique:  false,
				Columns: []*schema.Column{SessionsColumns[5], SessionsColumns[12]},
			},
			{
				Name:    "session_status_last_interaction_at",
				Unique:  false,
				Columns: []*schema.Column{SessionsColumns[5], SessionsColumns[17]},
			},
			{
				Name:    "session_deleted_at",
				Unique:  false,
				Columns: []*schema.Column{SessionsColumns[18]},
				Annotation: &entsql.IndexAnnotation{
					Where: "deleted_at IS NOT NULL",
				},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CheckpointsTable,
		CheckpointFilesTable,
		EventsTable,
		MessagesTable,
		ModelRecordsTable,
		SessionsTable,
	}
)

func init() {
	CheckpointsTable.ForeignKeys[0].RefTable = SessionsTable
	CheckpointFilesTable.ForeignKeys[0].RefTable = CheckpointsTable
	EventsTable.ForeignKeys[0].RefTable = SessionsTable
	MessagesTable.ForeignKeys[0].RefTable = SessionsTable
}
