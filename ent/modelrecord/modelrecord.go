// Code generated by ent, DO NOT EDIT.

package modelrecord

import (
	"time"

	"entgo.io/ent/dialect/sql"
)

const (
	// Label holds the string label denoting the modelrecord type in the database.
	Label = "model_record"
	// FieldID holds the string denoting the id field in the database.
	FieldID = "model_record_id"
	// FieldName holds the string denoting the name field in the database.
	FieldName = "name"
	// FieldContextLength holds the string denoting the context_length field in the database.
	FieldContextLength = "context_length"
	// FieldCapabilities holds the string denoting the capabilities field in the database.
	FieldCapabilities = "capabilities"
	// FieldParameters holds the string denoting the parameters field in the database.
	FieldParameters = "parameters"
	// FieldUpdatedAt holds the string denoting the updated_at field in the database.
	FieldUpdatedAt = "updated_at"
	// Table holds the table name of the modelrecord in the database.
	Table = "model_records"
)

// Columns holds all SQL columns for modelrecord fields.
var Columns = []string{
	FieldID,
	FieldName,
	FieldContextLength,
	FieldCapabilities,
	FieldParameters,
	FieldUpdatedAt,
}

// ValidColumn reports if the column name is valid (part of the table columns).
func ValidColumn(column string) bool {
	for i := range Columns {
		if column == Columns[i] {
			return true
		}
	}
	return false
}

var (
	// DefaultUpdatedAt holds the default value on creation for the "updated_at" field.
	DefaultUpdatedAt func() time.Time
	// UpdateDefaultUpdatedAt holds the default value on update for the "updated_at" field.
	UpdateDefaultUpdatedAt func() time.Time
)

// OrderOption defines the ordering options for the ModelRecord queries.
type OrderOption func(*sql.Selector)

// ByID orders the results by the id field.
func ByID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldID, opts...).ToFunc()
}

// ByName orders the results by the name field.
func ByName(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldName, opts...).ToFunc()
}

// ByContextLength orders the results by the context_length field.
func ByContextLength(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldContextLength, opts...).ToFunc()
}

// ByParameters orders the results by the parameters field.
func ByParameters(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldParameters, opts...).ToFunc()
}

// ByUpdatedAt orders the results by the updated_at field.
func ByUpdatedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldUpdatedAt, opts...).ToFunc()
}
