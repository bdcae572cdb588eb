// Code generated by ent, DO NOT EDIT.

package message

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// ID filters vertices based on their ID field.
func ID(id string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldID, id))
}

// IDEQ applies the EQ predicate on the ID field.
func IDEQ(id string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldID, id))
}

// IDNEQ applies the NEQ predicate on the ID field.
func IDNEQ(id string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldID, id))
}

// IDIn applies the In predicate on the ID field.
func IDIn(ids ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldID, ids...))
}

// IDNotIn applies the NotIn predicate on the ID field.
func IDNotIn(ids ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldID, ids...))
}

// IDGT applies the GT predicate on the ID field.
func IDGT(id string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldID, id))
}

// IDGTE applies the GTE predicate on the ID field.
func IDGTE(id string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldID, id))
}

// IDLT applies the LT predicate on the ID field.
func IDLT(id string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldID, id))
}

// IDLTE applies the LTE predicate on the ID field.
func IDLTE(id string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldID, id))
}

// IDEqualFold applies the EqualFold predicate on the ID field.
func IDEqualFold(id string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldID, id))
}

// IDContainsFold applies the ContainsFold predicate on the ID field.
func IDContainsFold(id string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldID, id))
}

// SessionID applies equality check predicate on the "session_id" field. It's identical to SessionIDEQ.
func SessionID(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldSessionID, v))
}

// SequenceNumber applies equality check predicate on the "sequence_number" field. It's identical to SequenceNumberEQ.
func SequenceNumber(v int) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldSequenceNumber, v))
}

// Content applies equality check predicate on the "content" field. It's identical to ContentEQ.
func Content(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldContent, v))
}

// Model applies equality check predicate on the "model" field. It's identical to ModelEQ.
func Model(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldModel, v))
}

// ToolName applies equality check predicate on the "tool_name" field. It's identical to ToolNameEQ.
func ToolName(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolName, v))
}

// ToolCallID applies equality check predicate on the "tool_call_id" field. It's identical to ToolCallIDEQ.
func ToolCallID(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolCallID, v))
}

// ToolInput applies equality check predicate on the "tool_input" field. It's identical to ToolInputEQ.
func ToolInput(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolInput, v))
}

// ToolOutput applies equality check predicate on the "tool_output" field. It's identical to ToolOutputEQ.
func ToolOutput(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolOutput, v))
}

// ProgressTitle applies equality check predicate on the "progress_title" field. It's identical to ProgressTitleEQ.
func ProgressTitle(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldProgressTitle, v))
}

// CreatedAt applies equality check predicate on the "created_at" field. It's identical to CreatedAtEQ.
func CreatedAt(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldCreatedAt, v))
}

// SessionIDEQ applies the EQ predicate on the "session_id" field.
func SessionIDEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldSessionID, v))
}

// SessionIDNEQ applies the NEQ predicate on the "session_id" field.
func SessionIDNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldSessionID, v))
}

// SessionIDIn applies the In predicate on the "session_id" field.
func SessionIDIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldSessionID, vs...))
}

// SessionIDNotIn applies the NotIn predicate on the "session_id" field.
func SessionIDNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldSessionID, vs...))
}

// SessionIDGT applies the GT predicate on the "session_id" field.
func SessionIDGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldSessionID, v))
}

// SessionIDGTE applies the GTE predicate on the "session_id" field.
func SessionIDGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldSessionID, v))
}

// SessionIDLT applies the LT predicate on the "session_id" field.
func SessionIDLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldSessionID, v))
}

// SessionIDLTE applies the LTE predicate on the "session_id" field.
func SessionIDLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldSessionID, v))
}

// SessionIDContains applies the Contains predicate on the "session_id" field.
func SessionIDContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldSessionID, v))
}

// SessionIDHasPrefix applies the HasPrefix predicate on the "session_id" field.
func SessionIDHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldSessionID, v))
}

// SessionIDHasSuffix applies the HasSuffix predicate on the "session_id" field.
func SessionIDHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldSessionID, v))
}

// SessionIDEqualFold applies the EqualFold predicate on the "session_id" field.
func SessionIDEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldSessionID, v))
}

// SessionIDContainsFold applies the ContainsFold predicate on the "session_id" field.
func SessionIDContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldSessionID, v))
}

// SequenceNumberEQ applies the EQ predicate on the "sequence_number" field.
func SequenceNumberEQ(v int) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldSequenceNumber, v))
}

// SequenceNumberNEQ applies the NEQ predicate on the "sequence_number" field.
func SequenceNumberNEQ(v int) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldSequenceNumber, v))
}

// SequenceNumberIn applies the In predicate on the "sequence_number" field.
func SequenceNumberIn(vs ...int) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldSequenceNumber, vs...))
}

// SequenceNumberNotIn applies the NotIn predicate on the "sequence_number" field.
func SequenceNumberNotIn(vs ...int) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldSequenceNumber, vs...))
}

// SequenceNumberGT applies the GT predicate on the "sequence_number" field.
func SequenceNumberGT(v int) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldSequenceNumber, v))
}

// SequenceNumberGTE applies the GTE predicate on the "sequence_number" field.
func SequenceNumberGTE(v int) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldSequenceNumber, v))
}

// SequenceNumberLT applies the LT predicate on the "sequence_number" field.
func SequenceNumberLT(v int) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldSequenceNumber, v))
}

// SequenceNumberLTE applies the LTE predicate on the "sequence_number" field.
func SequenceNumberLTE(v int) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldSequenceNumber, v))
}

// RoleEQ applies the EQ predicate on the "role" field.
func RoleEQ(v Role) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldRole, v))
}

// RoleNEQ applies the NEQ predicate on the "role" field.
func RoleNEQ(v Role) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldRole, v))
}

// RoleIn applies the In predicate on the "role" field.
func RoleIn(vs ...Role) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldRole, vs...))
}

// RoleNotIn applies the NotIn predicate on the "role" field.
func RoleNotIn(vs ...Role) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldRole, vs...))
}

// ContentEQ applies the EQ predicate on the "content" field.
func ContentEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldContent, v))
}

// ContentNEQ applies the NEQ predicate on the "content" field.
func ContentNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldContent, v))
}

// ContentIn applies the In predicate on the "content" field.
func ContentIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldContent, vs...))
}

// ContentNotIn applies the NotIn predicate on the "content" field.
func ContentNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldContent, vs...))
}

// ContentGT applies the GT predicate on the "content" field.
func ContentGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldContent, v))
}

// ContentGTE applies the GTE predicate on the "content" field.
func ContentGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldContent, v))
}

// ContentLT applies the LT predicate on the "content" field.
func ContentLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldContent, v))
}

// ContentLTE applies the LTE predicate on the "content" field.
func ContentLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldContent, v))
}

// ContentContains applies the Contains predicate on the "content" field.
func ContentContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldContent, v))
}

// ContentHasPrefix applies the HasPrefix predicate on the "content" field.
func ContentHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldContent, v))
}

// ContentHasSuffix applies the HasSuffix predicate on the "content" field.
func ContentHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldContent, v))
}

// ContentEqualFold applies the EqualFold predicate on the "content" field.
func ContentEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldContent, v))
}

// ContentContainsFold applies the ContainsFold predicate on the "content" field.
func ContentContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldContent, v))
}

// ModelEQ applies the EQ predicate on the "model" field.
func ModelEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldModel, v))
}

// ModelNEQ applies the NEQ predicate on the "model" field.
func ModelNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldModel, v))
}

// ModelIn applies the In predicate on the "model" field.
func ModelIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldModel, vs...))
}

// ModelNotIn applies the NotIn predicate on the "model" field.
func ModelNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldModel, vs...))
}

// ModelGT applies the GT predicate on the "model" field.
func ModelGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldModel, v))
}

// ModelGTE applies the GTE predicate on the "model" field.
func ModelGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldModel, v))
}

// ModelLT applies the LT predicate on the "model" field.
func ModelLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldModel, v))
}

// ModelLTE applies the LTE predicate on the "model" field.
func ModelLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldModel, v))
}

// ModelContains applies the Contains predicate on the "model" field.
func ModelContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldModel, v))
}

// ModelHasPrefix applies the HasPrefix predicate on the "model" field.
func ModelHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldModel, v))
}

// ModelHasSuffix applies the HasSuffix predicate on the "model" field.
func ModelHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldModel, v))
}

// ModelIsNil applies the IsNil predicate on the "model" field.
func ModelIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldModel))
}

// ModelNotNil applies the NotNil predicate on the "model" field.
func ModelNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldModel))
}

// ModelEqualFold applies the EqualFold predicate on the "model" field.
func ModelEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldModel, v))
}

// ModelContainsFold applies the ContainsFold predicate on the "model" field.
func ModelContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldModel, v))
}

// ToolNameEQ applies the EQ predicate on the "tool_name" field.
func ToolNameEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolName, v))
}

// ToolNameNEQ applies the NEQ predicate on the "tool_name" field.
func ToolNameNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldToolName, v))
}

// ToolNameIn applies the In predicate on the "tool_name" field.
func ToolNameIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldToolName, vs...))
}

// ToolNameNotIn applies the NotIn predicate on the "tool_name" field.
func ToolNameNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldToolName, vs...))
}

// ToolNameGT applies the GT predicate on the "tool_name" field.
func ToolNameGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldToolName, v))
}

// ToolNameGTE applies the GTE predicate on the "tool_name" field.
func ToolNameGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldToolName, v))
}

// ToolNameLT applies the LT predicate on the "tool_name" field.
func ToolNameLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldToolName, v))
}

// ToolNameLTE applies the LTE predicate on the "tool_name" field.
func ToolNameLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldToolName, v))
}

// ToolNameContains applies the Contains predicate on the "tool_name" field.
func ToolNameContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldToolName, v))
}

// ToolNameHasPrefix applies the HasPrefix predicate on the "tool_name" field.
func ToolNameHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldToolName, v))
}

// ToolNameHasSuffix applies the HasSuffix predicate on the "tool_name" field.
func ToolNameHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldToolName, v))
}

// ToolNameIsNil applies the IsNil predicate on the "tool_name" field.
func ToolNameIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldToolName))
}

// ToolNameNotNil applies the NotNil predicate on the "tool_name" field.
func ToolNameNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldToolName))
}

// ToolNameEqualFold applies the EqualFold predicate on the "tool_name" field.
func ToolNameEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldToolName, v))
}

// ToolNameContainsFold applies the ContainsFold predicate on the "tool_name" field.
func ToolNameContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldToolName, v))
}

// ToolCallIDEQ applies the EQ predicate on the "tool_call_id" field.
func ToolCallIDEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolCallID, v))
}

// ToolCallIDNEQ applies the NEQ predicate on the "tool_call_id" field.
func ToolCallIDNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldToolCallID, v))
}

// ToolCallIDIn applies the In predicate on the "tool_call_id" field.
func ToolCallIDIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldToolCallID, vs...))
}

// ToolCallIDNotIn applies the NotIn predicate on the "tool_call_id" field.
func ToolCallIDNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldToolCallID, vs...))
}

// ToolCallIDGT applies the GT predicate on the "tool_call_id" field.
func ToolCallIDGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldToolCallID, v))
}

// ToolCallIDGTE applies the GTE predicate on the "tool_call_id" field.
func ToolCallIDGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldToolCallID, v))
}

// ToolCallIDLT applies the LT predicate on the "tool_call_id" field.
func ToolCallIDLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldToolCallID, v))
}

// ToolCallIDLTE applies the LTE predicate on the "tool_call_id" field.
func ToolCallIDLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldToolCallID, v))
}

// ToolCallIDContains applies the Contains predicate on the "tool_call_id" field.
func ToolCallIDContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldToolCallID, v))
}

// ToolCallIDHasPrefix applies the HasPrefix predicate on the "tool_call_id" field.
func ToolCallIDHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldToolCallID, v))
}

// ToolCallIDHasSuffix applies the HasSuffix predicate on the "tool_call_id" field.
func ToolCallIDHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldToolCallID, v))
}

// ToolCallIDIsNil applies the IsNil predicate on the "tool_call_id" field.
func ToolCallIDIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldToolCallID))
}

// ToolCallIDNotNil applies the NotNil predicate on the "tool_call_id" field.
func ToolCallIDNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldToolCallID))
}

// ToolCallIDEqualFold applies the EqualFold predicate on the "tool_call_id" field.
func ToolCallIDEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldToolCallID, v))
}

// ToolCallIDContainsFold applies the ContainsFold predicate on the "tool_call_id" field.
func ToolCallIDContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldToolCallID, v))
}

// ToolCallsIsNil applies the IsNil predicate on the "tool_calls" field.
func ToolCallsIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldToolCalls))
}

// ToolCallsNotNil applies the NotNil predicate on the "tool_calls" field.
func ToolCallsNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldToolCalls))
}

// ToolInputEQ applies the EQ predicate on the "tool_input" field.
func ToolInputEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolInput, v))
}

// ToolInputNEQ applies the NEQ predicate on the "tool_input" field.
func ToolInputNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldToolInput, v))
}

// ToolInputIn applies the In predicate on the "tool_input" field.
func ToolInputIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldToolInput, vs...))
}

// ToolInputNotIn applies the NotIn predicate on the "tool_input" field.
func ToolInputNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldToolInput, vs...))
}

// ToolInputGT applies the GT predicate on the "tool_input" field.
func ToolInputGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldToolInput, v))
}

// ToolInputGTE applies the GTE predicate on the "tool_input" field.
func ToolInputGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldToolInput, v))
}

// ToolInputLT applies the LT predicate on the "tool_input" field.
func ToolInputLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldToolInput, v))
}

// ToolInputLTE applies the LTE predicate on the "tool_input" field.
func ToolInputLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldToolInput, v))
}

// ToolInputContains applies the Contains predicate on the "tool_input" field.
func ToolInputContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldToolInput, v))
}

// ToolInputHasPrefix applies the HasPrefix predicate on the "tool_input" field.
func ToolInputHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldToolInput, v))
}

// ToolInputHasSuffix applies the HasSuffix predicate on the "tool_input" field.
func ToolInputHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldToolInput, v))
}

// ToolInputIsNil applies the IsNil predicate on the "tool_input" field.
func ToolInputIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldToolInput))
}

// ToolInputNotNil applies the NotNil predicate on the "tool_input" field.
func ToolInputNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldToolInput))
}

// ToolInputEqualFold applies the EqualFold predicate on the "tool_input" field.
func ToolInputEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldToolInput, v))
}

// ToolInputContainsFold applies the ContainsFold predicate on the "tool_input" field.
func ToolInputContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldToolInput, v))
}

// ToolOutputEQ applies the EQ predicate on the "tool_output" field.
func ToolOutputEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldToolOutput, v))
}

// ToolOutputNEQ applies the NEQ predicate on the "tool_output" field.
func ToolOutputNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldToolOutput, v))
}

// ToolOutputIn applies the In predicate on the "tool_output" field.
func ToolOutputIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldToolOutput, vs...))
}

// ToolOutputNotIn applies the NotIn predicate on the "tool_output" field.
func ToolOutputNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldToolOutput, vs...))
}

// ToolOutputGT applies the GT predicate on the "tool_output" field.
func ToolOutputGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldToolOutput, v))
}

// ToolOutputGTE applies the GTE predicate on the "tool_output" field.
func ToolOutputGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldToolOutput, v))
}

// ToolOutputLT applies the LT predicate on the "tool_output" field.
func ToolOutputLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldToolOutput, v))
}

// ToolOutputLTE applies the LTE predicate on the "tool_output" field.
func ToolOutputLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldToolOutput, v))
}

// ToolOutputContains applies the Contains predicate on the "tool_output" field.
func ToolOutputContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldToolOutput, v))
}

// ToolOutputHasPrefix applies the HasPrefix predicate on the "tool_output" field.
func ToolOutputHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldToolOutput, v))
}

// ToolOutputHasSuffix applies the HasSuffix predicate on the "tool_output" field.
func ToolOutputHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldToolOutput, v))
}

// ToolOutputIsNil applies the IsNil predicate on the "tool_output" field.
func ToolOutputIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldToolOutput))
}

// ToolOutputNotNil applies the NotNil predicate on the "tool_output" field.
func ToolOutputNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldToolOutput))
}

// ToolOutputEqualFold applies the EqualFold predicate on the "tool_output" field.
func ToolOutputEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldToolOutput, v))
}

// ToolOutputContainsFold applies the ContainsFold predicate on the "tool_output" field.
func ToolOutputContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldToolOutput, v))
}

// ProgressTitleEQ applies the EQ predicate on the "progress_title" field.
func ProgressTitleEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldProgressTitle, v))
}

// ProgressTitleNEQ applies the NEQ predicate on the "progress_title" field.
func ProgressTitleNEQ(v string) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldProgressTitle, v))
}

// ProgressTitleIn applies the In predicate on the "progress_title" field.
func ProgressTitleIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldProgressTitle, vs...))
}

// ProgressTitleNotIn applies the NotIn predicate on the "progress_title" field.
func ProgressTitleNotIn(vs ...string) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldProgressTitle, vs...))
}

// ProgressTitleGT applies the GT predicate on the "progress_title" field.
func ProgressTitleGT(v string) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldProgressTitle, v))
}

// ProgressTitleGTE applies the GTE predicate on the "progress_title" field.
func ProgressTitleGTE(v string) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldProgressTitle, v))
}

// ProgressTitleLT applies the LT predicate on the "progress_title" field.
func ProgressTitleLT(v string) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldProgressTitle, v))
}

// ProgressTitleLTE applies the LTE predicate on the "progress_title" field.
func ProgressTitleLTE(v string) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldProgressTitle, v))
}

// ProgressTitleContains applies the Contains predicate on the "progress_title" field.
func ProgressTitleContains(v string) predicate.Message {
	return predicate.Message(sql.FieldContains(FieldProgressTitle, v))
}

// ProgressTitleHasPrefix applies the HasPrefix predicate on the "progress_title" field.
func ProgressTitleHasPrefix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasPrefix(FieldProgressTitle, v))
}

// ProgressTitleHasSuffix applies the HasSuffix predicate on the "progress_title" field.
func ProgressTitleHasSuffix(v string) predicate.Message {
	return predicate.Message(sql.FieldHasSuffix(FieldProgressTitle, v))
}

// ProgressTitleIsNil applies the IsNil predicate on the "progress_title" field.
func ProgressTitleIsNil() predicate.Message {
	return predicate.Message(sql.FieldIsNull(FieldProgressTitle))
}

// ProgressTitleNotNil applies the NotNil predicate on the "progress_title" field.
func ProgressTitleNotNil() predicate.Message {
	return predicate.Message(sql.FieldNotNull(FieldProgressTitle))
}

// ProgressTitleEqualFold applies the EqualFold predicate on the "progress_title" field.
func ProgressTitleEqualFold(v string) predicate.Message {
	return predicate.Message(sql.FieldEqualFold(FieldProgressTitle, v))
}

// ProgressTitleContainsFold applies the ContainsFold predicate on the "progress_title" field.
func ProgressTitleContainsFold(v string) predicate.Message {
	return predicate.Message(sql.FieldContainsFold(FieldProgressTitle, v))
}

// CreatedAtEQ applies the EQ predicate on the "created_at" field.
func CreatedAtEQ(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldEQ(FieldCreatedAt, v))
}

// CreatedAtNEQ applies the NEQ predicate on the "created_at" field.
func CreatedAtNEQ(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldNEQ(FieldCreatedAt, v))
}

// CreatedAtIn applies the In predicate on the "created_at" field.
func CreatedAtIn(vs ...time.Time) predicate.Message {
	return predicate.Message(sql.FieldIn(FieldCreatedAt, vs...))
}

// CreatedAtNotIn applies the NotIn predicate on the "created_at" field.
func CreatedAtNotIn(vs ...time.Time) predicate.Message {
	return predicate.Message(sql.FieldNotIn(FieldCreatedAt, vs...))
}

// CreatedAtGT applies the GT predicate on the "created_at" field.
func CreatedAtGT(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldGT(FieldCreatedAt, v))
}

// CreatedAtGTE applies the GTE predicate on the "created_at" field.
func CreatedAtGTE(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldGTE(FieldCreatedAt, v))
}

// CreatedAtLT applies the LT predicate on the "created_at" field.
func CreatedAtLT(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldLT(FieldCreatedAt, v))
}

// CreatedAtLTE applies the LTE predicate on the "created_at" field.
func CreatedAtLTE(v time.Time) predicate.Message {
	return predicate.Message(sql.FieldLTE(FieldCreatedAt, v))
}

// HasSession applies the HasEdge predicate on the "session" edge.
func HasSession() predicate.Message {
	return predicate.Message(func(s *sql.Selector) {
		step := sqlgraph.NewStep(
			sqlgraph.From(Table, FieldID),
			sqlgraph.Edge(sqlgraph.M2O, true, SessionTable, SessionColumn),
		)
		sqlgraph.HasNeighbors(s, step)
	})
}

// HasSessionWith applies the HasEdge predicate on the "session" edge with a given conditions (other predicates).
func HasSessionWith(preds ...predicate.Session) predicate.Message {
	return predicate.Message(func(s *sql.Selector) {
		step := newSessionStep()
		sqlgraph.HasNeighborsWith(s, step, func(s *sql.Selector) {
			for _, p := range preds {
				p(s)
			}
		})
	})
}

// And groups predicates with the AND operator between them.
func And(predicates ...predicate.Message) predicate.Message {
	return predicate.Message(sql.AndPredicates(predicates...))
}

// Or groups predicates with the OR operator between them.
func Or(predicates ...predicate.Message) predicate.Message {
	return predicate.Message(sql.OrPredicates(predicates...))
}

// Not applies the not operator on the given predicate.
func Not(p predicate.Message) predicate.Message {
	return predicate.Message(sql.NotPredicates(p))
}
