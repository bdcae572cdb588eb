// Code generated by ent, DO NOT EDIT.

package modelrecord

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// ID filters vertices based on their ID field.
func ID(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldID, id))
}

// IDEQ applies the EQ predicate on the ID field.
func IDEQ(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldID, id))
}

// IDNEQ applies the NEQ predicate on the ID field.
func IDNEQ(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNEQ(FieldID, id))
}

// IDIn applies the In predicate on the ID field.
func IDIn(ids ...string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIn(FieldID, ids...))
}

// IDNotIn applies the NotIn predicate on the ID field.
func IDNotIn(ids ...string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotIn(FieldID, ids...))
}

// IDGT applies the GT predicate on the ID field.
func IDGT(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGT(FieldID, id))
}

// IDGTE applies the GTE predicate on the ID field.
func IDGTE(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGTE(FieldID, id))
}

// IDLT applies the LT predicate on the ID field.
func IDLT(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLT(FieldID, id))
}

// IDLTE applies the LTE predicate on the ID field.
func IDLTE(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLTE(FieldID, id))
}

// IDEqualFold applies the EqualFold predicate on the ID field.
func IDEqualFold(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEqualFold(FieldID, id))
}

// IDContainsFold applies the ContainsFold predicate on the ID field.
func IDContainsFold(id string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldContainsFold(FieldID, id))
}

// Name applies equality check predicate on the "name" field. It's identical to NameEQ.
func Name(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldName, v))
}

// ContextLength applies equality check predicate on the "context_length" field. It's identical to ContextLengthEQ.
func ContextLength(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldContextLength, v))
}

// Parameters applies equality check predicate on the "parameters" field. It's identical to ParametersEQ.
func Parameters(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldParameters, v))
}

// UpdatedAt applies equality check predicate on the "updated_at" field. It's identical to UpdatedAtEQ.
func UpdatedAt(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldUpdatedAt, v))
}

// NameEQ applies the EQ predicate on the "name" field.
func NameEQ(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldName, v))
}

// NameNEQ applies the NEQ predicate on the "name" field.
func NameNEQ(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNEQ(FieldName, v))
}

// NameIn applies the In predicate on the "name" field.
func NameIn(vs ...string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIn(FieldName, vs...))
}

// NameNotIn applies the NotIn predicate on the "name" field.
func NameNotIn(vs ...string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotIn(FieldName, vs...))
}

// NameGT applies the GT predicate on the "name" field.
func NameGT(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGT(FieldName, v))
}

// NameGTE applies the GTE predicate on the "name" field.
func NameGTE(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGTE(FieldName, v))
}

// NameLT applies the LT predicate on the "name" field.
func NameLT(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLT(FieldName, v))
}

// NameLTE applies the LTE predicate on the "name" field.
func NameLTE(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLTE(FieldName, v))
}

// NameContains applies the Contains predicate on the "name" field.
func NameContains(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldContains(FieldName, v))
}

// NameHasPrefix applies the HasPrefix predicate on the "name" field.
func NameHasPrefix(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldHasPrefix(FieldName, v))
}

// NameHasSuffix applies the HasSuffix predicate on the "name" field.
func NameHasSuffix(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldHasSuffix(FieldName, v))
}

// NameEqualFold applies the EqualFold predicate on the "name" field.
func NameEqualFold(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEqualFold(FieldName, v))
}

// NameContainsFold applies the ContainsFold predicate on the "name" field.
func NameContainsFold(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldContainsFold(FieldName, v))
}

// ContextLengthEQ applies the EQ predicate on the "context_length" field.
func ContextLengthEQ(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldContextLength, v))
}

// ContextLengthNEQ applies the NEQ predicate on the "context_length" field.
func ContextLengthNEQ(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNEQ(FieldContextLength, v))
}

// ContextLengthIn applies the In predicate on the "context_length" field.
func ContextLengthIn(vs ...int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIn(FieldContextLength, vs...))
}

// ContextLengthNotIn applies the NotIn predicate on the "context_length" field.
func ContextLengthNotIn(vs ...int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotIn(FieldContextLength, vs...))
}

// ContextLengthGT applies the GT predicate on the "context_length" field.
func ContextLengthGT(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGT(FieldContextLength, v))
}

// ContextLengthGTE applies the GTE predicate on the "context_length" field.
func ContextLengthGTE(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGTE(FieldContextLength, v))
}

// ContextLengthLT applies the LT predicate on the "context_length" field.
func ContextLengthLT(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLT(FieldContextLength, v))
}

// ContextLengthLTE applies the LTE predicate on the "context_length" field.
func ContextLengthLTE(v int) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLTE(FieldContextLength, v))
}

// ContextLengthIsNil applies the IsNil predicate on the "context_length" field.
func ContextLengthIsNil() predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIsNull(FieldContextLength))
}

// ContextLengthNotNil applies the NotNil predicate on the "context_length" field.
func ContextLengthNotNil() predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotNull(FieldContextLength))
}

// CapabilitiesIsNil applies the IsNil predicate on the "capabilities" field.
func CapabilitiesIsNil() predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIsNull(FieldCapabilities))
}

// CapabilitiesNotNil applies the NotNil predicate on the "capabilities" field.
func CapabilitiesNotNil() predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotNull(FieldCapabilities))
}

// ParametersEQ applies the EQ predicate on the "parameters" field.
func ParametersEQ(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldParameters, v))
}

// ParametersNEQ applies the NEQ predicate on the "parameters" field.
func ParametersNEQ(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNEQ(FieldParameters, v))
}

// ParametersIn applies the In predicate on the "parameters" field.
func ParametersIn(vs ...string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIn(FieldParameters, vs...))
}

// ParametersNotIn applies the NotIn predicate on the "parameters" field.
func ParametersNotIn(vs ...string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotIn(FieldParameters, vs...))
}

// ParametersGT applies the GT predicate on the "parameters" field.
func ParametersGT(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGT(FieldParameters, v))
}

// ParametersGTE applies the GTE predicate on the "parameters" field.
func ParametersGTE(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGTE(FieldParameters, v))
}

// ParametersLT applies the LT predicate on the "parameters" field.
func ParametersLT(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLT(FieldParameters, v))
}

// ParametersLTE applies the LTE predicate on the "parameters" field.
func ParametersLTE(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLTE(FieldParameters, v))
}

// ParametersContains applies the Contains predicate on the "parameters" field.
func ParametersContains(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldContains(FieldParameters, v))
}

// ParametersHasPrefix applies the HasPrefix predicate on the "parameters" field.
func ParametersHasPrefix(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldHasPrefix(FieldParameters, v))
}

// ParametersHasSuffix applies the HasSuffix predicate on the "parameters" field.
func ParametersHasSuffix(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldHasSuffix(FieldParameters, v))
}

// ParametersIsNil applies the IsNil predicate on the "parameters" field.
func ParametersIsNil() predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIsNull(FieldParameters))
}

// ParametersNotNil applies the NotNil predicate on the "parameters" field.
func ParametersNotNil() predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotNull(FieldParameters))
}

// ParametersEqualFold applies the EqualFold predicate on the "parameters" field.
func ParametersEqualFold(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEqualFold(FieldParameters, v))
}

// ParametersContainsFold applies the ContainsFold predicate on the "parameters" field.
func ParametersContainsFold(v string) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldContainsFold(FieldParameters, v))
}

// UpdatedAtEQ applies the EQ predicate on the "updated_at" field.
func UpdatedAtEQ(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldEQ(FieldUpdatedAt, v))
}

// UpdatedAtNEQ applies the NEQ predicate on the "updated_at" field.
func UpdatedAtNEQ(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNEQ(FieldUpdatedAt, v))
}

// UpdatedAtIn applies the In predicate on the "updated_at" field.
func UpdatedAtIn(vs ...time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldIn(FieldUpdatedAt, vs...))
}

// UpdatedAtNotIn applies the NotIn predicate on the "updated_at" field.
func UpdatedAtNotIn(vs ...time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldNotIn(FieldUpdatedAt, vs...))
}

// UpdatedAtGT applies the GT predicate on the "updated_at" field.
func UpdatedAtGT(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGT(FieldUpdatedAt, v))
}

// UpdatedAtGTE applies the GTE predicate on the "updated_at" field.
func UpdatedAtGTE(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldGTE(FieldUpdatedAt, v))
}

// UpdatedAtLT applies the LT predicate on the "updated_at" field.
func UpdatedAtLT(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLT(FieldUpdatedAt, v))
}

// UpdatedAtLTE applies the LTE predicate on the "updated_at" field.
func UpdatedAtLTE(v time.Time) predicate.ModelRecord {
	return predicate.ModelRecord(sql.FieldLTE(FieldUpdatedAt, v))
}

// And groups predicates with the AND operator between them.
func And(predicates ...predicate.ModelRecord) predicate.ModelRecord {
	return predicate.ModelRecord(sql.AndPredicates(predicates...))
}

// Or groups predicates with the OR operator between them.
func Or(predicates ...predicate.ModelRecord) predicate.ModelRecord {
	return predicate.ModelRecord(sql.OrPredicates(predicates...))
}

// Not applies the not operator on the given predicate.
func Not(p predicate.ModelRecord) predicate.ModelRecord {
	return predicate.ModelRecord(sql.NotPredicates(p))
}
