package repository

import (
	"fmt"
	"time"
)

// FieldKind tells the filter builder how to interpret a criteria value.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindBool   FieldKind = "bool"
	KindID     FieldKind = "id"
	KindDate   FieldKind = "date"
)

// Field describes one filterable field of an entity. Only fields listed in a
// repository's descriptor table can ever appear in a query; criteria entries
// without a descriptor are ignored.
type Field struct {
	Name string
	Kind FieldKind
	// MatchName overrides the stored field name when it differs from the
	// request-facing one. A Field named "id" always matches against "_id".
	MatchName string
}

// DateRange holds exclusive bounds: Before matches values strictly less than
// it, After strictly greater. Either side may be nil.
type DateRange struct {
	Before *time.Time
	After  *time.Time
}

// Criteria is a sparse, request-scoped mapping of field name to filter value.
// Accepted value types per kind: KindString takes string or []string,
// KindBool takes bool, KindID takes string or []string of hex ids, KindDate
// takes DateRange.
type Criteria map[string]any

// UnsupportedFilterKindError means a descriptor table names a kind the
// builder cannot translate. This is a programming error in the table, not a
// client fault.
type UnsupportedFilterKindError struct {
	Kind FieldKind
}

func (e *UnsupportedFilterKindError) Error() string {
	return fmt.Sprintf("unsupported filter kind %q", e.Kind)
}

// AuditFields are the audit-stamp descriptors shared by every entity.
var AuditFields = []Field{
	{Name: "createdDate", Kind: KindDate},
	{Name: "updatedDate", Kind: KindDate},
	{Name: "createdBy", Kind: KindID},
	{Name: "updatedBy", Kind: KindID},
}
