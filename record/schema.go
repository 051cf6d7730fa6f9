package record

import "github.com/quiverdb/quiver/types"

// Schema represents the column layout of a dataset.
// A schema contains the name and type of each column, in declaration
// order. Column names must be unique within a dataset; uniqueness is
// checked when the schema is bound to a dataset.
type Schema struct {
	fields []string
	info   map[string]types.FieldInfo
}

// NewSchema creates a new, empty schema.
func NewSchema() *Schema {
	return &Schema{
		fields: make([]string, 0),
		info:   make(map[string]types.FieldInfo),
	}
}

// AddField adds a column to the schema with the specified name and type.
func (s *Schema) AddField(fieldName string, fieldType types.SchemaType) {
	s.fields = append(s.fields, fieldName)
	s.info[fieldName] = types.FieldInfo{Type: fieldType}
}

// AddIntField adds an integer column to the schema.
func (s *Schema) AddIntField(fieldName string) {
	s.AddField(fieldName, types.Integer)
}

// AddLongField adds a long column to the schema.
func (s *Schema) AddLongField(fieldName string) {
	s.AddField(fieldName, types.Long)
}

// AddDoubleField adds a double column to the schema.
func (s *Schema) AddDoubleField(fieldName string) {
	s.AddField(fieldName, types.Double)
}

// AddStringField adds a string column to the schema.
func (s *Schema) AddStringField(fieldName string) {
	s.AddField(fieldName, types.Varchar)
}

// AddBoolField adds a boolean column to the schema.
func (s *Schema) AddBoolField(fieldName string) {
	s.AddField(fieldName, types.Boolean)
}

// Add adds a column to the schema having the same type as the
// corresponding column in the specified schema.
func (s *Schema) Add(fieldName string, other *Schema) {
	info := other.info[fieldName]
	s.AddField(fieldName, info.Type)
}

// AddAll adds all the columns in the specified schema to the current schema.
func (s *Schema) AddAll(other *Schema) {
	for _, field := range other.fields {
		s.Add(field, other)
	}
}

// Fields returns the names of all the columns in the schema, in order.
func (s *Schema) Fields() []string {
	return s.fields
}

// HasField returns true if the schema contains a column with the specified name.
func (s *Schema) HasField(fieldName string) bool {
	_, ok := s.info[fieldName]
	return ok
}

// Type returns the type of the column with the specified name.
func (s *Schema) Type(fieldName string) types.SchemaType {
	return s.info[fieldName].Type
}

// Index returns the ordinal position of the column with the specified
// name, or -1 if the schema has no such column.
func (s *Schema) Index(fieldName string) int {
	for i, field := range s.fields {
		if field == fieldName {
			return i
		}
	}
	return -1
}

// Arity returns the number of columns in the schema.
func (s *Schema) Arity() int {
	return len(s.fields)
}

// HasDuplicates reports whether any column name was added more than once.
func (s *Schema) HasDuplicates() bool {
	return len(s.fields) != len(s.info)
}
