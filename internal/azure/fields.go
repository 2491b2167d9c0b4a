package azure

import (
	"encoding/json"

	"gomodules.xyz/jsonpatch/v2"
)

// Work item field reference names.
const (
	FieldTitle         = "System.Title"
	FieldDescription   = "System.Description"
	FieldAreaPath      = "System.AreaPath"
	FieldIterationPath = "System.IterationPath"
	FieldTags          = "System.Tags"
)

// Field is a single work item field value.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered set of work item fields.
type Fields []Field

// Get returns the value of the named field and whether it is present.
func (f Fields) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Patch converts the fields into "add" operations of a JSON Patch document.
func (f Fields) Patch() []jsonpatch.Operation {
	ops := make([]jsonpatch.Operation, 0, len(f))
	for _, field := range f {
		ops = append(ops, jsonpatch.NewOperation("add", "/fields/"+field.Name, field.Value))
	}
	return ops
}

// MarshalPatch returns the JSON Patch document for the fields.
func (f Fields) MarshalPatch() ([]byte, error) {
	return json.Marshal(f.Patch())
}
