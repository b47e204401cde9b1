package pbxproj

import (
	"fmt"
	"strconv"
)

// Object is a single entry in the descriptor's object table.
type Object struct {
	// ISA is the object's class name (PBXNativeTarget, PBXFileReference, ...).
	ISA string
	// Fields holds the object's remaining attributes as decoded from the plist.
	Fields map[string]any
}

func newObject(isa string) *Object {
	return &Object{ISA: isa, Fields: map[string]any{}}
}

// Str returns the named field coerced to a string, or "" when the field is
// absent. OpenStep descriptors do not mark scalars with a type, and the
// decoder may surface unquoted numeric tokens as integers; coercing here
// keeps callers independent of that choice.
func (o *Object) Str(key string) string {
	return stringValue(o.Fields[key])
}

// Strings returns the named field as a slice of coerced strings, or nil when
// the field is absent or not a list.
func (o *Object) Strings(key string) []string {
	list, ok := o.Fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, stringValue(v))
	}
	return out
}

// Dict returns the named field as a nested dictionary, or nil when the field
// is absent or not a dictionary.
func (o *Object) Dict(key string) map[string]any {
	dict, _ := o.Fields[key].(map[string]any)
	return dict
}

// AppendID appends an identifier to the named list field, creating the list
// when absent.
func (o *Object) AppendID(key, id string) {
	list, _ := o.Fields[key].([]any)
	o.Fields[key] = append(list, id)
}

// ContainsID reports whether the named list field contains the identifier.
func (o *Object) ContainsID(key, id string) bool {
	for _, v := range o.Strings(key) {
		if v == id {
			return true
		}
	}
	return false
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case uint64:
		return strconv.FormatUint(t, 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(t)
	}
}
