package validate

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Location Location `json:"location"`
	Name     string   `json:"name"`
	Reason   string   `json:"reason"`
}

// Error reports every field that failed validation.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) add(loc Location, name, reason string) {
	e.Fields = append(e.Fields, FieldError{Location: loc, Name: name, Reason: reason})
}

func (e *Error) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Name == "" {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Location, f.Reason))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s.%s: %s", f.Location, f.Name, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MalformedBody reports a request body that is not a JSON object.
func MalformedBody(reason string) *Error {
	e := &Error{}
	e.add(Body, "", reason)
	return e
}
