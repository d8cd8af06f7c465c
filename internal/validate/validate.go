// Package validate checks and coerces request parameters against
// declarative per-route schemas.
package validate

import (
	"net/url"
	"strings"
)

type Location string

const (
	Path  Location = "path"
	Query Location = "query"
	Body  Location = "body"
)

// locations is the merge order of validated values; later locations win.
var locations = []Location{Body, Query, Path}

// Field is a named parameter and the ordered steps applied to it.
type Field struct {
	Name  string
	Steps []Step
}

func F(name string, steps ...Step) Field {
	return Field{Name: name, Steps: steps}
}

// Schema maps a parameter location to the fields expected there.
type Schema map[Location][]Field

// Input is the raw request: path and query values are strings, the body is
// a decoded JSON object (numbers kept as json.Number).
type Input struct {
	Path  map[string]string
	Query url.Values
	Body  map[string]interface{}
}

// Params holds coerced values keyed by field name.
type Params map[string]interface{}

func (p Params) String(name string) string {
	v, _ := p[name].(string)
	return v
}

func (p Params) Int(name string) (int64, bool) {
	v, ok := p[name].(int64)
	return v, ok
}

func (p Params) Bool(name string) (bool, bool) {
	v, ok := p[name].(bool)
	return v, ok
}

func (s Schema) HasBody() bool {
	return len(s[Body]) > 0
}

// Validate runs every field of the schema and returns the coerced params,
// or an *Error listing every failing field.
func (s Schema) Validate(in Input) (Params, error) {
	params := make(Params)
	verr := &Error{}
	for _, loc := range locations {
		for _, field := range s[loc] {
			raw, present := lookup(in, loc, field.Name)
			value, keep, err := field.apply(raw, present)
			if err != nil {
				verr.add(loc, field.Name, err.Error())
				continue
			}
			if keep {
				params[field.Name] = value
			}
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}
	return params, nil
}

func (f Field) apply(raw interface{}, present bool) (interface{}, bool, error) {
	if !present {
		for _, step := range f.Steps {
			if step.required {
				return nil, false, errRequired
			}
		}
		return nil, false, nil
	}
	value := raw
	for _, step := range f.Steps {
		if step.fn == nil {
			continue
		}
		next, err := step.fn(value)
		if err != nil {
			return nil, false, err
		}
		value = next
	}
	return value, true, nil
}

func lookup(in Input, loc Location, name string) (interface{}, bool) {
	switch loc {
	case Path:
		v, ok := in.Path[name]
		if !ok || strings.TrimSpace(v) == "" {
			return nil, false
		}
		return v, true
	case Query:
		if _, ok := in.Query[name]; !ok {
			return nil, false
		}
		v := in.Query.Get(name)
		if strings.TrimSpace(v) == "" {
			return nil, false
		}
		return v, true
	case Body:
		v, ok := in.Body[name]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}
