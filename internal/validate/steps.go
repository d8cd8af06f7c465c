package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	errRequired   = errors.New("required")
	errNotUUID    = errors.New("must be a uuid")
	errNotInteger = errors.New("must be an integer")
	errNotBoolean = errors.New("must be a boolean")
	errNotString  = errors.New("must be a string")
)

// Step is one validation or coercion applied to a present value.
type Step struct {
	name     string
	required bool
	fn       func(interface{}) (interface{}, error)
}

func (s Step) String() string {
	return s.name
}

var (
	// Required fails when the field is absent. Absent optional fields are
	// skipped.
	Required = Step{name: "required", required: true}
	UUID     = Step{name: "uuid", fn: toUUID}
	Int      = Step{name: "int", fn: toInt}
	Bool     = Step{name: "bool", fn: toBool}
	String   = Step{name: "string", fn: toString}
	// Present accepts any JSON value.
	Present = Step{name: "present", fn: func(v interface{}) (interface{}, error) { return v, nil }}
)

// Min requires an integer value of at least n. It must follow Int.
func Min(n int64) Step {
	return Step{name: fmt.Sprintf("min(%d)", n), fn: func(v interface{}) (interface{}, error) {
		i, ok := v.(int64)
		if !ok {
			return nil, errNotInteger
		}
		if i < n {
			return nil, fmt.Errorf("must be >= %d", n)
		}
		return i, nil
	}}
}

func toUUID(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errNotUUID
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, errNotUUID
	}
	return id.String(), nil
}

func toInt(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil, errNotInteger
		}
		return i, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		// 1.0 and 1e0 are integral too.
		f, err := t.Float64()
		if err != nil {
			return nil, errNotInteger
		}
		return floatToInt(f)
	case float64:
		return floatToInt(t)
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	}
	return nil, errNotInteger
}

func floatToInt(f float64) (interface{}, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, errNotInteger
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, errNotInteger
	}
	return int64(f), nil
}

func toBool(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return nil, errNotBoolean
		}
		return b, nil
	}
	return nil, errNotBoolean
}

func toString(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errNotString
	}
	return s, nil
}
