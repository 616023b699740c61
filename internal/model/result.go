package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIndexOutOfBounds is the only failure a list mutation can report.
var ErrIndexOutOfBounds = errors.New("index out of bounds")

// Result is the tagged outcome of a mutating call as it travels on the wire.
type Result int

const (
	ResultOK Result = iota
	ResultIndexOutOfBounds
)

// ResultOf maps a mutation error to its tag. Errors other than
// ErrIndexOutOfBounds have no tag and are reported back to the caller.
func ResultOf(err error) (Result, error) {
	switch {
	case err == nil:
		return ResultOK, nil
	case errors.Is(err, ErrIndexOutOfBounds):
		return ResultIndexOutOfBounds, nil
	}
	return ResultOK, err
}

// Err is the inverse of ResultOf.
func (r Result) Err() error {
	if r == ResultIndexOutOfBounds {
		return ErrIndexOutOfBounds
	}
	return nil
}

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "Ok"
	case ResultIndexOutOfBounds:
		return "IndexOutOfBounds"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r != ResultOK && r != ResultIndexOutOfBounds {
		return nil, fmt.Errorf("marshal result: %v", r)
	}
	return []byte(`{"` + r.String() + `":null}`), nil
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var variant map[string]json.RawMessage
	if err := json.Unmarshal(b, &variant); err != nil {
		return fmt.Errorf("result: %w", err)
	}
	if len(variant) != 1 {
		return fmt.Errorf("result: want exactly one variant, got %d", len(variant))
	}
	for name := range variant {
		switch name {
		case "Ok":
			*r = ResultOK
		case "IndexOutOfBounds":
			*r = ResultIndexOutOfBounds
		default:
			return fmt.Errorf("result: unknown variant %q", name)
		}
	}
	return nil
}
