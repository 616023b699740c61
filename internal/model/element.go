package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the state of a list element.
type Status int

const (
	Todo Status = iota
	Done
)

func (s Status) String() string {
	switch s {
	case Todo:
		return "Todo"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Toggle flips Todo to Done and back.
func (s Status) Toggle() Status {
	if s == Done {
		return Todo
	}
	return Done
}

// ParseStatus accepts "Todo" or "Done" in any case.
func ParseStatus(v string) (Status, error) {
	switch {
	case strings.EqualFold(v, "todo"):
		return Todo, nil
	case strings.EqualFold(v, "done"):
		return Done, nil
	}
	return Todo, fmt.Errorf("unknown status %q", v)
}

// MarshalJSON encodes the status as a variant object: {"Done":null}.
func (s Status) MarshalJSON() ([]byte, error) {
	if s != Todo && s != Done {
		return nil, fmt.Errorf("marshal status: %v", s)
	}
	return []byte(`{"` + s.String() + `":null}`), nil
}

// UnmarshalJSON takes either the variant object or a bare string.
func (s *Status) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		v, err := ParseStatus(name)
		if err != nil {
			return err
		}
		*s = v
		return nil
	}
	var variant map[string]json.RawMessage
	if err := json.Unmarshal(b, &variant); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if len(variant) != 1 {
		return fmt.Errorf("status: want exactly one variant, got %d", len(variant))
	}
	for name := range variant {
		v, err := ParseStatus(name)
		if err != nil {
			return err
		}
		*s = v
	}
	return nil
}

func (s Status) MarshalYAML() (any, error) { return s.String(), nil }

// Element is one entry of the ordered list.
type Element struct {
	Title  string `json:"title" yaml:"title"`
	Status Status `json:"status" yaml:"status"`
}

// IsDone is a shorthand used by renderers.
func (e Element) IsDone() bool { return e.Status == Done }
