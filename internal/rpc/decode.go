package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/idilsaglam/todolist/internal/model"
)

var errInvalidParams = errors.New("invalid params")

// wireElement keeps both fields mandatory on the wire.
type wireElement struct {
	Title  *string       `json:"title"`
	Status *model.Status `json:"status"`
}

func (w wireElement) element() (model.Element, error) {
	if w.Title == nil || w.Status == nil {
		return model.Element{}, fmt.Errorf("%w: element needs title and status", errInvalidParams)
	}
	return model.Element{Title: *w.Title, Status: *w.Status}, nil
}

// decodeIndex accepts a non-negative integer. Indexes are naturals on the
// wire, so a negative value is malformed input rather than out of bounds.
func decodeIndex(raw json.RawMessage) (int, error) {
	var n uint64
	if string(bytes.TrimSpace(raw)) == "null" {
		return 0, fmt.Errorf("%w: index is required", errInvalidParams)
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%w: index must be a non-negative integer", errInvalidParams)
	}
	if n > math.MaxInt {
		return 0, fmt.Errorf("%w: index too large", errInvalidParams)
	}
	return int(n), nil
}

func decodeElement(raw json.RawMessage) (model.Element, error) {
	var w wireElement
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Element{}, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return w.element()
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// decodeIndexElementParams takes [index, element] or {"index":..,"element":..}.
func decodeIndexElementParams(raw json.RawMessage) (int, model.Element, error) {
	var idxRaw, elemRaw json.RawMessage
	if isArray(raw) {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) != 2 {
			return 0, model.Element{}, fmt.Errorf("%w: want [index, element]", errInvalidParams)
		}
		idxRaw, elemRaw = arr[0], arr[1]
	} else {
		var named struct {
			Index   json.RawMessage `json:"index"`
			Element json.RawMessage `json:"element"`
		}
		if err := json.Unmarshal(raw, &named); err != nil || named.Index == nil || named.Element == nil {
			return 0, model.Element{}, fmt.Errorf("%w: want {\"index\", \"element\"}", errInvalidParams)
		}
		idxRaw, elemRaw = named.Index, named.Element
	}
	index, err := decodeIndex(idxRaw)
	if err != nil {
		return 0, model.Element{}, err
	}
	elem, err := decodeElement(elemRaw)
	if err != nil {
		return 0, model.Element{}, err
	}
	return index, elem, nil
}

// decodeIndexParams takes [index] or {"index":..}.
func decodeIndexParams(raw json.RawMessage) (int, error) {
	if isArray(raw) {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) != 1 {
			return 0, fmt.Errorf("%w: want [index]", errInvalidParams)
		}
		return decodeIndex(arr[0])
	}
	var named struct {
		Index json.RawMessage `json:"index"`
	}
	if err := json.Unmarshal(raw, &named); err != nil || named.Index == nil {
		return 0, fmt.Errorf("%w: want {\"index\"}", errInvalidParams)
	}
	return decodeIndex(named.Index)
}

// decodeNoParams allows a missing params member, null, [] or {}.
func decodeNoParams(raw json.RawMessage) error {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "[]", "{}":
		return nil
	}
	return fmt.Errorf("%w: method takes no params", errInvalidParams)
}
