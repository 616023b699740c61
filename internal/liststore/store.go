// Package liststore holds the ordered element list and applies
// bounds-checked mutations to it under a single mutex.
package liststore

import (
	"fmt"
	"sync"

	"github.com/idilsaglam/todolist/internal/model"
)

// Op names a mutating operation for error reporting.
type Op string

const (
	OpInsert Op = "insert"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
)

// IndexError reports an index outside the operation's valid range.
// It unwraps to model.ErrIndexOutOfBounds.
type IndexError struct {
	Op    Op
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s at %d: %v (len %d)", e.Op, e.Index, model.ErrIndexOutOfBounds, e.Len)
}

func (e *IndexError) Unwrap() error { return model.ErrIndexOutOfBounds }

// Store is the process-wide ordered list. The zero value is an empty,
// ready to use store; it must not be copied after first use.
type Store struct {
	mu    sync.Mutex
	items []model.Element
}

// New returns an empty store.
func New() *Store {
	return &Store{items: make([]model.Element, 0, 16)}
}

// InsertAt places e at index, shifting later elements back.
// index == Len() appends.
func (s *Store) InsertAt(index int, e model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index > len(s.items) {
		return &IndexError{Op: OpInsert, Index: index, Len: len(s.items)}
	}
	s.items = append(s.items, model.Element{})
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = e
	return nil
}

// RemoveAt deletes the element at index, shifting later elements forward.
func (s *Store) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return &IndexError{Op: OpRemove, Index: index, Len: len(s.items)}
	}
	copy(s.items[index:], s.items[index+1:])
	s.items[len(s.items)-1] = model.Element{}
	s.items = s.items[:len(s.items)-1]
	return nil
}

// UpdateAt replaces the element at index.
func (s *Store) UpdateAt(index int, e model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return &IndexError{Op: OpUpdate, Index: index, Len: len(s.items)}
	}
	s.items[index] = e
	return nil
}

// ListAll returns a copy of every element in storage order.
func (s *Store) ListAll() []model.Element {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Element, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the current number of elements.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
