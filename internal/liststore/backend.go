package liststore

import (
	"context"

	"github.com/idilsaglam/todolist/internal/model"
)

// Backend is what front ends (CLI, TUI) drive: either a Store in this
// process or a remote one behind rpc.Client.
type Backend interface {
	InsertAt(ctx context.Context, index int, e model.Element) error
	RemoveAt(ctx context.Context, index int) error
	UpdateAt(ctx context.Context, index int, e model.Element) error
	ListAll(ctx context.Context) ([]model.Element, error)
}

// Local adapts s to Backend. Store calls never block, so ctx is only
// checked before the call.
func Local(s *Store) Backend { return local{s} }

type local struct{ s *Store }

func (l local) InsertAt(ctx context.Context, index int, e model.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.s.InsertAt(index, e)
}

func (l local) RemoveAt(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.s.RemoveAt(index)
}

func (l local) UpdateAt(ctx context.Context, index int, e model.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.s.UpdateAt(index, e)
}

func (l local) ListAll(ctx context.Context) ([]model.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.s.ListAll(), nil
}
