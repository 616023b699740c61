package liststore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/todolist/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Two concurrent mutations must end in one of the two sequential orders.
func TestConcurrentInsertAndRemove(t *testing.T) {
	for round := 0; round < 200; round++ {
		s := seeded(t, "a", "b", "c")

		var g errgroup.Group
		g.Go(func() error { return s.InsertAt(0, todo("x")) })
		g.Go(func() error { return s.RemoveAt(2) })
		require.NoError(t, g.Wait())

		got := titles(s.ListAll())
		insertFirst := []string{"x", "a", "c"}
		removeFirst := []string{"x", "a", "b"}
		if !assert.Contains(t, [][]string{insertFirst, removeFirst}, got, "round %d", round) {
			return
		}
	}
}

func TestConcurrentAppendsKeepEveryElement(t *testing.T) {
	const writers, perWriter = 8, 50
	s := New()

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				// the list only grows here, so a stale Len is still in range
				if err := s.InsertAt(s.Len(), model.Element{Title: fmt.Sprintf("w%d-%d", w, i)}); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				_ = s.ListAll()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	got := s.ListAll()
	require.Len(t, got, writers*perWriter)
	seen := make(map[string]bool, len(got))
	for _, e := range got {
		assert.False(t, seen[e.Title], "duplicate %s", e.Title)
		seen[e.Title] = true
	}
}
