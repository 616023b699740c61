package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/liststore"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/rpc"
)

// isolate keeps the user's config and TODO_* variables out of the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TODO_CONFIG", "")
	t.Setenv("TODO_CLIENT_ENDPOINT", "")
}

func run(t *testing.T, b liststore.Backend, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env := Env{
		Stdout:  &stdout,
		Stderr:  &stderr,
		Backend: func(config.Config) liststore.Backend { return b },
	}
	code := Execute(context.Background(), args, env)
	return code, stdout.String(), stderr.String()
}

func local(t *testing.T, titles ...string) (*liststore.Store, liststore.Backend) {
	t.Helper()
	isolate(t)
	s := liststore.New()
	for i, title := range titles {
		require.NoError(t, s.InsertAt(i, model.Element{Title: title}))
	}
	return s, liststore.Local(s)
}

func titles(items []model.Element) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Title
	}
	return out
}

func TestLsEmpty(t *testing.T) {
	_, b := local(t)
	code, out, _ := run(t, b, "ls")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "Total 0")
}

func TestAddAppendsJoinedTitle(t *testing.T) {
	s, b := local(t, "first")
	code, out, _ := run(t, b, "add", "Buy", "milk")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "added")
	assert.Equal(t, []string{"first", "Buy milk"}, titles(s.ListAll()))

	_, out, _ = run(t, b, "ls")
	assert.Contains(t, out, " 2.")
	assert.Contains(t, out, "Buy milk")
}

func TestInsertUsesOneBasedPositions(t *testing.T) {
	s, b := local(t, "A", "B")

	code, _, _ := run(t, b, "insert", "1", "front")
	require.Equal(t, ExitOK, code)
	code, _, _ = run(t, b, "insert", "4", "back")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"front", "A", "B", "back"}, titles(s.ListAll()))
}

func TestIndexOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"insert past end", []string{"insert", "4", "x"}, "have 2, got 4"},
		{"insert zero", []string{"insert", "0", "x"}, "have 2, got 0"},
		{"rm past end", []string{"rm", "3"}, "have 2, got 3"},
		{"done negative", []string{"done", "-1"}, "have 2, got -1"},
		{"edit zero", []string{"edit", "0", "x"}, "have 2, got 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b := local(t, "A", "B")
			code, _, errOut := run(t, b, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, errOut, "index out of range: "+tt.want)
			assert.Contains(t, errOut, "todo ls")
			assert.Equal(t, []string{"A", "B"}, titles(s.ListAll()))
		})
	}
}

func TestDoneTogglesAndEditKeepsStatus(t *testing.T) {
	s, b := local(t, "A", "B")

	code, out, _ := run(t, b, "done", "2")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "toggled")
	assert.True(t, s.ListAll()[1].IsDone())

	code, _, _ = run(t, b, "edit", "2", "B", "prime")
	require.Equal(t, ExitOK, code)
	got := s.ListAll()[1]
	assert.Equal(t, "B prime", got.Title)
	assert.Equal(t, model.Done, got.Status)

	run(t, b, "done", "2")
	assert.False(t, s.ListAll()[1].IsDone())
}

func TestRmShiftsLaterItems(t *testing.T) {
	s, b := local(t, "A", "B", "C")
	code, out, _ := run(t, b, "rm", "2")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "removed")
	assert.Equal(t, []string{"A", "C"}, titles(s.ListAll()))
}

func TestLsOutputFormats(t *testing.T) {
	s, b := local(t, "A", "B")
	require.NoError(t, s.UpdateAt(0, model.Element{Title: "A", Status: model.Done}))

	code, out, _ := run(t, b, "ls", "-o", "json")
	require.Equal(t, ExitOK, code)
	var decoded []model.Element
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, s.ListAll(), decoded)
	assert.Contains(t, out, `"Done": null`)

	code, out, _ = run(t, b, "ls", "--output", "yaml")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "title: A")
	assert.Contains(t, out, "status: Done")
	assert.Contains(t, out, "status: Todo")

	code, _, errOut := run(t, b, "ls", "-o", "xml")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "unknown output format")
}

func TestLsGrouped(t *testing.T) {
	s, b := local(t, "A", "B")
	require.NoError(t, s.UpdateAt(0, model.Element{Title: "A", Status: model.Done}))
	code, out, _ := run(t, b, "ls", "-g")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "Done")
	assert.Less(t, strings.Index(out, "Pending"), strings.Index(out, "Done"))
	assert.Less(t, strings.Index(out, "☐ B"), strings.Index(out, "Done"))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"ls", "--nope"}},
		{"missing title", []string{"add"}},
		{"blank title", []string{"add", "  "}},
		{"not a number", []string{"rm", "abc"}},
		{"extra args", []string{"rm", "1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b := local(t, "A")
			code, _, _ := run(t, b, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Equal(t, 1, s.Len())
		})
	}
}

type brokenBackend struct{ liststore.Backend }

func (brokenBackend) ListAll(context.Context) ([]model.Element, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestBackendFailureIsAnError(t *testing.T) {
	_, b := local(t)
	code, _, errOut := run(t, brokenBackend{b}, "ls")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "load: dial tcp: connection refused")
}

// The list changed between the read and the write.
type shrinking struct{ liststore.Backend }

func (shrinking) RemoveAt(context.Context, int) error {
	return &liststore.IndexError{Op: liststore.OpRemove, Index: 1, Len: 0}
}

func TestConcurrentChangeIsReported(t *testing.T) {
	_, b := local(t, "A", "B")
	code, _, errOut := run(t, shrinking{b}, "rm", "2")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "the list changed")
}

func TestBadConfigFile(t *testing.T) {
	_, b := local(t)
	code, _, errOut := run(t, b, "--config", t.TempDir()+"/missing.yaml", "ls")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "read config")
}

func TestAgainstServer(t *testing.T) {
	isolate(t)
	store := liststore.New()
	ts := httptest.NewServer(rpc.NewServer(store, rpc.Options{}).Handler())
	t.Cleanup(ts.Close)

	exec := func(args ...string) (int, string) {
		var stdout, stderr bytes.Buffer
		args = append([]string{"--endpoint", ts.URL + "/rpc"}, args...)
		code := Execute(context.Background(), args, Env{Stdout: &stdout, Stderr: &stderr})
		return code, stdout.String() + stderr.String()
	}

	for _, title := range []string{"First", "Second", "Third", "Fifth"} {
		code, out := exec("add", title)
		require.Equal(t, ExitOK, code, out)
	}
	code, out := exec("insert", "4", "Fourth")
	require.Equal(t, ExitOK, code, out)
	code, out = exec("done", "1")
	require.Equal(t, ExitOK, code, out)

	items := store.ListAll()
	assert.Equal(t, []string{"First", "Second", "Third", "Fourth", "Fifth"}, titles(items))
	assert.True(t, items[0].IsDone())

	code, out = exec("rm", "9")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out, "have 5, got 9")
}
