package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatusJSONAcceptsBothForms(t *testing.T) {
	cases := map[string]Status{
		`{"Todo":null}`: Todo,
		`{"Done":null}`: Done,
		`"Done"`:        Done,
		`"todo"`:        Todo,
	}
	for in, want := range cases {
		var got Status
		require.NoError(t, json.Unmarshal([]byte(in), &got), in)
		assert.Equal(t, want, got, in)
	}
}

func TestStatusJSONRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"Later"`, `{}`, `{"Todo":null,"Done":null}`, `{"Maybe":null}`, `3`} {
		var s Status
		assert.Error(t, json.Unmarshal([]byte(in), &s), in)
	}
}

func TestElementEncodesVariantStatus(t *testing.T) {
	b, err := json.Marshal(Element{Title: "Buy milk", Status: Done})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Buy milk","status":{"Done":null}}`, string(b))
}

func TestElementYAMLUsesStatusName(t *testing.T) {
	b, err := yaml.Marshal([]Element{{Title: "a", Status: Done}})
	require.NoError(t, err)
	assert.Contains(t, string(b), "status: Done")
	assert.NotContains(t, string(b), "null")
}

func TestStatusToggle(t *testing.T) {
	assert.Equal(t, Done, Todo.Toggle())
	assert.Equal(t, Todo, Done.Toggle())
}

func TestResultOf(t *testing.T) {
	r, err := ResultOf(nil)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, r)

	r, err = ResultOf(fmt.Errorf("insert: %w", ErrIndexOutOfBounds))
	require.NoError(t, err)
	assert.Equal(t, ResultIndexOutOfBounds, r)
	assert.ErrorIs(t, r.Err(), ErrIndexOutOfBounds)

	other := fmt.Errorf("boom")
	_, err = ResultOf(other)
	assert.Equal(t, other, err)
}

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(ResultIndexOutOfBounds)
	require.NoError(t, err)
	assert.Equal(t, `{"IndexOutOfBounds":null}`, string(b))

	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"Ok":null}`), &r))
	assert.Equal(t, ResultOK, r)
	assert.Error(t, json.Unmarshal([]byte(`{"Nope":null}`), &r))
}
