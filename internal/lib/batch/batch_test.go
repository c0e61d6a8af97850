package batch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestUnmarshalSingleObject(t *testing.T) {
	var got Items[item]
	err := json.Unmarshal([]byte(`{"name":"alice"}`), &got)
	require.NoError(t, err)

	assert.False(t, got.Many)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "alice", got.Values[0].Name)
}

func TestUnmarshalArray(t *testing.T) {
	var got Items[item]
	err := json.Unmarshal([]byte(`[{"name":"alice"},{"name":"bob"}]`), &got)
	require.NoError(t, err)

	assert.True(t, got.Many)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "alice", got.Values[0].Name)
	assert.Equal(t, "bob", got.Values[1].Name)
}

func TestUnmarshalEmptyArray(t *testing.T) {
	var got Items[item]
	err := json.Unmarshal([]byte(`[]`), &got)
	require.NoError(t, err)

	assert.True(t, got.Many)
	assert.Equal(t, 0, got.Len())
}

func TestUnmarshalRejectsOtherShapes(t *testing.T) {
	for _, body := range []string{`"alice"`, `42`, `true`, `null`, ``, `   `} {
		var got Items[item]
		err := json.Unmarshal([]byte(body), &got)
		assert.Error(t, err, "body %q should be rejected", body)
	}
}

func TestMarshalMirrorsShape(t *testing.T) {
	single := One(item{Name: "alice"})
	data, err := json.Marshal(single)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"alice"}`, string(data))

	many := Of([]item{{Name: "alice"}, {Name: "bob"}})
	data, err = json.Marshal(many)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"alice"},{"name":"bob"}]`, string(data))
}

func TestMarshalSingleItemBatchStaysArray(t *testing.T) {
	b := Of([]item{{Name: "alice"}})
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"alice"}]`, string(data))
}

func TestRoundTripPreservesShape(t *testing.T) {
	for _, body := range []string{`{"name":"alice"}`, `[{"name":"alice"}]`} {
		var got Items[item]
		require.NoError(t, json.Unmarshal([]byte(body), &got))

		out, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, body, string(out))
	}
}

func TestMapPreservesShapeAndOrder(t *testing.T) {
	in := Of([]item{{Name: "alice"}, {Name: "bob"}})
	out := Map(in, func(i item) string { return i.Name })

	assert.True(t, out.Many)
	assert.Equal(t, []string{"alice", "bob"}, out.Values)

	single := Map(One(item{Name: "carol"}), func(i item) string { return i.Name })
	assert.False(t, single.Many)
	assert.Equal(t, []string{"carol"}, single.Values)
}
