package content

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"z":1,"a":{"y":true,"b":null},"m":[1,"x"]}`))
	require.NoError(t, err)

	obj := v.(Object)
	require.Len(t, obj, 3)
	assert.Equal(t, "z", obj[0].Key)
	assert.Equal(t, "a", obj[1].Key)
	assert.Equal(t, "m", obj[2].Key)

	nested := obj[1].Value.(Object)
	assert.Equal(t, Object{{Key: "y", Value: true}, {Key: "b", Value: nil}}, nested)
	assert.Equal(t, []any{json.Number("1"), "x"}, obj[2].Value)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"a":`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	t.Run("Array", func(t *testing.T) {
		v, _ := Decode(strings.NewReader(`[{"id":1},{"id":2}]`))
		recs, err := Records(v)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("SingleObject", func(t *testing.T) {
		v, _ := Decode(strings.NewReader(`{"id":1}`))
		recs, err := Records(v)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("NotObjects", func(t *testing.T) {
		v, _ := Decode(strings.NewReader(`[{"id":1}, 5]`))
		_, err := Records(v)
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("Scalar", func(t *testing.T) {
		_, err := Records("nope")
		assert.ErrorIs(t, err, ErrNotObject)
	})
}

func TestToObject_Sorted(t *testing.T) {
	obj := ToObject(map[string]any{"b": 1, "a": map[string]any{"d": 2, "c": 3}})
	require.Len(t, obj, 2)
	assert.Equal(t, "a", obj[0].Key)
	assert.Equal(t, Object{{Key: "c", Value: 3}, {Key: "d", Value: 2}}, obj[0].Value)
}
