package maps

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Period float64 `json:"period"`
	Name   string  `json:"name"`
}

func TestMap2Struct(t *testing.T) {
	var out sample
	err := Map2Struct(map[string]any{"period": "3", "name": "gen"}, &out)
	require.NoError(t, err)
	require.Equal(t, sample{Period: 3, Name: "gen"}, out)
}

func TestStruct2Map(t *testing.T) {
	m := Struct2Map(sample{Period: 2, Name: "p"})
	require.Equal(t, 2.0, m["period"])
	require.Equal(t, "p", m["name"])
	require.Nil(t, Struct2Map(nil))
}

func TestCopy(t *testing.T) {
	dst := map[string]any{"a": 1}
	Copy(dst, map[string]any{"b": 2})
	require.Equal(t, map[string]any{"a": 1, "b": 2}, dst)
}
