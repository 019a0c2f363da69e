package modeling

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/types"
)

func TestPort(t *testing.T) {
	c := NewComponent("component")
	in := AddInPort[int](c, "port_a")
	p, ok := c.GetInPort("port_a")
	require.True(t, ok)

	require.Equal(t, "port_a", p.GetName())
	require.Equal(t, "port_a<int>", p.(*port[int]).String())
	require.True(t, in.IsEmpty())
	require.Equal(t, 0, in.Len())

	p.(*port[int]).bag = append(p.(*port[int]).bag, 0)
	require.False(t, in.IsEmpty())
	require.Equal(t, 1, in.Len())

	p.Clear()
	require.True(t, in.IsEmpty())
	require.Equal(t, 0, in.Len())

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Inject(types.NewEvent("port_a", "5")))
		require.Equal(t, i+1, in.Len())
	}
	for _, v := range in.GetValues() {
		require.Equal(t, 5, v)
	}
}

func TestOutPortHandles(t *testing.T) {
	c := NewComponent("component")
	out := AddOutPort[int](c, "port_a")
	p, ok := c.GetOutPort("port_a")
	require.True(t, ok)

	out.AddValue(1)
	out.AddValues(2, 3)
	require.Equal(t, 3, p.Len())
	require.Equal(t, []string{"1", "2", "3"}, p.Eject())
}

func TestPortCompatibility(t *testing.T) {
	c := NewComponent("component")
	AddInPort[int](c, "ints")
	AddInPort[int64](c, "longs")
	AddInPort[int](c, "more_ints")

	ints, _ := c.GetInPort("ints")
	longs, _ := c.GetInPort("longs")
	moreInts, _ := c.GetInPort("more_ints")

	require.True(t, ints.IsCompatible(moreInts))
	require.False(t, ints.IsCompatible(longs))
	require.Panics(t, func() {
		ints.Propagate(longs)
	})
}

func TestPropagate(t *testing.T) {
	c := NewComponent("component")
	outA := AddOutPort[int](c, "port_a")
	outB := AddOutPort[int](c, "port_b")
	portA, _ := c.GetOutPort("port_a")
	portB, _ := c.GetOutPort("port_b")

	for i := 0; i < 10; i++ {
		outA.AddValue(i)
		outB.AddValue(10 + i)
	}

	portA.Propagate(portB)
	require.Equal(t, 20, portA.Len())
	require.Equal(t, 10, portB.Len())

	outB.AddValue(20)
	require.Equal(t, 20, portA.Len())
	require.Equal(t, 11, portB.Len())

	portA.Clear()
	require.Equal(t, 0, portA.Len())
	require.Equal(t, 11, portB.Len())

	portA.Propagate(portB)
	require.Equal(t, 11, portA.Len())

	portA.Clear()
	portB.Clear()
	require.True(t, portA.IsEmpty())
	require.True(t, portB.IsEmpty())
}

func TestInjectParseError(t *testing.T) {
	c := NewComponent("component")
	AddInPort[int](c, "numbers")

	err := c.Inject(types.NewEvent("numbers", "not-a-number"))
	require.ErrorIs(t, err, types.ErrValueParse)

	err = c.Inject(types.NewEvent("missing", "1"))
	require.ErrorIs(t, err, types.ErrUnknownPort)
}

// Propagation appends the full source bag to the destination bag in
// order and never mutates the source.
func TestPropagateProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("propagate appends and preserves source", prop.ForAll(
		func(dst []int, src []int) bool {
			c := NewComponent("component")
			outDst := AddOutPort[int](c, "dst")
			outSrc := AddOutPort[int](c, "src")
			outDst.AddValues(dst...)
			outSrc.AddValues(src...)

			pDst, _ := c.GetOutPort("dst")
			pSrc, _ := c.GetOutPort("src")
			pDst.Propagate(pSrc)

			if pSrc.Len() != len(src) || pDst.Len() != len(dst)+len(src) {
				return false
			}
			want := append(append([]int(nil), dst...), src...)
			got := pDst.(*port[int]).bag
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-1000, 1000)),
		gen.SliceOf(gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}
