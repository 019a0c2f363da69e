package modeling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/types"
)

// recorderModel records every behavioral call the scheduler makes, so
// the tests can assert the exact transition sequencing.
type recorderModel struct {
	*Component
	calls []string
	sigma float64
	in    InPort[int]
	out   OutPort[int]
}

func newRecorderModel(name string, sigma float64) *recorderModel {
	c := NewComponent(name)
	return &recorderModel{
		Component: c,
		sigma:     sigma,
		in:        AddInPort[int](c, "in"),
		out:       AddOutPort[int](c, "out"),
	}
}

func (m *recorderModel) Lambda() {
	m.calls = append(m.calls, "lambda")
	m.out.AddValue(len(m.calls))
}

func (m *recorderModel) DeltaInt() {
	m.calls = append(m.calls, "int")
	m.sigma = types.Infinity
}

func (m *recorderModel) DeltaExt(e float64) {
	m.calls = append(m.calls, fmt.Sprintf("ext(%v)", e))
	m.sigma = types.Infinity
}

func (m *recorderModel) Ta() float64 {
	return m.sigma
}

// confRecorderModel overrides the confluent transition.
type confRecorderModel struct {
	*recorderModel
}

func (m *confRecorderModel) DeltaConf() {
	m.calls = append(m.calls, "conf")
	m.sigma = types.Infinity
}

func TestAtomicInternalTransition(t *testing.T) {
	m := newRecorderModel("m", 5)
	sim := NewSimulator(m)

	require.Equal(t, 5.0, sim.Start(0))
	sim.Collection(5)
	require.Equal(t, types.Infinity, sim.Transition(5))

	require.Equal(t, []string{"lambda", "int"}, m.calls)
	require.Equal(t, 5.0, sim.GetTLast())
	// The produced output was cleared after the internal transition.
	p, _ := m.GetOutPort("out")
	require.True(t, p.IsEmpty())
}

func TestAtomicExternalTransition(t *testing.T) {
	m := newRecorderModel("m", 5)
	sim := NewSimulator(m)
	sim.Start(0)

	require.NoError(t, sim.Inject(types.NewEvent("in", "1")))
	sim.Collection(3) // t < tNext: no-op (idempotent collection)
	require.Equal(t, types.Infinity, sim.Transition(3))

	require.Equal(t, []string{"ext(3)"}, m.calls)
	require.True(t, sim.IsInputEmpty())
}

// The default confluent transition is the internal transition followed
// by the external transition with zero elapsed time, and the input bag
// is cleared exactly once, after it returns.
func TestAtomicConfluentDefault(t *testing.T) {
	m := newRecorderModel("m", 5)
	sim := NewSimulator(m)
	sim.Start(0)

	require.NoError(t, sim.Inject(types.NewEvent("in", "1")))
	sim.Collection(5)
	require.Equal(t, types.Infinity, sim.Transition(5))

	require.Equal(t, []string{"lambda", "int", "ext(0)"}, m.calls)
	require.True(t, sim.IsInputEmpty())
	p, _ := m.GetOutPort("out")
	require.True(t, p.IsEmpty())
}

func TestAtomicConfluentOverride(t *testing.T) {
	m := &confRecorderModel{recorderModel: newRecorderModel("m", 5)}
	sim := NewSimulator(m)
	sim.Start(0)

	require.NoError(t, sim.Inject(types.NewEvent("in", "1")))
	sim.Transition(5)

	require.Equal(t, []string{"conf"}, m.calls)
}

// A model with an infinite time advance and no input never transitions.
func TestAtomicPassive(t *testing.T) {
	m := newRecorderModel("m", types.Infinity)
	sim := NewSimulator(m)

	require.Equal(t, types.Infinity, sim.Start(0))
	for _, tau := range []float64{0, 1, 1e9} {
		sim.Collection(tau)
		require.Equal(t, types.Infinity, sim.Transition(tau))
	}
	require.Empty(t, m.calls)
	require.Equal(t, 0.0, sim.GetTLast())
}

func TestAtomicZeroTimeAdvance(t *testing.T) {
	m := newRecorderModel("m", 0)
	sim := NewSimulator(m)

	require.Equal(t, 0.0, sim.Start(0))
	sim.Collection(0)
	sim.Transition(0)
	require.Equal(t, []string{"lambda", "int"}, m.calls)
}

func TestAtomicNegativeTimeAdvancePanics(t *testing.T) {
	m := newRecorderModel("m", -1)
	require.Panics(t, func() {
		NewSimulator(m).Start(0)
	})
}

func TestAtomicStop(t *testing.T) {
	m := newRecorderModel("m", 5)
	sim := NewSimulator(m)
	sim.Start(0)
	sim.Stop(3)

	require.Equal(t, 3.0, sim.GetTLast())
	require.Equal(t, types.Infinity, sim.GetTNext())
}
