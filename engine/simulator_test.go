package engine_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/components/gpt"
	"github.com/bittoy/xdevs/engine"
	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/rt"
	"github.com/bittoy/xdevs/types"
)

// noopLogger keeps the transducer observation records out of the test output.
type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

func quietConfig() types.Config {
	return engine.NewConfig(types.WithLogger(noopLogger{}))
}

// buildGpt wires the GPT experiment by hand so the test keeps direct
// references to the atomic models.
func buildGpt(name string, p, tau, obs float64) (*modeling.Coupled, *gpt.Generator, *gpt.Transducer) {
	coupled := modeling.NewCoupled(name)
	generator := gpt.NewGenerator("generator", p)
	processor := gpt.NewProcessor("processor", tau)
	transducer := gpt.NewTransducer("transducer", obs)
	transducer.SetLogger(noopLogger{})

	coupled.AddComponent(modeling.NewSimulator(generator))
	coupled.AddComponent(modeling.NewSimulator(processor))
	coupled.AddComponent(modeling.NewSimulator(transducer))

	coupled.AddIC("generator", "output_req", "processor", "input_req")
	coupled.AddIC("generator", "output_req", "transducer", "input_req")
	coupled.AddIC("processor", "output_res", "transducer", "input_res")
	coupled.AddIC("transducer", "output_stop", "generator", "input_stop")
	return coupled, generator, transducer
}

// assertClean verifies that after a finished simulation every bag in the
// hierarchy is empty.
func assertClean(t *testing.T, sim types.Simulator) {
	t.Helper()
	require.True(t, sim.IsInputEmpty())
	require.Empty(t, sim.Eject())
	if coupled, ok := sim.(*modeling.Coupled); ok {
		for _, sub := range coupled.Components() {
			assertClean(t, sub)
		}
	}
}

// S1: the flat GPT experiment with p=3, tau=1, T=50. The generator emits
// at t=0,3,...,48; the processor finishes at t=1,4,...,49; at t=50 the
// transducer stops the generator and the simulation runs out of events.
func TestGptScenario(t *testing.T) {
	coupled, generator, transducer := buildGpt("gpt", 3, 1, 50)

	coordinator := engine.NewRootCoordinator(coupled, engine.WithConfig(quietConfig()))
	require.NoError(t, coordinator.Simulate(60))

	require.Equal(t, 17, generator.Count())
	require.Equal(t, 17, transducer.NReqs())
	require.Equal(t, 17, transducer.NRes())
	require.Equal(t, types.Infinity, coupled.GetTNext())
	assertClean(t, coupled)
}

// S2: the nested EFP arrangement must produce the same observable trace
// as the flat GPT.
func TestEfpScenario(t *testing.T) {
	efp := modeling.NewCoupled("efp")

	ef := modeling.NewCoupled("ef")
	modeling.AddInPort[gpt.Job](ef.Component, "input_res")
	modeling.AddOutPort[int](ef.Component, "output_req")
	generator := gpt.NewGenerator("generator", 3)
	transducer := gpt.NewTransducer("transducer", 50)
	transducer.SetLogger(noopLogger{})
	ef.AddComponent(modeling.NewSimulator(generator))
	ef.AddComponent(modeling.NewSimulator(transducer))
	ef.AddEIC("input_res", "transducer", "input_res")
	ef.AddIC("generator", "output_req", "transducer", "input_req")
	ef.AddIC("transducer", "output_stop", "generator", "input_stop")
	ef.AddEOC("generator", "output_req", "output_req")

	efp.AddComponent(ef)
	efp.AddComponent(modeling.NewSimulator(gpt.NewProcessor("processor", 1)))
	efp.AddIC("ef", "output_req", "processor", "input_req")
	efp.AddIC("processor", "output_res", "ef", "input_res")

	coordinator := engine.NewRootCoordinator(efp, engine.WithConfig(quietConfig()))
	require.NoError(t, coordinator.Simulate(60))

	require.Equal(t, 17, generator.Count())
	require.Equal(t, 17, transducer.NReqs())
	require.Equal(t, 17, transducer.NRes())
	require.Equal(t, types.Infinity, efp.GetTNext())
	assertClean(t, efp)
}

// The packaged coupled builders behave like the hand-wired ones.
func TestGptBuilders(t *testing.T) {
	for _, build := range []func() *modeling.Coupled{
		func() *modeling.Coupled { return gpt.NewGpt("gpt", 3, 1, 50) },
		func() *modeling.Coupled { return gpt.NewEfp("efp", 3, 1, 50) },
	} {
		coupled := build()
		coordinator := engine.NewRootCoordinator(coupled, engine.WithConfig(quietConfig()))
		require.NoError(t, coordinator.Simulate(60))
		require.Equal(t, types.Infinity, coupled.GetTNext())
	}
}

// efTrace drives an experimental frame through the real-time driver at
// full speed and records the (t, port, value) events observed at the
// root outputs.
func efTrace(t *testing.T, par types.Parallelism) []string {
	ef := modeling.NewCoupled("ef")
	modeling.AddInPort[gpt.Job](ef.Component, "input_res")
	modeling.AddOutPort[int](ef.Component, "output_req")
	transducer := gpt.NewTransducer("transducer", 20)
	transducer.SetLogger(noopLogger{})
	ef.AddComponent(modeling.NewSimulator(gpt.NewGenerator("generator", 3)))
	ef.AddComponent(modeling.NewSimulator(transducer))
	ef.AddEIC("input_res", "transducer", "input_res")
	ef.AddIC("generator", "output_req", "transducer", "input_req")
	ef.AddIC("transducer", "output_stop", "generator", "input_stop")
	ef.AddEOC("generator", "output_req", "output_req")
	ef.SetParallelism(par)

	var trace []string
	var now float64
	waiter := func(tUntil float64, _ types.Simulator) float64 {
		now = tUntil
		return tUntil
	}
	outputs := func(root types.Simulator) {
		for _, event := range root.Eject() {
			trace = append(trace, fmt.Sprintf("%v %s %s", now, event.Port(), event.Value()))
		}
	}

	coordinator := engine.NewRootCoordinator(ef, engine.WithConfig(quietConfig()))
	require.NoError(t, coordinator.SimulateRT(30, waiter, outputs))
	return trace
}

// L3: every parallel scheduler variant produces the sequential trace.
func TestParallelTraceEquivalence(t *testing.T) {
	sequential := efTrace(t, types.Parallelism{})
	require.NotEmpty(t, sequential)
	// The generator emits at t=0,3,...,18 before the observation window closes.
	require.Len(t, sequential, 7)
	require.Equal(t, "0 output_req 0", sequential[0])

	variants := []types.Parallelism{
		{Start: true},
		{Stop: true},
		{Collection: true},
		{Transition: true},
		{Couplings: true},
		types.ParallelismAll(),
	}
	for _, par := range variants {
		require.Equal(t, sequential, efTrace(t, par), "parallelism %+v diverged", par)
	}
}

// invariantAspect checks monotone time (I2) and the coupled-schedule
// invariant (I3) after every iteration.
type invariantAspect struct {
	lastT      float64
	violations []string
}

func (a *invariantAspect) Order() int         { return 1 }
func (a *invariantAspect) New() types.Aspect  { return a }
func (a *invariantAspect) PointCut(float64) bool { return true }
func (a *invariantAspect) Before(types.Simulator, float64) {}

func (a *invariantAspect) After(root types.Simulator, t float64, tNext float64) {
	if t < a.lastT {
		a.violations = append(a.violations, fmt.Sprintf("time moved backwards: %v -> %v", a.lastT, t))
	}
	a.lastT = t
	if tNext < t {
		a.violations = append(a.violations, fmt.Sprintf("t_next %v before t %v", tNext, t))
	}
	if coupled, ok := root.(*modeling.Coupled); ok {
		min := types.Infinity
		for _, sub := range coupled.Components() {
			if sub.GetTNext() < min {
				min = sub.GetTNext()
			}
		}
		if coupled.GetTNext() != min {
			a.violations = append(a.violations, fmt.Sprintf("coupled schedule %v != min %v", coupled.GetTNext(), min))
		}
	}
}

// For arbitrary GPT parameters the schedule invariants hold and the
// transducer observes exactly one request per generator period inside
// the observation window.
func TestGptInvariantsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("gpt invariants", prop.ForAll(
		func(p, tau, obs int) bool {
			coupled, generator, transducer := buildGpt("gpt", float64(p), float64(tau), float64(obs))
			aspect := &invariantAspect{}
			coordinator := engine.NewRootCoordinator(coupled,
				engine.WithConfig(quietConfig()),
				engine.WithAspects(aspect),
			)
			if err := coordinator.Simulate(types.Infinity); err != nil {
				return false
			}
			expected := int(math.Floor(float64(obs)/float64(p))) + 1
			return len(aspect.violations) == 0 &&
				generator.Count() == expected &&
				transducer.NReqs() == expected
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		gen.IntRange(5, 60),
	))

	properties.TestingRun(t)
}

// I4: a coupling between ports of different element types is rejected
// at construction.
func TestTypeIncompatibleCouplingPanics(t *testing.T) {
	sink := modeling.NewCoupled("sink")
	modeling.AddInPort[gpt.Job](sink.Component, "input_res")
	sink.AddComponent(modeling.NewSimulator(gpt.NewProcessor("processor", 1)))

	// input_res carries Jobs while the processor input expects ints.
	require.Panics(t, func() {
		sink.AddEIC("input_res", "processor", "input_req")
	})
}

func TestVirtualWaiterTerminates(t *testing.T) {
	coupled, _, transducer := buildGpt("gpt", 3, 1, 50)
	coordinator := engine.NewRootCoordinator(coupled, engine.WithConfig(quietConfig()))
	require.NoError(t, coordinator.SimulateRT(60, rt.Virtual(), nil))
	require.Equal(t, 17, transducer.NReqs())
}
