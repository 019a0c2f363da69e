package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/components/gpt"
	"github.com/bittoy/xdevs/engine"
	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/rt"
	"github.com/bittoy/xdevs/types"
)

// S5 at a 100x compressed time scale: the wall-clock duration of the
// sleep-driven run approximates the virtual duration times the scale,
// and the virtual-time trace matches the virtual-time run exactly.
func TestRealTimeSleep(t *testing.T) {
	coupled, generator, transducer := buildGpt("gpt", 3, 1, 50)
	coordinator := engine.NewRootCoordinator(coupled, engine.WithConfig(quietConfig()))

	const timeScale = 0.01 // 50 virtual seconds -> 0.5 wall-clock seconds
	start := time.Now()
	require.NoError(t, coordinator.SimulateRT(60, rt.Sleep(timeScale, 0), nil))
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, 450*time.Millisecond)
	require.Less(t, elapsed, 5*time.Second, "ambient scheduler jitter should stay far below the virtual duration")
	require.Equal(t, 17, generator.Count())
	require.Equal(t, 17, transducer.NReqs())
	require.Equal(t, 17, transducer.NRes())
}

// S6: when the waiter reports an earlier-than-expected virtual time and
// no input was injected, the engine must not run any transition and must
// re-enter the waiter with the same deadline.
func TestSpuriousWakeupRejected(t *testing.T) {
	generator := gpt.NewGenerator("generator", 5)
	sim := modeling.NewSimulator(generator)
	coordinator := engine.NewRootCoordinator(sim, engine.WithConfig(quietConfig()))

	var deadlines []float64
	spurious := true
	waiter := func(tUntil float64, root types.Simulator) float64 {
		deadlines = append(deadlines, tUntil)
		if spurious && tUntil == 5 {
			spurious = false
			return 3 // wake up early with empty input bags
		}
		return tUntil
	}
	require.NoError(t, coordinator.SimulateRT(7, waiter, nil))

	// The t=5 deadline repeats after the spurious wakeup; the run then
	// fires at t=5 and finally reaches the stop time.
	require.Equal(t, []float64{0, 5, 5, 7}, deadlines)
	// Exactly two internal transitions happened (emissions at t=0 and t=5).
	require.Equal(t, 2, generator.Count())
}

// An injected stop event reaches the generator between iterations and
// passivates it ahead of the observation window.
func TestRealTimeInjection(t *testing.T) {
	generator := gpt.NewGenerator("generator", 1)
	sim := modeling.NewSimulator(generator)
	coordinator := engine.NewRootCoordinator(sim, engine.WithConfig(quietConfig()))

	inputs, err := rt.NewInputQueue(4, rt.WithQueueLogger(noopLogger{}))
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		inputs.Send(types.NewEvent("input_stop", "true"))
	}()

	const timeScale = 0.01
	waiter := rt.WaitEvent(timeScale, 0, inputs.Handler())
	start := time.Now()
	require.NoError(t, coordinator.SimulateRT(100, waiter, nil))
	elapsed := time.Since(start)

	// Without the stop event the generator would emit 100 times.
	require.Less(t, elapsed, 5*time.Second)
	require.Less(t, generator.Count(), 50)
	require.Equal(t, types.Infinity, generator.Ta())
}

// The output handler observes the root output bags after every
// collection, before the transition clears them.
func TestRealTimeOutputHandler(t *testing.T) {
	ef := gpt.NewExperimentalFrame("ef", 3, 20)
	coordinator := engine.NewRootCoordinator(ef, engine.WithConfig(quietConfig()))

	outputs := rt.NewOutputQueue(64)
	outputs.SetLogger(noopLogger{})
	sub := outputs.Subscribe()

	require.NoError(t, coordinator.SimulateRT(30, rt.Virtual(), outputs.PropagateOutput))
	outputs.Close()

	var values []string
	for event := range sub {
		require.Equal(t, "output_req", event.Port())
		values = append(values, event.Value())
	}
	require.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6"}, values)
}
