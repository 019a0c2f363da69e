package rt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/rt"
	"github.com/bittoy/xdevs/types"
)

type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

// sink is a root model with one int input port.
func sink(t *testing.T) *modeling.Coupled {
	t.Helper()
	coupled := modeling.NewCoupled("sink")
	modeling.AddInPort[int](coupled.Component, "input")
	return coupled
}

func TestInputQueueInjects(t *testing.T) {
	root := sink(t)
	queue, err := rt.NewInputQueue(4, rt.WithQueueLogger(noopLogger{}))
	require.NoError(t, err)

	queue.Send(types.NewEvent("input", "5"))
	queue.Handler()(50*time.Millisecond, root)

	port, _ := root.GetInPort("input")
	require.Equal(t, 1, port.Len())
}

func TestInputQueueTimeout(t *testing.T) {
	root := sink(t)
	queue, err := rt.NewInputQueue(4, rt.WithQueueLogger(noopLogger{}))
	require.NoError(t, err)

	start := time.Now()
	queue.Handler()(30*time.Millisecond, root)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	require.True(t, root.IsInputEmpty())
}

// The accumulation window drains a burst of events into one iteration.
func TestInputQueueWindow(t *testing.T) {
	root := sink(t)
	queue, err := rt.NewInputQueue(8,
		rt.WithWindow(40*time.Millisecond),
		rt.WithQueueLogger(noopLogger{}))
	require.NoError(t, err)

	queue.Send(types.NewEvent("input", "1"))
	queue.Send(types.NewEvent("input", "2"))
	queue.Send(types.NewEvent("input", "3"))
	queue.Handler()(time.Second, root)

	port, _ := root.GetInPort("input")
	require.Equal(t, 3, port.Len())
}

// Events failing the expr filter never reach the model; injection errors
// are recoverable and leave the simulation running.
func TestInputQueueFilterAndErrors(t *testing.T) {
	root := sink(t)
	queue, err := rt.NewInputQueue(8,
		rt.WithWindow(40*time.Millisecond),
		rt.WithFilter(`port == "input"`),
		rt.WithQueueLogger(noopLogger{}))
	require.NoError(t, err)

	queue.Send(types.NewEvent("noise", "1"))       // dropped by the filter
	queue.Send(types.NewEvent("input", "oops"))    // parse error, logged
	queue.Send(types.NewEvent("input", "7"))       // injected
	queue.Handler()(200*time.Millisecond, root)

	port, _ := root.GetInPort("input")
	require.Equal(t, 1, port.Len())
}

func TestInputQueueFilterCompileError(t *testing.T) {
	_, err := rt.NewInputQueue(1, rt.WithFilter("port =="))
	require.Error(t, err)
}

func TestOutputQueueFanOut(t *testing.T) {
	root := sink(t)
	modeling.AddOutPort[int](root.Component, "output")
	port, _ := root.GetOutPort("output")
	require.NoError(t, port.Inject("9"))

	queue := rt.NewOutputQueue(4)
	queue.SetLogger(noopLogger{})
	subA := queue.Subscribe()
	subB := queue.Subscribe()

	queue.PropagateOutput(root)
	queue.Close()

	for _, sub := range []<-chan types.Event{subA, subB} {
		event, ok := <-sub
		require.True(t, ok)
		require.Equal(t, "output", event.Port())
		require.Equal(t, "9", event.Value())
	}
}

// The sleep waiter honors the time scale and reports the virtual time it
// reached.
func TestSleepWaiter(t *testing.T) {
	root := sink(t)
	waiter := rt.Sleep(0.01, 0)

	start := time.Now()
	require.Equal(t, 5.0, waiter(5, root))
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 40*time.Millisecond)

	require.Equal(t, 7.0, waiter(7, root))
}

// A waiter whose input handler returns early maps the wall clock back to
// virtual time, strictly before the deadline.
func TestWaitEventEarlyReturn(t *testing.T) {
	root := sink(t)
	waiter := rt.WaitEvent(0.01, 0, func(wait time.Duration, _ types.Simulator) {
		time.Sleep(wait / 10)
	})

	vt := waiter(100, root)
	require.Less(t, vt, 100.0)
	require.GreaterOrEqual(t, vt, 0.0)
}

func TestWaitEventBackwardsPanics(t *testing.T) {
	root := sink(t)
	waiter := rt.Sleep(0.001, 0)
	waiter(5, root)
	require.Panics(t, func() {
		waiter(1, root)
	})
}
