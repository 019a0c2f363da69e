package script_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/components/script"
	"github.com/bittoy/xdevs/engine"
	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
)

type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

func quietConfig() types.Config {
	return engine.NewConfig(types.WithLogger(noopLogger{}))
}

const jsCounterScript = `
var sigma = 1;
var received = 0;
function ta() { return sigma; }
function lambda() { emit("output", received); }
function deltaInt() { sigma = Infinity; }
function deltaExt(e, inputs) {
	received = inputs["input"].length;
	sigma = 0;
}
`

func TestJsAtomic(t *testing.T) {
	model, err := script.NewJsAtomic("counter", quietConfig(), script.JsAtomicConfiguration{
		Script:   jsCounterScript,
		InPorts:  []string{"input"},
		OutPorts: []string{"output"},
	})
	require.NoError(t, err)

	require.Equal(t, 1.0, model.Ta())

	require.NoError(t, model.Inject(types.NewEvent("input", "7")))
	require.NoError(t, model.Inject(types.NewEvent("input", "8")))
	model.DeltaExt(0.5)
	require.Equal(t, 0.0, model.Ta())

	model.Lambda()
	out, ok := model.GetOutPort("output")
	require.True(t, ok)
	require.Equal(t, []string{"2"}, out.Eject())

	model.DeltaInt()
	require.Equal(t, types.Infinity, model.Ta())
}

func TestJsAtomicMissingFunction(t *testing.T) {
	_, err := script.NewJsAtomic("broken", quietConfig(), script.JsAtomicConfiguration{
		Script: `function ta() { return 1; }`,
	})
	require.Error(t, err)
}

func TestJsAtomicUdf(t *testing.T) {
	config := quietConfig()
	config.RegisterUdf("double", func(v int64) int64 { return v * 2 })

	model, err := script.NewJsAtomic("udf", config, script.JsAtomicConfiguration{
		Script: `
var sigma = 0;
function ta() { return sigma; }
function lambda() { emit("output", double(21)); }
function deltaInt() { sigma = Infinity; }
function deltaExt(e, inputs) {}
`,
		OutPorts: []string{"output"},
	})
	require.NoError(t, err)

	model.Lambda()
	out, _ := model.GetOutPort("output")
	require.Equal(t, []string{"42"}, out.Eject())
}

func TestExprAtomicGenerator(t *testing.T) {
	model, err := script.NewExprAtomic("gen", script.ExprAtomicConfiguration{
		InPorts:  []string{"input_stop"},
		OutPorts: []string{"output"},
		State:    map[string]any{"sigma": 0.0, "count": 0, "period": 3.0},
		Ta:       "sigma",
		Lambda:   map[string]string{"output": "count"},
		DeltaInt: map[string]string{"count": "count + 1", "sigma": "period"},
		DeltaExt: map[string]string{"sigma": "len(inputs.input_stop) > 0 ? inf : sigma - e"},
	})
	require.NoError(t, err)

	require.Equal(t, 0.0, model.Ta())
	model.Lambda()
	out, _ := model.GetOutPort("output")
	require.Equal(t, []string{"0"}, out.Eject())

	model.DeltaInt()
	require.Equal(t, 3.0, model.Ta())
	require.Equal(t, 1, model.State("count"))

	require.NoError(t, model.Inject(types.NewEvent("input_stop", "true")))
	model.DeltaExt(1)
	require.Equal(t, types.Infinity, model.Ta())
}

func TestExprAtomicInfState(t *testing.T) {
	model, err := script.NewExprAtomic("passive", script.ExprAtomicConfiguration{
		State: map[string]any{"sigma": "inf"},
		Ta:    "sigma",
	})
	require.NoError(t, err)
	require.Equal(t, types.Infinity, model.Ta())
}

func TestExprAtomicCompileError(t *testing.T) {
	_, err := script.NewExprAtomic("broken", script.ExprAtomicConfiguration{
		Ta: "sigma +",
	})
	require.Error(t, err)
}

// Two script atomics cooperate inside a coupled model: a JavaScript
// pinger and an expression-driven counter.
func TestScriptModelsCoupled(t *testing.T) {
	config := quietConfig()

	pinger, err := script.NewJsAtomic("pinger", config, script.JsAtomicConfiguration{
		Script: `
var fired = 0;
function ta() { return fired < 3 ? 1 : Infinity; }
function lambda() { emit("output", fired); }
function deltaInt() { fired = fired + 1; }
function deltaExt(e, inputs) {}
`,
		OutPorts: []string{"output"},
	})
	require.NoError(t, err)

	counter, err := script.NewExprAtomic("counter", script.ExprAtomicConfiguration{
		InPorts:  []string{"input"},
		State:    map[string]any{"sigma": "inf", "seen": 0},
		Ta:       "sigma",
		DeltaExt: map[string]string{"seen": "seen + len(inputs.input)"},
	})
	require.NoError(t, err)

	coupled := modeling.NewCoupled("pair")
	coupled.AddComponent(modeling.NewSimulator(pinger))
	coupled.AddComponent(modeling.NewSimulator(counter))
	coupled.AddIC("pinger", "output", "counter", "input")

	coordinator := engine.NewRootCoordinator(coupled, engine.WithConfig(config))
	require.NoError(t, coordinator.Simulate(10))
	require.Equal(t, 3, counter.State("seen"))
}

// The builders resolve through the default registry from a model tree.
func TestScriptBuildersFromDefinition(t *testing.T) {
	config := quietConfig()
	def := &types.Model{
		Id:   "gen",
		Type: types.ModelTypeExpr,
		Configuration: types.Configuration{
			"outPorts": []any{"output"},
			"state":    map[string]any{"sigma": 0.0},
			"ta":       "sigma",
			"deltaInt": map[string]any{"sigma": "inf"},
		},
	}
	model, err := engine.BuildModel(config, def)
	require.NoError(t, err)
	require.Equal(t, "gen", model.GetName())

	coordinator := engine.NewRootCoordinator(model, engine.WithConfig(config))
	require.NoError(t, coordinator.Simulate(types.Infinity))
}
