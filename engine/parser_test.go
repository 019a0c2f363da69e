package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bittoy/xdevs/engine"
	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
)

var gptDef = `{
  "id": "gpt",
  "type": "coupled",
  "metadata": {
    "components": [
      {"id": "generator", "type": "generator", "configuration": {"period": 3}},
      {"id": "processor", "type": "processor", "configuration": {"time": 1}},
      {"id": "transducer", "type": "transducer", "configuration": {"time": 50}}
    ],
    "couplings": [
      {"type": "ic", "fromId": "generator", "fromPort": "output_req", "toId": "processor", "toPort": "input_req"},
      {"type": "ic", "fromId": "generator", "fromPort": "output_req", "toId": "transducer", "toPort": "input_req"},
      {"type": "ic", "fromId": "processor", "fromPort": "output_res", "toId": "transducer", "toPort": "input_res"},
      {"type": "ic", "fromId": "transducer", "fromPort": "output_stop", "toId": "generator", "toPort": "input_stop"}
    ]
  }
}`

func TestBuildGptFromDefinition(t *testing.T) {
	config := quietConfig()
	def, err := config.Parser.DecodeModel([]byte(gptDef))
	require.NoError(t, err)
	require.Equal(t, types.ModelTypeCoupled, def.Type)

	model, err := engine.BuildModel(config, &def)
	require.NoError(t, err)

	coupled, ok := model.(*modeling.Coupled)
	require.True(t, ok)
	require.Equal(t, 3, coupled.NComponents())
	require.Equal(t, 4, coupled.NICs())
	require.Equal(t, 0, coupled.NEICs())
	require.Equal(t, 0, coupled.NEOCs())

	coordinator := engine.NewRootCoordinator(model, engine.WithConfig(config))
	require.NoError(t, coordinator.Simulate(60))
	require.Equal(t, types.Infinity, model.GetTNext())
}

func TestBuildModelWithTypedPorts(t *testing.T) {
	def := &types.Model{
		Id:   "frame",
		Type: types.ModelTypeCoupled,
		Metadata: &types.ModelMetadata{
			InPorts:  []types.PortDef{{Name: "input", ValueType: "int"}},
			OutPorts: []types.PortDef{{Name: "output", ValueType: "int"}},
			Components: []*types.Model{
				{Id: "processor", Type: types.ModelTypeProcessor, Configuration: types.Configuration{"time": 2}},
			},
			Couplings: []types.CouplingDef{
				{Type: types.CouplingTypeEIC, FromPort: "input", ToId: "processor", ToPort: "input_req"},
			},
		},
	}
	model, err := engine.BuildModel(quietConfig(), def)
	require.NoError(t, err)

	coupled := model.(*modeling.Coupled)
	require.Equal(t, 1, coupled.NEICs())
	_, ok := coupled.GetComponent("processor")
	require.True(t, ok)
}

func TestBuildModelErrors(t *testing.T) {
	config := quietConfig()

	_, err := engine.BuildModel(config, nil)
	require.Error(t, err)

	_, err = engine.BuildModel(config, &types.Model{Id: "x", Type: "no-such-model"})
	require.Error(t, err)

	_, err = engine.BuildModel(config, &types.Model{Id: "x", Type: types.ModelTypeCoupled})
	require.Error(t, err, "coupled without metadata")

	_, err = engine.BuildModel(config, &types.Model{
		Id:   "x",
		Type: types.ModelTypeCoupled,
		Metadata: &types.ModelMetadata{
			InPorts: []types.PortDef{{Name: "input", ValueType: "quaternion"}},
		},
	})
	require.Error(t, err, "unsupported port value type")
}

func TestRegistry(t *testing.T) {
	registry := new(engine.ModelComponentRegistry)
	builder, err := engine.Registry.NewBuilder(types.ModelTypeGenerator)
	require.NoError(t, err)

	require.NoError(t, registry.Register(builder))
	require.Error(t, registry.Register(builder), "duplicate registration")

	fresh, err := registry.NewBuilder(types.ModelTypeGenerator)
	require.NoError(t, err)
	require.NotSame(t, builder, fresh)

	require.NoError(t, registry.Unregister(types.ModelTypeGenerator))
	require.Error(t, registry.Unregister(types.ModelTypeGenerator))

	_, err = registry.NewBuilder(types.ModelTypeGenerator)
	require.Error(t, err)
}

func TestEncodeModelRoundTrip(t *testing.T) {
	config := quietConfig()
	def, err := config.Parser.DecodeModel([]byte(gptDef))
	require.NoError(t, err)

	encoded, err := config.Parser.EncodeModel(def)
	require.NoError(t, err)

	again, err := config.Parser.DecodeModel(encoded)
	require.NoError(t, err)
	require.Equal(t, def, again)
}
