package main

import (
	"log"

	"github.com/bittoy/xdevs/engine"
)

// Builds the nested EFP experiment from a JSON model-tree definition and
// runs it in virtual time. The observable behavior matches the flat GPT
// example.
var efpDef = `{
  "id": "efp",
  "type": "coupled",
  "metadata": {
    "components": [
      {
        "id": "ef",
        "type": "coupled",
        "metadata": {
          "inPorts": [{"name": "input_res", "valueType": "any"}],
          "outPorts": [{"name": "output_req", "valueType": "any"}],
          "components": [
            {
              "id": "generator",
              "type": "exprAtomic",
              "configuration": {
                "outPorts": ["output_req"],
                "inPorts": ["input_stop"],
                "state": {"sigma": 0, "count": 0, "period": 3},
                "ta": "sigma",
                "lambda": {"output_req": "count"},
                "deltaInt": {"count": "count + 1", "sigma": "period"},
                "deltaExt": {"sigma": "len(inputs.input_stop) > 0 ? inf : sigma - e"}
              }
            },
            {
              "id": "transducer",
              "type": "exprAtomic",
              "configuration": {
                "inPorts": ["input_req", "input_res"],
                "outPorts": ["output_stop"],
                "state": {"sigma": 50, "nReqs": 0, "nRes": 0},
                "ta": "sigma",
                "lambda": {"output_stop": "true"},
                "deltaInt": {"sigma": "inf"},
                "deltaExt": {
                  "sigma": "sigma - e",
                  "nReqs": "nReqs + len(inputs.input_req)",
                  "nRes": "nRes + len(inputs.input_res)"
                }
              }
            }
          ],
          "couplings": [
            {"type": "eic", "fromPort": "input_res", "toId": "transducer", "toPort": "input_res"},
            {"type": "ic", "fromId": "generator", "fromPort": "output_req", "toId": "transducer", "toPort": "input_req"},
            {"type": "ic", "fromId": "transducer", "fromPort": "output_stop", "toId": "generator", "toPort": "input_stop"},
            {"type": "eoc", "fromId": "generator", "fromPort": "output_req", "toPort": "output_req"}
          ]
        }
      },
      {
        "id": "processor",
        "type": "exprAtomic",
        "configuration": {
          "inPorts": ["input_req"],
          "outPorts": ["output_res"],
          "state": {"sigma": "inf", "job": -1, "time": 1},
          "ta": "sigma",
          "lambda": {"output_res": "job"},
          "deltaInt": {"sigma": "inf", "job": "-1"},
          "deltaExt": {
            "sigma": "job < 0 && len(inputs.input_req) > 0 ? time : sigma - e",
            "job": "job < 0 && len(inputs.input_req) > 0 ? inputs.input_req[0] : job"
          }
        }
      }
    ],
    "couplings": [
      {"type": "ic", "fromId": "ef", "fromPort": "output_req", "toId": "processor", "toPort": "input_req"},
      {"type": "ic", "fromId": "processor", "fromPort": "output_res", "toId": "ef", "toPort": "input_res"}
    ]
  }
}`

func main() {
	config := engine.NewConfig()
	def, err := config.Parser.DecodeModel([]byte(efpDef))
	if err != nil {
		log.Fatalf("failed to decode model tree: %v", err)
	}
	model, err := engine.BuildModel(config, &def)
	if err != nil {
		log.Fatalf("failed to build model tree: %v", err)
	}

	coordinator := engine.NewRootCoordinator(model, engine.WithConfig(config))
	if err := coordinator.Simulate(60); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
}
