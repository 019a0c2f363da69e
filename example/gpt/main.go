package main

import (
	"log"

	"github.com/bittoy/xdevs/builtin/aspect"
	"github.com/bittoy/xdevs/components/gpt"
	"github.com/bittoy/xdevs/engine"
)

// Runs the classic generator-processor-transducer experiment in virtual
// time: the generator emits a request every 3 time units, the processor
// takes 1 time unit per job, and the transducer observes for 50 time
// units before stopping the generator.
func main() {
	model := gpt.NewGpt("gpt", 3, 1, 50)

	coordinator := engine.NewRootCoordinator(model,
		engine.WithAspects(aspect.NewSimDebug(nil)),
	)
	if err := coordinator.Simulate(60); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
}
