package main

import (
	"flag"
	"log"
	"time"

	"github.com/bittoy/xdevs/components/gpt"
	"github.com/bittoy/xdevs/engine"
	"github.com/bittoy/xdevs/rt"
)

// Runs the experimental frame in real time with its loose ends bridged
// over MQTT: requests leaving output_req are published under
// gpt/efp/output/output_req, and payloads arriving on
// gpt/efp/input/input_res are injected into the input_res port. A remote
// processor subscribed to the same topics closes the loop.
func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URI")
	obsTime := flag.Float64("obs-time", 50, "observation window in seconds")
	flag.Parse()

	model := gpt.NewExperimentalFrame("ef", 3, *obsTime)

	inputs, err := rt.NewInputQueue(16, rt.WithWindow(50*time.Millisecond))
	if err != nil {
		log.Fatalf("failed to create input queue: %v", err)
	}
	outputs := rt.NewOutputQueue(16)

	handler := rt.NewMqttHandler("gpt/efp", "xdevs-ef", *broker)
	if err := handler.Start(engine.NewConfig(), inputs, outputs.Subscribe()); err != nil {
		log.Fatalf("failed to start MQTT handler: %v", err)
	}
	defer handler.Stop()
	defer outputs.Close()

	coordinator := engine.NewRootCoordinator(model)
	waiter := rt.WaitEvent(1.0, 0, inputs.Handler())
	if err := coordinator.SimulateRT(*obsTime+10, waiter, outputs.PropagateOutput); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
}
