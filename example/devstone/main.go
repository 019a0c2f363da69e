package main

import (
	"flag"
	"log"

	"github.com/bittoy/xdevs/components/devstone"
	"github.com/bittoy/xdevs/engine"
	"github.com/bittoy/xdevs/types"
)

// Runs one DEVStone benchmark tree and reports the structural counters
// and transition counts gathered by the probe.
func main() {
	benchmark := flag.String("benchmark", "HI", "DEVStone benchmark: LI, HI, HO, HOmod")
	width := flag.Int("width", 5, "tree width")
	depth := flag.Int("depth", 3, "tree depth")
	intDelay := flag.Uint("int-delay", 0, "internal transition delay in milliseconds")
	extDelay := flag.Uint("ext-delay", 0, "external transition delay in milliseconds")
	parallel := flag.Bool("parallel", false, "enable the parallel scheduler variants")
	flag.Parse()

	probe := devstone.NewProbe()
	model, err := devstone.New(devstone.Benchmark(*benchmark), *width, *depth, *intDelay, *extDelay, probe)
	if err != nil {
		log.Fatalf("failed to build model: %v", err)
	}
	if *parallel {
		model.SetParallelism(types.ParallelismAll())
	}

	coordinator := engine.NewRootCoordinator(model)
	if err := coordinator.Simulate(types.Infinity); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	log.Printf("%s(w=%d, d=%d): %d atomics, %d EICs, %d ICs, %d EOCs",
		*benchmark, *width, *depth, probe.NAtomics(), probe.NEICs(), probe.NICs(), probe.NEOCs())
	log.Printf("%d internal transitions, %d external transitions, %d events",
		probe.NInternals(), probe.NExternals(), probe.NEvents())
}
