/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gpt

import (
	"errors"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
	"github.com/bittoy/xdevs/utils/maps"
)

// init registers the GeneratorBuilder component with the package registry.
func init() {
	Registry.Add(&GeneratorBuilder{})
}

var (
	// Compile-time check Generator implements types.Atomic.
	_ types.Atomic = (*Generator)(nil)
	// Compile-time check GeneratorBuilder implements types.ModelBuilder.
	_ types.ModelBuilder = (*GeneratorBuilder)(nil)
)

// Generator emits an increasing request counter on output_req with a
// fixed period. Any value arriving on input_stop passivates it.
// Generator 以固定周期在 output_req 上发射递增的请求计数。
// input_stop 上到达的任何值都会使其钝化。
type Generator struct {
	*modeling.Component
	sigma     float64
	period    float64
	count     int
	inputStop modeling.InPort[bool]
	outputReq modeling.OutPort[int]
}

// NewGenerator creates a generator with the given request period.
// The first request is emitted immediately at the simulation start.
func NewGenerator(name string, period float64) *Generator {
	component := modeling.NewComponent(name)
	g := &Generator{
		Component: component,
		sigma:     0,
		period:    period,
		inputStop: modeling.AddInPort[bool](component, "input_stop"),
		outputReq: modeling.AddOutPort[int](component, "output_req"),
	}
	return g
}

// Count returns the number of requests emitted so far.
func (g *Generator) Count() int {
	return g.count
}

func (g *Generator) Lambda() {
	g.outputReq.AddValue(g.count)
}

func (g *Generator) DeltaInt() {
	g.count++
	g.sigma = g.period
}

func (g *Generator) DeltaExt(e float64) {
	g.sigma -= e
	if !g.inputStop.IsEmpty() {
		g.sigma = types.Infinity
	}
}

func (g *Generator) Ta() float64 {
	return g.sigma
}

// GeneratorBuilderConfiguration defines the configuration structure for
// the generator model builder.
type GeneratorBuilderConfiguration struct {
	// Period is the request period, in virtual time units.
	Period float64 `json:"period"`
}

// GeneratorBuilder creates generators from model-tree definitions.
type GeneratorBuilder struct {
	Config GeneratorBuilderConfiguration
}

// Type returns the builder type identifier.
func (b *GeneratorBuilder) Type() types.ModelType {
	return types.ModelTypeGenerator
}

// New creates a new instance.
func (b *GeneratorBuilder) New() types.ModelBuilder {
	return &GeneratorBuilder{Config: GeneratorBuilderConfiguration{Period: 1}}
}

// Init decodes the configuration.
func (b *GeneratorBuilder) Init(_ types.Config, configuration types.Configuration) error {
	return maps.Map2Struct(configuration, &b.Config)
}

// Build creates the simulator.
func (b *GeneratorBuilder) Build(name string) (types.Simulator, error) {
	if b.Config.Period <= 0 {
		return nil, errors.New("generator period must be positive")
	}
	return modeling.NewSimulator(NewGenerator(name, b.Config.Period)), nil
}
