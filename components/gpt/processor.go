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

// init registers the ProcessorBuilder component with the package registry.
func init() {
	Registry.Add(&ProcessorBuilder{})
}

// Processor holds an incoming request for a fixed processing time and
// then emits the finished job on output_res. Requests arriving while it
// is busy are dropped.
// Processor 将到达的请求保持固定的处理时间，然后在 output_res 上
// 发射完成的作业。忙碌期间到达的请求会被丢弃。
type Processor struct {
	*modeling.Component
	sigma     float64
	time      float64
	job       int
	busy      bool
	inputReq  modeling.InPort[int]
	outputRes modeling.OutPort[Job]
}

// NewProcessor creates a processor with the given processing time.
func NewProcessor(name string, time float64) *Processor {
	component := modeling.NewComponent(name)
	p := &Processor{
		Component: component,
		sigma:     types.Infinity,
		time:      time,
		inputReq:  modeling.AddInPort[int](component, "input_req"),
		outputRes: modeling.AddOutPort[Job](component, "output_res"),
	}
	return p
}

func (p *Processor) Lambda() {
	if p.busy {
		p.outputRes.AddValue(Job{Id: p.job, Time: p.time})
	}
}

func (p *Processor) DeltaInt() {
	p.sigma = types.Infinity
	p.busy = false
}

func (p *Processor) DeltaExt(e float64) {
	p.sigma -= e
	if !p.busy {
		values := p.inputReq.GetValues()
		if len(values) > 0 {
			p.job = values[0]
			p.busy = true
			p.sigma = p.time
		}
	}
}

func (p *Processor) Ta() float64 {
	return p.sigma
}

// ProcessorBuilderConfiguration defines the configuration structure for
// the processor model builder.
type ProcessorBuilderConfiguration struct {
	// Time is the processing time per job, in virtual time units.
	Time float64 `json:"time"`
}

// ProcessorBuilder creates processors from model-tree definitions.
type ProcessorBuilder struct {
	Config ProcessorBuilderConfiguration
}

// Type returns the builder type identifier.
func (b *ProcessorBuilder) Type() types.ModelType {
	return types.ModelTypeProcessor
}

// New creates a new instance.
func (b *ProcessorBuilder) New() types.ModelBuilder {
	return &ProcessorBuilder{Config: ProcessorBuilderConfiguration{Time: 1}}
}

// Init decodes the configuration.
func (b *ProcessorBuilder) Init(_ types.Config, configuration types.Configuration) error {
	return maps.Map2Struct(configuration, &b.Config)
}

// Build creates the simulator.
func (b *ProcessorBuilder) Build(name string) (types.Simulator, error) {
	if b.Config.Time < 0 {
		return nil, errors.New("processor time must not be negative")
	}
	return modeling.NewSimulator(NewProcessor(name, b.Config.Time)), nil
}
