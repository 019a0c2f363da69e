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

// init registers the TransducerBuilder component with the package registry.
func init() {
	Registry.Add(&TransducerBuilder{})
}

// Transducer observes the experiment for a fixed window: it logs request
// arrivals on input_req and completions on input_res, and at the end of
// the window emits true on output_stop.
// Transducer 在固定窗口内观察实验：记录 input_req 上的请求到达和
// input_res 上的完成，并在窗口结束时在 output_stop 上发射 true。
type Transducer struct {
	*modeling.Component
	sigma      float64
	nReqs      int
	nRes       int
	logger     types.Logger
	inputReq   modeling.InPort[int]
	inputRes   modeling.InPort[Job]
	outputStop modeling.OutPort[bool]
}

// NewTransducer creates a transducer with the given observation window.
func NewTransducer(name string, time float64) *Transducer {
	component := modeling.NewComponent(name)
	t := &Transducer{
		Component:  component,
		sigma:      time,
		logger:     types.DefaultLogger(),
		inputReq:   modeling.AddInPort[int](component, "input_req"),
		inputRes:   modeling.AddInPort[Job](component, "input_res"),
		outputStop: modeling.AddOutPort[bool](component, "output_stop"),
	}
	return t
}

// SetLogger replaces the logger used for the observation records.
func (t *Transducer) SetLogger(logger types.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// NReqs returns the number of requests observed so far.
func (t *Transducer) NReqs() int {
	return t.nReqs
}

// NRes returns the number of completions observed so far.
func (t *Transducer) NRes() int {
	return t.nRes
}

func (t *Transducer) Lambda() {
	t.outputStop.AddValue(true)
}

func (t *Transducer) DeltaInt() {
	t.sigma = types.Infinity
	t.logger.Printf("transducer %s finished: %d requests, %d completions", t.GetName(), t.nReqs, t.nRes)
}

func (t *Transducer) DeltaExt(e float64) {
	t.sigma -= e
	now := t.GetTLast() + e
	for _, req := range t.inputReq.GetValues() {
		t.nReqs++
		t.logger.Printf("generator sent job %d at time %v", req, now)
	}
	for _, job := range t.inputRes.GetValues() {
		t.nRes++
		t.logger.Printf("processor processed job %d after %v seconds at time %v", job.Id, job.Time, now)
	}
}

func (t *Transducer) Ta() float64 {
	return t.sigma
}

// TransducerBuilderConfiguration defines the configuration structure for
// the transducer model builder.
type TransducerBuilderConfiguration struct {
	// Time is the observation window length, in virtual time units.
	Time float64 `json:"time"`
}

// TransducerBuilder creates transducers from model-tree definitions.
type TransducerBuilder struct {
	Config TransducerBuilderConfiguration
	logger types.Logger
}

// Type returns the builder type identifier.
func (b *TransducerBuilder) Type() types.ModelType {
	return types.ModelTypeTransducer
}

// New creates a new instance.
func (b *TransducerBuilder) New() types.ModelBuilder {
	return &TransducerBuilder{Config: TransducerBuilderConfiguration{Time: 100}}
}

// Init decodes the configuration.
func (b *TransducerBuilder) Init(config types.Config, configuration types.Configuration) error {
	b.logger = config.Logger
	return maps.Map2Struct(configuration, &b.Config)
}

// Build creates the simulator.
func (b *TransducerBuilder) Build(name string) (types.Simulator, error) {
	if b.Config.Time <= 0 {
		return nil, errors.New("transducer observation time must be positive")
	}
	t := NewTransducer(name, b.Config.Time)
	t.SetLogger(b.logger)
	return modeling.NewSimulator(t), nil
}
