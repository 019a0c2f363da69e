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

// Package gpt implements the canonical generator-processor-transducer
// model family: the three atomic models plus the Gpt, ExperimentalFrame,
// and Efp coupled builders used throughout the test suite and examples.
// 包 gpt 实现经典的 generator-processor-transducer 模型族：
// 三个原子模型以及测试套件和示例中使用的 Gpt、ExperimentalFrame、
// Efp 耦合构建器。
package gpt

import (
	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
)

// Registry collects the model builders of this package. The engine's
// default registry pulls from it during initialization.
var Registry = new(types.SafeBuilderSlice)

// Job is a processed request: the request id and the processing time it took.
// Job 是一个已处理的请求：请求 id 及其处理耗时。
type Job struct {
	Id   int     `json:"id"`
	Time float64 `json:"time"`
}

// NewGpt builds the flat GPT coupled model: generator, processor, and
// transducer wired through internal couplings only.
//
//	generator.output_req -> processor.input_req
//	generator.output_req -> transducer.input_req
//	processor.output_res -> transducer.input_res
//	transducer.output_stop -> generator.input_stop
func NewGpt(name string, reqPeriod, procTime, obsTime float64) *modeling.Coupled {
	coupled := modeling.NewCoupled(name)

	coupled.AddComponent(modeling.NewSimulator(NewGenerator("generator", reqPeriod)))
	coupled.AddComponent(modeling.NewSimulator(NewProcessor("processor", procTime)))
	coupled.AddComponent(modeling.NewSimulator(NewTransducer("transducer", obsTime)))

	coupled.AddIC("generator", "output_req", "processor", "input_req")
	coupled.AddIC("generator", "output_req", "transducer", "input_req")
	coupled.AddIC("processor", "output_res", "transducer", "input_res")
	coupled.AddIC("transducer", "output_stop", "generator", "input_stop")

	return coupled
}

// NewExperimentalFrame builds the experimental frame: generator and
// transducer nested behind an input_res EIC and an output_req EOC.
// NewExperimentalFrame 构建实验框架：generator 和 transducer
// 嵌套在 input_res EIC 和 output_req EOC 之后。
func NewExperimentalFrame(name string, reqPeriod, obsTime float64) *modeling.Coupled {
	coupled := modeling.NewCoupled(name)

	modeling.AddInPort[Job](coupled.Component, "input_res")
	modeling.AddOutPort[int](coupled.Component, "output_req")

	coupled.AddComponent(modeling.NewSimulator(NewGenerator("generator", reqPeriod)))
	coupled.AddComponent(modeling.NewSimulator(NewTransducer("transducer", obsTime)))

	coupled.AddEIC("input_res", "transducer", "input_res")
	coupled.AddIC("generator", "output_req", "transducer", "input_req")
	coupled.AddIC("transducer", "output_stop", "generator", "input_stop")
	coupled.AddEOC("generator", "output_req", "output_req")

	return coupled
}

// NewEfp builds the nested EFP model: an experimental frame coupled to a
// processor. Its observable trace at the root matches the flat GPT.
// NewEfp 构建嵌套的 EFP 模型：实验框架与处理器耦合。
// 其在根部的可观察轨迹与扁平 GPT 一致。
func NewEfp(name string, reqPeriod, procTime, obsTime float64) *modeling.Coupled {
	coupled := modeling.NewCoupled(name)

	coupled.AddComponent(NewExperimentalFrame("ef", reqPeriod, obsTime))
	coupled.AddComponent(modeling.NewSimulator(NewProcessor("processor", procTime)))

	coupled.AddIC("ef", "output_req", "processor", "input_req")
	coupled.AddIC("processor", "output_res", "ef", "input_res")

	return coupled
}
