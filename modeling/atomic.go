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

package modeling

import (
	"fmt"

	"github.com/bittoy/xdevs/types"
)

// Ensuring atomicSimulator implements the types.Simulator interface.
var _ types.Simulator = (*atomicSimulator)(nil)

// atomicSimulator adapts a types.Atomic behavior into a types.Simulator,
// adding the per-leaf scheduling bookkeeping: when to call Lambda, which
// transition function to execute, and when to clear the port bags.
//
// atomicSimulator 将 types.Atomic 行为适配为 types.Simulator，
// 添加每个叶子的调度记账：何时调用 Lambda、执行哪个转移函数，
// 以及何时清空端口消息袋。
type atomicSimulator struct {
	types.Atomic
}

// NewSimulator wraps an atomic model into a simulator so it can be
// placed in a coupled model or driven directly by a root coordinator.
// NewSimulator 将原子模型包装为仿真器，
// 使其可以放入耦合模型或由根协调器直接驱动。
func NewSimulator(model types.Atomic) types.Simulator {
	return &atomicSimulator{Atomic: model}
}

// timeAdvance queries the model's Ta and rejects negative values:
// a negative time advance would move simulated time backwards, which is
// a programmer error in the model.
func (s *atomicSimulator) timeAdvance() float64 {
	ta := s.Ta()
	if ta < 0 {
		panic(fmt.Sprintf("model %s returned negative time advance %v", s.GetName(), ta))
	}
	return ta
}

// Start initializes the model: tNext = tStart + ta().
func (s *atomicSimulator) Start(tStart float64) float64 {
	if h, ok := s.Atomic.(types.StartHandler); ok {
		h.OnStart()
	}
	tNext := tStart + s.timeAdvance()
	s.SetSimT(tStart, tNext)
	return tNext
}

// Stop finalizes the model: tLast = tStop, tNext = Infinity.
func (s *atomicSimulator) Stop(tStop float64) {
	s.SetSimT(tStop, types.Infinity)
	if h, ok := s.Atomic.(types.StopHandler); ok {
		h.OnStop()
	}
}

// Collection calls the output function when the internal event is due.
func (s *atomicSimulator) Collection(t float64) {
	if t >= s.GetTNext() {
		s.Lambda()
	}
}

// deltaConf executes the confluent transition: the model's own DeltaConf
// when it provides one, otherwise DeltaInt followed by DeltaExt(0).
// The input bag is cleared exactly once, after deltaConf returns.
// deltaConf 执行合流转移：模型自带 DeltaConf 时使用之，
// 否则先 DeltaInt 再 DeltaExt(0)。输入袋在 deltaConf 返回后清空且仅清空一次。
func (s *atomicSimulator) deltaConf() {
	if conf, ok := s.Atomic.(types.Confluent); ok {
		conf.DeltaConf()
		return
	}
	s.DeltaInt()
	s.DeltaExt(0)
}

// Transition selects and executes the model's transition function:
//   - input present and t == tNext: confluent transition, then the
//     output bags (already routed during collection) and input bags are
//     cleared.
//   - input present and t < tNext: external transition with elapsed time
//     e = t - tLast, then the input bags are cleared.
//   - no input and t == tNext: internal transition, then the output bags
//     are cleared.
//   - otherwise: nothing happened at this node; tNext is returned unchanged.
//
// After any executed transition, tLast = t and tNext = t + ta().
func (s *atomicSimulator) Transition(t float64) float64 {
	tNext := s.GetTNext()
	if !s.IsInputEmpty() {
		if t == tNext {
			s.deltaConf()
			s.ClearOutput()
		} else {
			s.DeltaExt(t - s.GetTLast())
		}
		s.ClearInput()
	} else if t == tNext {
		s.DeltaInt()
		s.ClearOutput()
	} else {
		return tNext
	}
	tNext = t + s.timeAdvance()
	s.SetSimT(t, tNext)
	return tNext
}
