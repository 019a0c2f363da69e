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

package devstone

import (
	"fmt"

	"github.com/bittoy/xdevs/modeling"
)

// NewLI builds the LI (low interconnections) benchmark: a chain of
// nested coupled models, each holding one inner coupled (or the single
// innermost atomic) plus width-1 parallel atomics fed only by EICs from
// the parent input. A seeder at the top fires the single initial event.
// NewLI 构建 LI（低互连）基准：一串嵌套的耦合模型，
// 每层包含一个内部耦合（或最内层的单个原子模型）以及 width-1 个
// 仅由父输入 EIC 馈送的并行原子模型。顶部的种子器发射唯一的初始事件。
func NewLI(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	coupled := modeling.NewCoupled("LI")
	li := newLILevel(width, depth, intDelay, extDelay, probe)
	coupled.AddComponent(modeling.NewSimulator(newDevStoneSeeder("seeder")))
	coupled.AddComponent(li)
	coupled.AddIC("seeder", "output", li.GetName(), "input")
	return coupled
}

func newLILevel(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	checkParams(width, depth)
	coupled := modeling.NewCoupled(fmt.Sprintf("coupled_%d", depth))
	modeling.AddInPort[int](coupled.Component, "input")
	modeling.AddOutPort[int](coupled.Component, "output")
	if depth == 1 {
		// Innermost level: a single atomic.
		coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic("inner_atomic", intDelay, extDelay, probe)))
		coupled.AddEIC("input", "inner_atomic", "input")
		coupled.AddEOC("inner_atomic", "output", "output")
	} else {
		subcoupled := newLILevel(width, depth-1, intDelay, extDelay, probe)
		coupled.AddComponent(subcoupled)
		coupled.AddEIC("input", subcoupled.GetName(), "input")
		coupled.AddEOC(subcoupled.GetName(), "output", "output")
		for i := 1; i < width; i++ {
			atomicName := fmt.Sprintf("atomic_%d", i)
			coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic(atomicName, intDelay, extDelay, probe)))
			coupled.AddEIC("input", atomicName, "input")
		}
	}
	probe.addStructure(coupled)
	return coupled
}
