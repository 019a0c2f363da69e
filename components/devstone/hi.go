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

// NewHI builds the HI (high input couplings) benchmark: like LI, but the
// width-1 parallel atomics of every level additionally form a chain of
// internal couplings, so each received event cascades along the row.
// NewHI 构建 HI（高输入耦合）基准：与 LI 类似，但每层的 width-1 个
// 并行原子模型额外组成一条内部耦合链，使每个收到的事件沿行级联。
func NewHI(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	coupled := modeling.NewCoupled("HI")
	hi := newHILevel(width, depth, intDelay, extDelay, probe)
	coupled.AddComponent(modeling.NewSimulator(newDevStoneSeeder("seeder")))
	coupled.AddComponent(hi)
	coupled.AddIC("seeder", "output", hi.GetName(), "input")
	return coupled
}

func newHILevel(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	checkParams(width, depth)
	coupled := modeling.NewCoupled(fmt.Sprintf("coupled_%d", depth))
	modeling.AddInPort[int](coupled.Component, "input")
	modeling.AddOutPort[int](coupled.Component, "output")
	if depth == 1 {
		coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic("inner_atomic", intDelay, extDelay, probe)))
		coupled.AddEIC("input", "inner_atomic", "input")
		coupled.AddEOC("inner_atomic", "output", "output")
	} else {
		subcoupled := newHILevel(width, depth-1, intDelay, extDelay, probe)
		coupled.AddComponent(subcoupled)
		coupled.AddEIC("input", subcoupled.GetName(), "input")
		coupled.AddEOC(subcoupled.GetName(), "output", "output")
		for i := 1; i < width; i++ {
			atomicName := fmt.Sprintf("atomic_%d", i)
			coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic(atomicName, intDelay, extDelay, probe)))
			coupled.AddEIC("input", atomicName, "input")
			if i > 1 {
				coupled.AddIC(fmt.Sprintf("atomic_%d", i-1), "output", atomicName, "input")
			}
		}
	}
	probe.addStructure(coupled)
	return coupled
}
