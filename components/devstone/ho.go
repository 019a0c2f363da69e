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

// NewHO builds the HO (high output couplings) benchmark: every level has
// two inputs and two outputs, and every parallel atomic forwards its
// output both along the row chain and to the second parent output.
// NewHO 构建 HO（高输出耦合）基准：每层有两个输入和两个输出，
// 每个并行原子模型的输出既沿行链转发，也送往第二个父输出。
func NewHO(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	coupled := modeling.NewCoupled("HO")
	ho := newHOLevel(width, depth, intDelay, extDelay, probe)
	coupled.AddComponent(modeling.NewSimulator(newDevStoneSeeder("seeder")))
	coupled.AddComponent(ho)
	coupled.AddIC("seeder", "output", ho.GetName(), "input_1")
	coupled.AddIC("seeder", "output", ho.GetName(), "input_2")
	return coupled
}

func newHOLevel(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	checkParams(width, depth)
	coupled := modeling.NewCoupled(fmt.Sprintf("coupled_%d", depth))
	modeling.AddInPort[int](coupled.Component, "input_1")
	modeling.AddInPort[int](coupled.Component, "input_2")
	modeling.AddOutPort[int](coupled.Component, "output_1")
	modeling.AddOutPort[int](coupled.Component, "output_2")
	if depth == 1 {
		coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic("inner_atomic", intDelay, extDelay, probe)))
		coupled.AddEIC("input_1", "inner_atomic", "input")
		coupled.AddEOC("inner_atomic", "output", "output_1")
	} else {
		subcoupled := newHOLevel(width, depth-1, intDelay, extDelay, probe)
		coupled.AddComponent(subcoupled)
		coupled.AddEIC("input_1", subcoupled.GetName(), "input_1")
		coupled.AddEIC("input_1", subcoupled.GetName(), "input_2")
		coupled.AddEOC(subcoupled.GetName(), "output_1", "output_1")
		for i := 1; i < width; i++ {
			atomicName := fmt.Sprintf("atomic_%d", i)
			coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic(atomicName, intDelay, extDelay, probe)))
			coupled.AddEIC("input_2", atomicName, "input")
			if i > 1 {
				coupled.AddIC(fmt.Sprintf("atomic_%d", i-1), "output", atomicName, "input")
			}
			coupled.AddEOC(atomicName, "output", "output_2")
		}
	}
	probe.addStructure(coupled)
	return coupled
}
