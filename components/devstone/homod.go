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

// NewHOmod builds the HOmod benchmark: every level carries a triangular
// arrangement of atomic rows. The first row feeds the nested coupled's
// second input; each further row feeds the row above it, so the number
// of exchanged messages grows steeply with the width.
// NewHOmod 构建 HOmod 基准：每层携带三角形排列的原子模型行。
// 第一行馈送嵌套耦合的第二输入；之后的每行馈送其上一行，
// 因此交换的消息数量随宽度急剧增长。
func NewHOmod(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	coupled := modeling.NewCoupled("HOmod")
	homod := newHOmodLevel(width, depth, intDelay, extDelay, probe)
	coupled.AddComponent(modeling.NewSimulator(newDevStoneSeeder("seeder")))
	coupled.AddComponent(homod)
	coupled.AddIC("seeder", "output", homod.GetName(), "input_1")
	coupled.AddIC("seeder", "output", homod.GetName(), "input_2")
	return coupled
}

func newHOmodLevel(width, depth int, intDelay, extDelay uint, probe *Probe) *modeling.Coupled {
	checkParams(width, depth)
	coupled := modeling.NewCoupled(fmt.Sprintf("coupled_%d", depth))
	modeling.AddInPort[int](coupled.Component, "input_1")
	modeling.AddInPort[int](coupled.Component, "input_2")
	modeling.AddOutPort[int](coupled.Component, "output")
	if depth == 1 {
		coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic("inner_atomic", intDelay, extDelay, probe)))
		coupled.AddEIC("input_1", "inner_atomic", "input")
		coupled.AddEOC("inner_atomic", "output", "output")
	} else {
		subcoupled := newHOmodLevel(width, depth-1, intDelay, extDelay, probe)
		coupled.AddComponent(subcoupled)
		coupled.AddEIC("input_1", subcoupled.GetName(), "input_1")
		coupled.AddEOC(subcoupled.GetName(), "output", "output")

		addAtomic := func(name string) {
			coupled.AddComponent(modeling.NewSimulator(newDevStoneAtomic(name, intDelay, extDelay, probe)))
		}

		// First row feeds the nested coupled's second input.
		// 第一行馈送嵌套耦合的第二输入。
		var prevRow []string
		for i := 1; i < width; i++ {
			atomicName := fmt.Sprintf("atomic(1,%d)", i)
			prevRow = append(prevRow, atomicName)
			addAtomic(atomicName)
			coupled.AddEIC("input_2", atomicName, "input")
			coupled.AddIC(atomicName, "output", subcoupled.GetName(), "input_2")
		}
		// Second row feeds every atomic of the first row.
		// 第二行馈送第一行的每个原子模型。
		var currentRow []string
		for i := 1; i < width; i++ {
			atomicName := fmt.Sprintf("atomic(2,%d)", i)
			currentRow = append(currentRow, atomicName)
			addAtomic(atomicName)
			if i == 1 {
				coupled.AddEIC("input_2", atomicName, "input")
			}
			for _, prevName := range prevRow {
				coupled.AddIC(atomicName, "output", prevName, "input")
			}
		}
		// Remaining rows shrink by one atomic each and feed the row above.
		// 其余各行每行减少一个原子模型，并馈送其上一行。
		for layer := 3; layer <= width; layer++ {
			prevRow = currentRow
			currentRow = nil
			for i := 1; i < len(prevRow); i++ {
				atomicName := fmt.Sprintf("atomic(%d,%d)", layer, i)
				currentRow = append(currentRow, atomicName)
				addAtomic(atomicName)
				if i == 1 {
					coupled.AddEIC("input_2", atomicName, "input")
				}
				coupled.AddIC(atomicName, "output", prevRow[i], "input")
			}
		}
	}
	probe.addStructure(coupled)
	return coupled
}
