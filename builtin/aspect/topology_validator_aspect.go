/*
 * Copyright 2023 The RuleGo Authors.
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

// Package aspect provides the built-in aspects applied around the
// simulation loop: topology auditing, metrics, and debug logging.
package aspect

import (
	"fmt"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
)

var (
	// Compile-time check TopologyValidator implements types.InitAspect.
	_ types.InitAspect = (*TopologyValidator)(nil)
)

// TopologyValidator audits the started model hierarchy before the first
// iteration. It verifies that every coupled model's schedule equals the
// minimum schedule of its subcomponents, gathers structure statistics,
// and reports feedback loops in the internal coupling graphs. Feedback
// loops are legal in DEVS (the GPT family has one); they are logged, not
// rejected.
//
// TopologyValidator 在第一次迭代之前审计已启动的模型层次。
// 它验证每个耦合模型的调度等于其子组件调度的最小值，收集结构统计，
// 并报告内部耦合图中的反馈环。反馈环在 DEVS 中是合法的
// （GPT 模型族就有一个）；只记录，不拒绝。
type TopologyValidator struct {
}

// Order returns the execution order of this aspect.
func (aspect *TopologyValidator) Order() int {
	return 10
}

// New creates a new instance of the TopologyValidator aspect.
func (aspect *TopologyValidator) New() types.Aspect {
	return &TopologyValidator{}
}

// Type returns the unique identifier for this aspect type.
func (aspect *TopologyValidator) Type() string {
	return "topologyValidator"
}

// OnInit walks the hierarchy rooted at the started model.
func (aspect *TopologyValidator) OnInit(config types.Config, root types.Simulator) error {
	coupled, ok := root.(*modeling.Coupled)
	if !ok {
		// A bare atomic has no topology to audit.
		return nil
	}
	var nCoupled, nAtomics, nCouplings int
	if err := aspect.validate(config, coupled, &nCoupled, &nAtomics, &nCouplings); err != nil {
		return err
	}
	config.Logger.Printf("topology of %s: %d coupled, %d leaves, %d couplings",
		root.GetName(), nCoupled, nAtomics, nCouplings)
	return nil
}

func (aspect *TopologyValidator) validate(config types.Config, coupled *modeling.Coupled, nCoupled, nAtomics, nCouplings *int) error {
	*nCoupled++
	*nCouplings += coupled.NEICs() + coupled.NICs() + coupled.NEOCs()

	// The coupled schedule must equal the minimum subcomponent schedule.
	// 耦合模型的调度必须等于子组件调度的最小值。
	tNext := types.Infinity
	for _, sub := range coupled.Components() {
		if sub.GetTNext() < tNext {
			tNext = sub.GetTNext()
		}
	}
	if coupled.GetTNext() != tNext {
		return fmt.Errorf("coupled model %s schedules t=%v but its subcomponents schedule t=%v",
			coupled.GetName(), coupled.GetTNext(), tNext)
	}

	if cycle := findICCycle(coupled); cycle != nil {
		config.Logger.Printf("coupled model %s has a feedback loop: %v", coupled.GetName(), cycle)
	}

	for _, sub := range coupled.Components() {
		if subCoupled, ok := sub.(*modeling.Coupled); ok {
			if err := aspect.validate(config, subCoupled, nCoupled, nAtomics, nCouplings); err != nil {
				return err
			}
		} else {
			*nAtomics++
		}
	}
	return nil
}

// findICCycle runs a depth-first search over the component-level internal
// coupling graph and returns one cycle path, or nil when the graph is acyclic.
func findICCycle(coupled *modeling.Coupled) []string {
	// 创建邻接表
	graph := map[string][]string{}
	for _, def := range coupled.Couplings() {
		if def.Type != types.CouplingTypeIC {
			continue
		}
		graph[def.FromId] = append(graph[def.FromId], def.ToId)
	}

	visited := map[string]bool{}
	stack := map[string]bool{}
	var path []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		if stack[node] {
			path = append(path, node)
			return true
		}
		if visited[node] {
			return false
		}

		visited[node] = true
		stack[node] = true
		path = append(path, node)

		for _, next := range graph[node] {
			if dfs(next) {
				return true
			}
		}

		stack[node] = false
		path = path[:len(path)-1]
		return false
	}

	for node := range graph {
		if !visited[node] {
			if dfs(node) {
				return path
			}
		}
	}
	return nil
}
