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

package types

import (
	"sort"
)

// Aspect defines the base interface for implementing Aspect-Oriented
// Programming (AOP) around the simulation loop. Aspects intercept the
// root coordinator's lifecycle without modifying model code.
//
// Aspect 定义围绕仿真循环实现面向切面编程（AOP）的基础接口。
// 切面在不修改模型代码的情况下拦截根协调器的生命周期。
//
// Aspect Categories:
// 切面类别：
//
//   - Init aspects: run once before the first simulation iteration
//     初始化切面：在第一次仿真迭代之前运行一次
//   - Iteration aspects: run before/after every collection+transition pair
//     迭代切面：在每次收集+转移对之前/之后运行
//   - Stop aspects: run once after the simulation loop terminates
//     停止切面：在仿真循环终止后运行一次
type Aspect interface {
	// Order returns the execution priority of the aspect.
	// Lower values indicate earlier execution in the aspect chain.
	// Order 返回切面的执行优先级。较小的值先执行。
	Order() int

	// New creates a new instance of the aspect for a specific root
	// coordinator, ensuring no shared mutable state between runs.
	// New 为特定的根协调器创建切面的新实例，
	// 确保各次运行之间没有共享的可变状态。
	New() Aspect
}

// InitAspect runs once after the root model is started and before the
// first iteration. Returning an error aborts the simulation.
// InitAspect 在根模型启动后、第一次迭代前运行一次。
// 返回错误会中止仿真。
type InitAspect interface {
	Aspect

	OnInit(config Config, root Simulator) error
}

// IterationAspect wraps every simulation iteration at the root.
// Before runs at the start of the iteration, once the iteration time t
// is known; After runs after the transition phase with the new tNext.
// IterationAspect 包裹根节点的每次仿真迭代。
// Before 在迭代开始、迭代时间 t 确定后运行；
// After 在转移阶段之后带着新的 tNext 运行。
type IterationAspect interface {
	Aspect

	// PointCut determines whether this aspect applies to the iteration at time t.
	// PointCut 确定此切面是否应用于时间 t 的迭代。
	PointCut(t float64) bool

	Before(root Simulator, t float64)

	After(root Simulator, t float64, tNext float64)
}

// StopAspect runs once after the simulation loop terminates.
type StopAspect interface {
	Aspect

	OnStop(root Simulator, tStop float64)
}

// AspectList is a list of aspects with helpers to extract the typed
// hook slices in execution order.
// AspectList 是切面列表，提供按执行顺序提取类型化钩子切片的辅助方法。
type AspectList []Aspect

// sorted returns a copy of the list ordered by Order().
func (list AspectList) sorted() AspectList {
	cp := append(AspectList(nil), list...)
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Order() < cp[j].Order()
	})
	return cp
}

// GetInitAspects returns the init aspects in execution order.
func (list AspectList) GetInitAspects() []InitAspect {
	var aspects []InitAspect
	for _, aspect := range list.sorted() {
		if a, ok := aspect.(InitAspect); ok {
			aspects = append(aspects, a)
		}
	}
	return aspects
}

// GetIterationAspects returns the iteration aspects in execution order.
func (list AspectList) GetIterationAspects() []IterationAspect {
	var aspects []IterationAspect
	for _, aspect := range list.sorted() {
		if a, ok := aspect.(IterationAspect); ok {
			aspects = append(aspects, a)
		}
	}
	return aspects
}

// GetStopAspects returns the stop aspects in execution order.
func (list AspectList) GetStopAspects() []StopAspect {
	var aspects []StopAspect
	for _, aspect := range list.sorted() {
		if a, ok := aspect.(StopAspect); ok {
			aspects = append(aspects, a)
		}
	}
	return aspects
}
