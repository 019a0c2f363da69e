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
	"sync"

	"github.com/bittoy/xdevs/types"
)

// Ensuring Coupled implements the types.Simulator interface.
var _ types.Simulator = (*Coupled)(nil)

// coupling is a directed edge between two compatible ports, stored as
// (dst, src) to mirror the routing call dst.Propagate(src).
// coupling 是两个兼容端口之间的有向边，按（dst, src）存储，
// 与路由调用 dst.Propagate(src) 对应。
type coupling struct {
	dst types.Port
	src types.Port
}

// Coupled is a DEVS coupled model: a component plus an ordered set of
// subcomponents and the three coupling tables (EIC, IC, EOC).
// It implements types.Simulator, orchestrating the collection and
// transition phases across its subcomponents.
//
// Coupled 是 DEVS 耦合模型：一个组件加上有序的子组件集合
// 以及三张耦合表（EIC、IC、EOC）。
// 它实现 types.Simulator，在其子组件之间编排收集和转移阶段。
type Coupled struct {
	*Component

	// compsMap maps subcomponent names to their index in components.
	compsMap map[string]int
	// components are the subcomponents, in insertion order.
	components []types.Simulator

	// Deduplication maps. Keys are destination endpoints, values are the
	// sets of source endpoints already coupled to them.
	// 去重映射。键是目标端点，值是已耦合到它们的源端点集合。
	eicMap map[string]map[string]struct{}
	icMap  map[string]map[string]struct{}
	eocMap map[string]map[string]struct{}

	// Serialized coupling tables used by the scheduler.
	// 调度器使用的序列化耦合表。
	eics []coupling
	ics  []coupling
	eocs []coupling

	// defs records every coupling in DSL form, for encoding and auditing.
	defs []types.CouplingDef

	// par selects the parallel scheduler variants.
	par types.Parallelism
	// Couplings grouped by destination port, built at Start when
	// par.Couplings is enabled. Groups can be applied in parallel;
	// couplings within one group share a destination bag and stay
	// sequential.
	// 按目标端口分组的耦合，在 par.Couplings 启用时于 Start 构建。
	// 组之间可以并行应用；同组内的耦合共享目标消息袋，保持顺序执行。
	parEICs [][]coupling
	parXXCs [][]coupling
}

// NewCoupled creates a new coupled DEVS model with the provided name.
func NewCoupled(name string) *Coupled {
	return &Coupled{
		Component: NewComponent(name),
		compsMap:  make(map[string]int),
		eicMap:    make(map[string]map[string]struct{}),
		icMap:     make(map[string]map[string]struct{}),
		eocMap:    make(map[string]map[string]struct{}),
	}
}

// SetParallelism selects the parallel scheduler variants of this coupled
// model. It must be called before Start.
// SetParallelism 选择此耦合模型的并行调度器变体。必须在 Start 之前调用。
func (c *Coupled) SetParallelism(par types.Parallelism) {
	c.par = par
}

// NComponents returns the number of subcomponents in the coupled model.
func (c *Coupled) NComponents() int {
	return len(c.components)
}

// NEICs returns the number of external input couplings in the coupled model.
func (c *Coupled) NEICs() int {
	return len(c.eics)
}

// NICs returns the number of internal couplings in the coupled model.
func (c *Coupled) NICs() int {
	return len(c.ics)
}

// NEOCs returns the number of external output couplings in the coupled model.
func (c *Coupled) NEOCs() int {
	return len(c.eocs)
}

// Components returns the subcomponents in insertion order. The returned
// slice is owned by the coupled model and must not be mutated.
func (c *Coupled) Components() []types.Simulator {
	return c.components
}

// Couplings returns every coupling of this coupled model in DSL form.
func (c *Coupled) Couplings() []types.CouplingDef {
	return c.defs
}

// GetComponent returns the subcomponent with the provided name.
func (c *Coupled) GetComponent(name string) (types.Simulator, bool) {
	i, ok := c.compsMap[name]
	if !ok {
		return nil, false
	}
	return c.components[i], true
}

// AddComponent adds a new subcomponent to the coupled model.
// It panics if there is already a subcomponent with the same name.
// AddComponent 向耦合模型添加新的子组件。
// 如果已存在同名子组件则 panic。
func (c *Coupled) AddComponent(component types.Simulator) {
	name := component.GetName()
	if _, ok := c.compsMap[name]; ok {
		panic(fmt.Sprintf("coupled model %s already contains component with name %s", c.GetName(), name))
	}
	c.compsMap[name] = len(c.components)
	c.components = append(c.components, component)
}

// addCoupling validates and records one coupling in the provided
// deduplication map. It panics on incompatible port types and on
// duplicate couplings: the topology is fixed before simulation, so both
// conditions are programmer errors.
// addCoupling 在提供的去重映射中验证并记录一条耦合。
// 端口类型不兼容或耦合重复时 panic：拓扑在仿真前已固定，
// 两种情况都属于程序员错误。
func addCoupling(dedup map[string]map[string]struct{}, dstKey, srcKey string, dst, src types.Port) coupling {
	if !src.IsCompatible(dst) {
		panic(fmt.Sprintf("ports %s and %s are incompatible", src, dst))
	}
	srcs, ok := dedup[dstKey]
	if !ok {
		srcs = make(map[string]struct{})
		dedup[dstKey] = srcs
	}
	if _, ok := srcs[srcKey]; ok {
		panic(fmt.Sprintf("coupling %s->%s is already defined", srcKey, dstKey))
	}
	srcs[srcKey] = struct{}{}
	return coupling{dst: dst, src: src}
}

// AddEIC adds a new external input coupling to the model.
// You must provide the input port name of the coupled model, the
// receiving subcomponent name, and its input port name. This method
// panics if any endpoint is unknown, if the ports are incompatible, or
// if the coupling already exists.
// AddEIC 向模型添加新的外部输入耦合。
// 需要提供耦合模型的输入端口名、接收子组件名及其输入端口名。
// 端点未知、端口不兼容或耦合已存在时 panic。
func (c *Coupled) AddEIC(portFrom, componentTo, portTo string) {
	src, ok := c.Component.GetInPort(portFrom)
	if !ok {
		panic(fmt.Sprintf("coupled model %s has no input port %s", c.GetName(), portFrom))
	}
	comp, ok := c.GetComponent(componentTo)
	if !ok {
		panic(fmt.Sprintf("coupled model %s has no component %s", c.GetName(), componentTo))
	}
	dst, ok := comp.GetInPort(portTo)
	if !ok {
		panic(fmt.Sprintf("component %s has no input port %s", componentTo, portTo))
	}
	cp := addCoupling(c.eicMap, componentTo+"-"+portTo, portFrom, dst, src)
	c.eics = append(c.eics, cp)
	c.defs = append(c.defs, types.CouplingDef{
		Type: types.CouplingTypeEIC, FromPort: portFrom, ToId: componentTo, ToPort: portTo,
	})
}

// AddIC adds a new internal coupling to the model.
// You must provide the sending subcomponent name, its output port name,
// the receiving subcomponent name, and its input port name. This method
// panics if any endpoint is unknown, if the ports are incompatible, or
// if the coupling already exists.
// AddIC 向模型添加新的内部耦合。
// 需要提供发送子组件名、其输出端口名、接收子组件名及其输入端口名。
// 端点未知、端口不兼容或耦合已存在时 panic。
func (c *Coupled) AddIC(componentFrom, portFrom, componentTo, portTo string) {
	compFrom, ok := c.GetComponent(componentFrom)
	if !ok {
		panic(fmt.Sprintf("coupled model %s has no component %s", c.GetName(), componentFrom))
	}
	src, ok := compFrom.GetOutPort(portFrom)
	if !ok {
		panic(fmt.Sprintf("component %s has no output port %s", componentFrom, portFrom))
	}
	compTo, ok := c.GetComponent(componentTo)
	if !ok {
		panic(fmt.Sprintf("coupled model %s has no component %s", c.GetName(), componentTo))
	}
	dst, ok := compTo.GetInPort(portTo)
	if !ok {
		panic(fmt.Sprintf("component %s has no input port %s", componentTo, portTo))
	}
	cp := addCoupling(c.icMap, componentTo+"-"+portTo, componentFrom+"-"+portFrom, dst, src)
	c.ics = append(c.ics, cp)
	c.defs = append(c.defs, types.CouplingDef{
		Type: types.CouplingTypeIC, FromId: componentFrom, FromPort: portFrom, ToId: componentTo, ToPort: portTo,
	})
}

// AddEOC adds a new external output coupling to the model.
// You must provide the sending subcomponent name, its output port name,
// and the output port name of the coupled model. This method panics if
// any endpoint is unknown, if the ports are incompatible, or if the
// coupling already exists.
// AddEOC 向模型添加新的外部输出耦合。
// 需要提供发送子组件名、其输出端口名以及耦合模型的输出端口名。
// 端点未知、端口不兼容或耦合已存在时 panic。
func (c *Coupled) AddEOC(componentFrom, portFrom, portTo string) {
	compFrom, ok := c.GetComponent(componentFrom)
	if !ok {
		panic(fmt.Sprintf("coupled model %s has no component %s", c.GetName(), componentFrom))
	}
	src, ok := compFrom.GetOutPort(portFrom)
	if !ok {
		panic(fmt.Sprintf("component %s has no output port %s", componentFrom, portFrom))
	}
	dst, ok := c.Component.GetOutPort(portTo)
	if !ok {
		panic(fmt.Sprintf("coupled model %s has no output port %s", c.GetName(), portTo))
	}
	cp := addCoupling(c.eocMap, portTo, componentFrom+"-"+portFrom, dst, src)
	c.eocs = append(c.eocs, cp)
	c.defs = append(c.defs, types.CouplingDef{
		Type: types.CouplingTypeEOC, FromId: componentFrom, FromPort: portFrom, ToPort: portTo,
	})
}

// eachComponent applies f to every subcomponent, in parallel when the
// corresponding axis is enabled. Sibling parallelism is safe because
// destination bags for EICs and ICs are written by this coupled model in
// its own sub-phase, never by siblings, and atomics only write their own
// outputs.
// eachComponent 将 f 应用于每个子组件，在对应轴启用时并行执行。
// 兄弟并行是安全的，因为 EIC 和 IC 的目标消息袋由本耦合模型在
// 自己的子阶段写入，绝不由兄弟写入，而原子模型只写自己的输出。
func (c *Coupled) eachComponent(parallel bool, f func(s types.Simulator)) {
	if !parallel || len(c.components) < 2 {
		for _, s := range c.components {
			f(s)
		}
		return
	}
	var wg sync.WaitGroup
	for _, s := range c.components {
		wg.Add(1)
		go func(s types.Simulator) {
			defer wg.Done()
			f(s)
		}(s)
	}
	wg.Wait()
}

// minTNext applies f to every subcomponent and returns the minimum of
// the returned times, Infinity for an empty coupled model. The minimum
// over a fixed finite set does not depend on iteration order, so the
// parallel variant yields the same result as the sequential one.
func (c *Coupled) minTNext(parallel bool, f func(s types.Simulator) float64) float64 {
	results := make([]float64, len(c.components))
	if !parallel || len(c.components) < 2 {
		for i, s := range c.components {
			results[i] = f(s)
		}
	} else {
		var wg sync.WaitGroup
		for i, s := range c.components {
			wg.Add(1)
			go func(i int, s types.Simulator) {
				defer wg.Done()
				results[i] = f(s)
			}(i, s)
		}
		wg.Wait()
	}
	tNext := types.Infinity
	for _, t := range results {
		if t < tNext {
			tNext = t
		}
	}
	return tNext
}

// route applies the couplings sequentially: dst.Propagate(src).
func route(couplings []coupling) {
	for _, cp := range couplings {
		cp.dst.Propagate(cp.src)
	}
}

// routeGroups applies the coupling groups in parallel. Couplings within
// one group target the same destination bag and are applied sequentially.
func routeGroups(groups [][]coupling) {
	if len(groups) < 2 {
		for _, group := range groups {
			route(group)
		}
		return
	}
	var wg sync.WaitGroup
	for _, group := range groups {
		wg.Add(1)
		go func(group []coupling) {
			defer wg.Done()
			route(group)
		}(group)
	}
	wg.Wait()
}

// groupByDst buckets couplings by destination port, preserving the
// relative order of couplings that share one destination.
func groupByDst(couplings []coupling) [][]coupling {
	index := make(map[types.Port]int)
	var groups [][]coupling
	for _, cp := range couplings {
		i, ok := index[cp.dst]
		if !ok {
			i = len(groups)
			index[cp.dst] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], cp)
	}
	return groups
}

// Start iterates over all the subcomponents to call their Start method
// and sets this model's schedule to the minimum returned tNext.
// When coupling-routing parallelism is enabled, it also builds the
// destination-port groups. This is a one-time cost.
// Start 遍历所有子组件调用它们的 Start 方法，
// 并将本模型的调度设置为返回的最小 tNext。
// 启用耦合路由并行时还会构建目标端口分组，这是一次性开销。
func (c *Coupled) Start(tStart float64) float64 {
	tNext := c.minTNext(c.par.Start, func(s types.Simulator) float64 {
		return s.Start(tStart)
	})
	c.SetSimT(tStart, tNext)

	if c.par.Couplings {
		c.parEICs = groupByDst(c.eics)
		xxcs := make([]coupling, 0, len(c.eocs)+len(c.ics))
		xxcs = append(xxcs, c.eocs...)
		xxcs = append(xxcs, c.ics...)
		c.parXXCs = groupByDst(xxcs)
	}

	return tNext
}

// Stop iterates over all the subcomponents to call their Stop method and
// deactivates this model's schedule.
func (c *Coupled) Stop(tStop float64) {
	c.eachComponent(c.par.Stop, func(s types.Simulator) {
		s.Stop(tStop)
	})
	c.SetSimT(tStop, types.Infinity)
}

// Collection runs the output phase of the coupled model when t >= tNext:
// it recurses into the subcomponents so that imminent atomics emit their
// outputs, then routes the EOCs and ICs. When t < tNext it is a no-op.
// Collection 在 t >= tNext 时运行耦合模型的输出阶段：
// 先递归进入子组件让到期的原子模型发射输出，然后路由 EOC 和 IC。
// 当 t < tNext 时为空操作。
func (c *Coupled) Collection(t float64) {
	if t < c.GetTNext() {
		return
	}
	c.eachComponent(c.par.Collection, func(s types.Simulator) {
		s.Collection(t)
	})
	if c.par.Couplings {
		routeGroups(c.parXXCs)
	} else {
		route(c.eocs)
		route(c.ics)
	}
}

// Transition runs the transition phase of the coupled model:
//  1. If this model received external input, route the EICs so the
//     messages reach the subcomponents, then clear the own input bags.
//  2. If the time has come for an internal event, clear the own output
//     bags: they were produced during collection and have already been
//     routed and consumed.
//  3. If either condition held, recurse into the subcomponents and set
//     the schedule to the minimum returned tNext.
//
// Transition 运行耦合模型的转移阶段：
//  1. 若本模型收到外部输入，先路由 EIC 使消息到达子组件，然后清空自身输入袋。
//  2. 若内部事件时间已到，清空自身输出袋：它们在收集阶段产生，且已被路由和消费。
//  3. 若任一条件成立，递归进入子组件并将调度设置为返回的最小 tNext。
func (c *Coupled) Transition(t float64) float64 {
	isExternal := !c.IsInputEmpty()
	if isExternal {
		if c.par.Couplings {
			routeGroups(c.parEICs)
		} else {
			route(c.eics)
		}
		c.ClearInput()
	}
	isInternal := t >= c.GetTNext()
	if isInternal {
		c.ClearOutput()
	}
	if isExternal || isInternal {
		tNext := c.minTNext(c.par.Transition, func(s types.Simulator) float64 {
			return s.Transition(t)
		})
		c.SetSimT(t, tNext)
	}
	return c.GetTNext()
}
