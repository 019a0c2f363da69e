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

// Component is the shared substrate of atomic and coupled models:
// a name, the input/output port directories, and the two scheduling
// timestamps tLast and tNext.
//
// Component 是原子模型和耦合模型的共享基底：
// 名称、输入/输出端口目录以及两个调度时间戳 tLast 和 tNext。
//
// Models embed a *Component, which makes them satisfy
// types.ComponentHandle through method promotion.
// 模型通过嵌入 *Component 经由方法提升满足 types.ComponentHandle。
type Component struct {
	// name of the DEVS component, unique within its parent.
	name string
	// tLast is the time of the most recent state transition.
	tLast float64
	// tNext is the time of the next scheduled internal event.
	tNext float64
	// inMap maps input port names to their index in inPorts.
	inMap map[string]int
	// outMap maps output port names to their index in outPorts.
	outMap map[string]int
	// inPorts is the serialized input port set. Iterating a slice is
	// faster than iterating map values.
	// inPorts 是序列化的输入端口集。遍历切片比遍历映射值更快。
	inPorts []types.Port
	// outPorts is the serialized output port set.
	outPorts []types.Port
}

// NewComponent creates a new component with the provided name.
// Initially tLast = 0 and tNext = Infinity.
func NewComponent(name string) *Component {
	return &Component{
		name:   name,
		tLast:  0,
		tNext:  types.Infinity,
		inMap:  make(map[string]int),
		outMap: make(map[string]int),
	}
}

// GetName returns the name of the component.
func (c *Component) GetName() string {
	return c.name
}

// GetTLast returns the time of the last component state transition.
func (c *Component) GetTLast() float64 {
	return c.tLast
}

// GetTNext returns the time of the next component state transition.
func (c *Component) GetTNext() float64 {
	return c.tNext
}

// SetSimT sets the times of the last and next component state transitions.
func (c *Component) SetSimT(tLast, tNext float64) {
	c.tLast = tLast
	c.tNext = tNext
}

// AddInPort adds a new input port of type T to the component and returns
// its read handle. It panics if there is already an input port with the
// same name: the topology is fixed before the simulation starts, so a
// duplicate name is a programmer error.
// AddInPort 向组件添加类型为 T 的新输入端口并返回其读句柄。
// 如果已存在同名输入端口则 panic：拓扑在仿真开始前就已固定，
// 重复名称属于程序员错误。
func AddInPort[T any](c *Component, name string) InPort[T] {
	if _, ok := c.inMap[name]; ok {
		panic(fmt.Sprintf("component %s already contains input port with name %s", c.name, name))
	}
	p := newPort[T](name)
	c.inMap[name] = len(c.inPorts)
	c.inPorts = append(c.inPorts, p)
	return InPort[T]{p: p}
}

// AddOutPort adds a new output port of type T to the component and
// returns its write handle. It panics if there is already an output port
// with the same name.
// AddOutPort 向组件添加类型为 T 的新输出端口并返回其写句柄。
// 如果已存在同名输出端口则 panic。
func AddOutPort[T any](c *Component, name string) OutPort[T] {
	if _, ok := c.outMap[name]; ok {
		panic(fmt.Sprintf("component %s already contains output port with name %s", c.name, name))
	}
	p := newPort[T](name)
	c.outMap[name] = len(c.outPorts)
	c.outPorts = append(c.outPorts, p)
	return OutPort[T]{p: p}
}

// GetInPort returns the input port with the given name.
func (c *Component) GetInPort(name string) (types.Port, bool) {
	i, ok := c.inMap[name]
	if !ok {
		return nil, false
	}
	return c.inPorts[i], true
}

// GetOutPort returns the output port with the given name.
func (c *Component) GetOutPort(name string) (types.Port, bool) {
	i, ok := c.outMap[name]
	if !ok {
		return nil, false
	}
	return c.outPorts[i], true
}

// IsInputEmpty reports whether all input ports of the component are empty.
// Only the scheduler may call it, while deciding the transition kind.
func (c *Component) IsInputEmpty() bool {
	for _, p := range c.inPorts {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

// ClearInput empties all input ports of the component. Scheduler only.
func (c *Component) ClearInput() {
	for _, p := range c.inPorts {
		p.Clear()
	}
}

// ClearOutput empties all output ports of the component. Scheduler only.
func (c *Component) ClearOutput() {
	for _, p := range c.outPorts {
		p.Clear()
	}
}

// Inject parses the event's textual value into the element type of the
// targeted input port and appends it. It returns types.ErrUnknownPort if
// the port does not exist and types.ErrValueParse if the payload cannot
// be decoded. Used by real-time input handlers between iterations.
// Inject 将事件的文本值解析为目标输入端口的元素类型并追加。
// 端口不存在时返回 types.ErrUnknownPort，负载无法解码时返回
// types.ErrValueParse。由实时输入处理器在迭代之间使用。
func (c *Component) Inject(event types.Event) error {
	p, ok := c.GetInPort(event.Port())
	if !ok {
		return fmt.Errorf("%w: component %s has no input port %s", types.ErrUnknownPort, c.name, event.Port())
	}
	return p.Inject(event.Value())
}

// Eject renders the current contents of all non-empty output ports as
// (port, value) events. Used by real-time output handlers right after a
// collection phase, before the transition clears the bags.
// Eject 将所有非空输出端口的当前内容渲染为（端口，值）事件。
// 由实时输出处理器在收集阶段之后、转移清空消息袋之前使用。
func (c *Component) Eject() []types.Event {
	var events []types.Event
	for _, p := range c.outPorts {
		if p.IsEmpty() {
			continue
		}
		for _, value := range p.Eject() {
			events = append(events, types.NewEvent(p.GetName(), value))
		}
	}
	return events
}

func (c *Component) String() string {
	return c.name
}
