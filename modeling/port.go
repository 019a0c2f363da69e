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

// Package modeling provides the DEVS modeling layer: typed ports with
// message bags, components with port directories and scheduling
// timestamps, coupled containers with coupling tables, and the
// atomic-to-simulator adapter.
// 包 modeling 提供 DEVS 建模层：带消息袋的类型化端口、
// 带端口目录和调度时间戳的组件、带耦合表的耦合容器，
// 以及原子模型到仿真器的适配器。
package modeling

import (
	"fmt"
	"sync"

	"github.com/bittoy/xdevs/types"
	"github.com/bittoy/xdevs/utils/json"
)

// port is the shared message bag underlying one typed port.
// The bag is guarded by a read-write mutex so that the parallel
// scheduler variants can share it between goroutines; the phase
// discipline guarantees that readers and writers never overlap within
// one phase.
//
// port 是一个类型化端口底层的共享消息袋。
// 消息袋由读写互斥锁保护，使并行调度器变体可以在 goroutine 间共享它；
// 阶段纪律保证读者和写者在同一阶段内不会重叠。
type port[T any] struct {
	name string
	mu   sync.RWMutex
	bag  []T
}

func newPort[T any](name string) *port[T] {
	return &port[T]{name: name}
}

// GetName returns the name of the port.
func (p *port[T]) GetName() string {
	return p.name
}

// IsEmpty checks if the message bag of the port is empty.
func (p *port[T]) IsEmpty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.bag) == 0
}

// Len returns the number of messages in the bag of the port.
func (p *port[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.bag)
}

// Clear empties the message bag.
func (p *port[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bag = p.bag[:0]
}

// IsCompatible reports whether other is a port with the same element type.
func (p *port[T]) IsCompatible(other types.Port) bool {
	_, ok := other.(*port[T])
	return ok
}

// Propagate appends the contents of src into the bag.
// It panics if src carries a different element type: coupling tables
// validate compatibility once, at construction, so reaching this panic
// means the topology was corrupted.
// Propagate 将 src 的内容追加到消息袋中。
// 如果 src 承载不同的元素类型则 panic：耦合表在构建时已验证过兼容性，
// 触发此 panic 意味着拓扑已被破坏。
func (p *port[T]) Propagate(src types.Port) {
	from, ok := src.(*port[T])
	if !ok {
		panic(fmt.Sprintf("port %s is incompatible with port %s", src, p))
	}
	from.mu.RLock()
	values := append([]T(nil), from.bag...)
	from.mu.RUnlock()

	p.mu.Lock()
	p.bag = append(p.bag, values...)
	p.mu.Unlock()
}

// Inject parses a textual value into the port's element type and appends it.
// The textual form is JSON, which covers scalars ("5", "true") as well as
// structured message types.
func (p *port[T]) Inject(value string) error {
	var v T
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return fmt.Errorf("%w: port %s: %s", types.ErrValueParse, p.name, err)
	}
	p.mu.Lock()
	p.bag = append(p.bag, v)
	p.mu.Unlock()
	return nil
}

// Eject renders the bag contents as textual values, in bag order.
func (p *port[T]) Eject() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	values := make([]string, 0, len(p.bag))
	for _, v := range p.bag {
		data, err := json.Marshal(v)
		if err != nil {
			data = []byte(fmt.Sprintf("%v", v))
		}
		values = append(values, string(data))
	}
	return values
}

func (p *port[T]) String() string {
	var zero T
	return fmt.Sprintf("%s<%T>", p.name, zero)
}

// InPort is the handle an atomic model holds over one of its input
// ports. It only allows reading the bag, which the model may do inside
// its external or confluent transition.
// InPort 是原子模型持有的输入端口句柄。
// 它只允许读取消息袋，模型只能在外部或合流转移中读取。
type InPort[T any] struct {
	p *port[T]
}

// IsEmpty checks if the message bag of the port is empty.
func (ip InPort[T]) IsEmpty() bool {
	return ip.p.IsEmpty()
}

// Len returns the number of messages currently in the bag.
func (ip InPort[T]) Len() int {
	return ip.p.Len()
}

// GetValues returns the message bag of the port. The returned slice is
// owned by the port and must not be mutated or retained past the
// transition that reads it.
// GetValues 返回端口的消息袋。返回的切片属于端口，
// 不得修改，也不得在读取它的转移结束后继续持有。
func (ip InPort[T]) GetValues() []T {
	ip.p.mu.RLock()
	defer ip.p.mu.RUnlock()
	return ip.p.bag
}

// OutPort is the handle an atomic model holds over one of its output
// ports. It only allows appending, which the model may do inside its
// output function.
// OutPort 是原子模型持有的输出端口句柄。
// 它只允许追加，模型只能在其输出函数中追加。
type OutPort[T any] struct {
	p *port[T]
}

// AddValue appends one value to the message bag of the port.
func (op OutPort[T]) AddValue(value T) {
	op.p.mu.Lock()
	op.p.bag = append(op.p.bag, value)
	op.p.mu.Unlock()
}

// AddValues appends multiple values to the message bag of the port.
func (op OutPort[T]) AddValues(values ...T) {
	op.p.mu.Lock()
	op.p.bag = append(op.p.bag, values...)
	op.p.mu.Unlock()
}
