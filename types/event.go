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

package types

import "fmt"

// Event is a (port, textual value) pair crossing the real-time boundary.
// Input handlers inject events into the root model's input ports; output
// handlers eject events from its output ports. The value layer is
// abstracted to parse/format at this boundary so that the kernel stays
// decoupled from any specific transport.
//
// Event 是跨越实时边界的（端口，文本值）对。
// 输入处理器将事件注入根模型的输入端口；输出处理器从其输出端口弹出事件。
// 值在此边界被抽象为解析/格式化，使内核与任何特定传输解耦。
type Event struct {
	port  string
	value string
}

// NewEvent creates a new event for the given port name and textual value.
func NewEvent(port, value string) Event {
	return Event{port: port, value: value}
}

// Port returns the name of the port this event targets or originates from.
func (e Event) Port() string {
	return e.port
}

// Value returns the textual payload of the event.
func (e Event) Value() string {
	return e.value
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s", e.port, e.value)
}
