/*
 * Copyright 2025 The RuleGo Authors.
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

package rt

import (
	"sync"

	"github.com/bittoy/xdevs/types"
)

// OutputQueue fans ejected root output events out to subscribers.
// Its PropagateOutput method is an engine OutputHandlerFunc: the root
// coordinator calls it after every collection phase, while the root
// output bags still hold the emitted messages.
//
// OutputQueue 将弹出的根输出事件扇出给订阅者。
// 它的 PropagateOutput 方法是引擎的 OutputHandlerFunc：
// 根协调器在每次收集阶段之后、根输出袋仍持有发射消息时调用它。
type OutputQueue struct {
	mu       sync.Mutex
	capacity int
	subs     []chan types.Event
	logger   types.Logger
}

// NewOutputQueue creates an output queue; capacity is the buffer size of
// every subscriber channel.
func NewOutputQueue(capacity int) *OutputQueue {
	return &OutputQueue{
		capacity: capacity,
		logger:   types.DefaultLogger(),
	}
}

// SetLogger replaces the logger of the queue.
func (q *OutputQueue) SetLogger(logger types.Logger) {
	if logger != nil {
		q.logger = logger
	}
}

// Subscribe registers a new subscriber channel.
func (q *OutputQueue) Subscribe() <-chan types.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch := make(chan types.Event, q.capacity)
	q.subs = append(q.subs, ch)
	return ch
}

// PropagateOutput ejects the root output events and delivers them to
// every subscriber. Slow subscribers with a full buffer lose events,
// with a log record: the simulation must not block on consumers.
// PropagateOutput 弹出根输出事件并投递给每个订阅者。
// 缓冲区已满的慢订阅者会丢失事件并记录日志：仿真不得阻塞在消费者上。
func (q *OutputQueue) PropagateOutput(root types.Simulator) {
	events := root.Eject()
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	subs := append([]chan types.Event(nil), q.subs...)
	q.mu.Unlock()
	for _, event := range events {
		for _, ch := range subs {
			select {
			case ch <- event:
			default:
				q.logger.Printf("output event %s dropped: subscriber buffer full", event)
			}
		}
	}
}

// Close closes all subscriber channels.
func (q *OutputQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, ch := range q.subs {
		close(ch)
	}
	q.subs = nil
}
