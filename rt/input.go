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
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bittoy/xdevs/types"
)

// InputQueue buffers external events and injects them into the root
// model's input ports while the real-time waiter is in control. An
// optional accumulation window keeps draining events for a short period
// after the first one arrives, so bursts are processed in one iteration.
//
// InputQueue 缓冲外部事件，并在实时等待器掌握控制权时将它们注入
// 根模型的输入端口。可选的累积窗口在第一个事件到达后继续收集
// 一小段时间，使突发事件在一次迭代中处理。
type InputQueue struct {
	ch     chan types.Event
	window time.Duration
	filter *vm.Program
	logger types.Logger
}

// InputQueueOption configures an InputQueue.
type InputQueueOption func(*InputQueue) error

// WithWindow sets the accumulation window applied after the first
// received event.
func WithWindow(window time.Duration) InputQueueOption {
	return func(q *InputQueue) error {
		q.window = window
		return nil
	}
}

// WithFilter installs a boolean expression evaluated against every
// incoming event with the variables `port` and `value`. Events failing
// the filter are dropped before injection.
// WithFilter 安装布尔表达式，对每个传入事件以变量 `port` 和 `value`
// 求值。未通过过滤器的事件在注入前被丢弃。
//
// Example: WithFilter(`port == "input_stop" || value != ""`)
func WithFilter(script string) InputQueueOption {
	return func(q *InputQueue) error {
		program, err := expr.Compile(script, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return err
		}
		q.filter = program
		return nil
	}
}

// WithQueueLogger replaces the logger of the queue.
func WithQueueLogger(logger types.Logger) InputQueueOption {
	return func(q *InputQueue) error {
		if logger != nil {
			q.logger = logger
		}
		return nil
	}
}

// NewInputQueue creates an input queue with the given buffer capacity.
func NewInputQueue(buffer int, opts ...InputQueueOption) (*InputQueue, error) {
	q := &InputQueue{
		ch:     make(chan types.Event, buffer),
		logger: types.DefaultLogger(),
	}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Send enqueues one external event. It blocks when the buffer is full.
func (q *InputQueue) Send(event types.Event) {
	q.ch <- event
}

// Subscribe returns the send side of the queue for external producers.
func (q *InputQueue) Subscribe() chan<- types.Event {
	return q.ch
}

// Handler returns the input handler to plug into WaitEvent. It waits up
// to the given duration for the first event; once one arrived, it keeps
// draining events for the configured window (still bounded by the
// original deadline).
// Handler 返回接入 WaitEvent 的输入处理器。它最多等待给定时长直到
// 第一个事件到达；之后在配置的窗口内继续收集事件
// （仍受原始截止时间约束）。
func (q *InputQueue) Handler() func(time.Duration, types.Simulator) {
	return func(duration time.Duration, component types.Simulator) {
		deadline := time.Now().Add(duration)
		if !q.injectTimeout(duration, component) {
			return
		}
		if q.window <= 0 {
			return
		}
		tMax := time.Now().Add(q.window)
		if deadline.Before(tMax) {
			tMax = deadline
		}
		for {
			wait := time.Until(tMax)
			if wait <= 0 {
				return
			}
			if !q.injectTimeout(wait, component) {
				return
			}
		}
	}
}

// injectTimeout waits up to duration for one event and injects it.
// It reports whether an event was received before the timeout.
func (q *InputQueue) injectTimeout(duration time.Duration, component types.Simulator) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case event := <-q.ch:
		if !q.accept(event) {
			q.logger.Printf("input event %s dropped by filter", event)
			return true
		}
		if err := component.Inject(event); err != nil {
			// Injection failures are recoverable: log and keep simulating.
			// 注入失败是可恢复的：记录日志并继续仿真。
			q.logger.Printf("failed to inject event %s: %s", event, err)
		}
		return true
	case <-timer.C:
		return false
	}
}

func (q *InputQueue) accept(event types.Event) bool {
	if q.filter == nil {
		return true
	}
	out, err := vm.Run(q.filter, map[string]any{
		"port":  event.Port(),
		"value": event.Value(),
	})
	if err != nil {
		q.logger.Printf("input filter error for event %s: %s", event, err)
		return false
	}
	pass, _ := out.(bool)
	return pass
}
