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

// Package rt integrates real-time simulations with the outside world:
// waiter factories mapping virtual time onto the wall clock, buffered
// event injection and ejection queues, and the MQTT transport handler.
// 包 rt 将实时仿真与外部世界集成：
// 将虚拟时间映射到墙钟的等待器工厂、带缓冲的事件注入/弹出队列，
// 以及 MQTT 传输处理器。
package rt

import (
	"fmt"
	"math"
	"time"

	"github.com/bittoy/xdevs/types"
)

// WaitEvent builds a real-time waiter that maps virtual time onto the
// wall clock and delegates the actual waiting to an input handler.
//
// The input handler receives the maximum duration it may wait for
// external events. It may return earlier when an event was injected, but
// never later: returning late would break the real-time mapping.
//
// After the handler returns, the waiter checks the wall-clock drift: if
// the deadline was reached, it advances to tNext (and panics when the
// drift exceeds maxJitter); if the handler returned early, it maps the
// current wall-clock time back to virtual time.
//
// WaitEvent 构建实时等待器，将虚拟时间映射到墙钟，
// 并把实际等待委托给输入处理器。
//
// 输入处理器收到它最多可以等待外部事件的时长。注入事件后可以提前返回，
// 但绝不能晚于该时长返回：迟返回会破坏实时映射。
//
// 处理器返回后，等待器检查墙钟漂移：若已到截止时间则推进到 tNext
// （漂移超过 maxJitter 时 panic）；若处理器提前返回，
// 则把当前墙钟时间映射回虚拟时间。
//
// Arguments:
//   - timeScale: wall-clock seconds per virtual time unit. 1.0 means
//     virtual time and wall-clock time coincide.
//   - maxJitter: maximum allowed drift; zero or negative disables the check.
//   - inputHandler: waits for external events, at most for the given duration.
func WaitEvent(timeScale float64, maxJitter time.Duration, inputHandler func(time.Duration, types.Simulator)) types.WaitEventFunc {
	lastVT := 0.0
	lastRT := time.Now()
	startRT := lastRT

	return func(tNext float64, component types.Simulator) float64 {
		if tNext < lastVT {
			panic(fmt.Sprintf("real-time waiter going backwards: t_next=%v < last=%v", tNext, lastVT))
		}

		if math.IsInf(tNext, 1) {
			// No internal event pending: wait for external input only.
			// 没有待处理的内部事件：只等待外部输入。
			inputHandler(time.Duration(math.MaxInt64), component)
			lastRT = time.Now()
			lastVT = lastRT.Sub(startRT).Seconds() / timeScale
			return lastVT
		}

		nextRT := lastRT.Add(time.Duration((tNext - lastVT) * timeScale * float64(time.Second)))
		if wait := time.Until(nextRT); wait > 0 {
			inputHandler(wait, component)
		}
		now := time.Now()
		if drift := now.Sub(nextRT); drift >= 0 {
			// The deadline passed: this is the internal event.
			// 已过截止时间：这是内部事件。
			if maxJitter > 0 && drift > maxJitter {
				panic(fmt.Sprintf("%s: wall-clock drift %v exceeds %v", types.ErrJitterExceeded, drift, maxJitter))
			}
			lastRT = nextRT
			lastVT = tNext
		} else {
			// The handler returned early: an external event arrived.
			// 处理器提前返回：收到了外部事件。
			lastRT = now
			lastVT = now.Sub(startRT).Seconds() / timeScale
		}
		return lastVT
	}
}

// Sleep builds the basic waiter for real-time simulations without
// external events: it just sleeps until the next state transition.
// Sleep 构建不含外部事件的实时仿真基本等待器：
// 它只是休眠到下一次状态转移。
func Sleep(timeScale float64, maxJitter time.Duration) types.WaitEventFunc {
	return WaitEvent(timeScale, maxJitter, func(wait time.Duration, _ types.Simulator) {
		time.Sleep(wait)
	})
}

// Virtual builds a waiter that does not wait at all: the simulation runs
// as fast as possible while still flowing through the real-time driver.
// Useful for tests and for draining output handlers at full speed.
// Virtual 构建完全不等待的等待器：仿真以最快速度运行，
// 但仍然流经实时驱动。适用于测试以及全速驱动输出处理器。
func Virtual() types.WaitEventFunc {
	return func(tNext float64, _ types.Simulator) float64 {
		return tNext
	}
}
