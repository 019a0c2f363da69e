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

package aspect

import (
	"github.com/bittoy/xdevs/types"
)

var (
	// Compile-time check SimDebug implements types.IterationAspect.
	_ types.IterationAspect = (*SimDebug)(nil)
)

// SimDebug is a debug logging aspect that records every simulation
// iteration at the root: the iteration time and the resulting schedule.
// It does not log the root output events. Essential when tracing why a
// model transitions at unexpected times.
//
// SimDebug 是调试日志切面，记录根节点的每次仿真迭代：
// 迭代时间和产生的调度。它不记录根输出事件。
// 在追踪模型为何在意外时间发生转移时非常有用。
//
// Usage:
// 使用方法：
//
//	coordinator := engine.NewRootCoordinator(model,
//	    engine.WithAspects(aspect.NewSimDebug(logger)))
type SimDebug struct {
	logger types.Logger
}

// NewSimDebug creates a debug aspect writing to the provided logger.
func NewSimDebug(logger types.Logger) *SimDebug {
	if logger == nil {
		logger = types.DefaultLogger()
	}
	return &SimDebug{logger: logger}
}

// Order returns the execution order of this aspect. Debug runs last.
func (aspect *SimDebug) Order() int {
	return 900
}

// New creates a new instance of the SimDebug aspect.
func (aspect *SimDebug) New() types.Aspect {
	logger := aspect.logger
	if logger == nil {
		logger = types.DefaultLogger()
	}
	return &SimDebug{logger: logger}
}

// Type returns the unique identifier for this aspect type.
func (aspect *SimDebug) Type() string {
	return "simDebug"
}

// PointCut applies the aspect to every iteration.
func (aspect *SimDebug) PointCut(t float64) bool {
	return true
}

// Before logs the iteration entry.
func (aspect *SimDebug) Before(root types.Simulator, t float64) {
	aspect.logger.Printf("[%s] t=%v: iteration start", root.GetName(), t)
}

// After logs the iteration exit and the next scheduled event time.
func (aspect *SimDebug) After(root types.Simulator, t float64, tNext float64) {
	aspect.logger.Printf("[%s] t=%v: iteration done, next event at t=%v", root.GetName(), t, tNext)
}
