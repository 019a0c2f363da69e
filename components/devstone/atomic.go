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

package devstone

import (
	"time"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
)

// devStoneAtomic is the workload leaf of every DEVStone tree. It counts
// its transitions and received messages, optionally burns a fixed delay
// per transition, and reports its counters to the probe when the
// simulation stops.
// devStoneAtomic 是每个 DEVStone 树的工作负载叶子。
// 它统计自己的转移次数和收到的消息数，可选地在每次转移时消耗固定延迟，
// 并在仿真停止时将计数上报给探针。
type devStoneAtomic struct {
	*modeling.Component
	input    modeling.InPort[int]
	output   modeling.OutPort[int]
	intDelay time.Duration
	extDelay time.Duration
	sigma    float64

	nInternals int
	nExternals int
	nEvents    int
	probe      *Probe
}

func newDevStoneAtomic(name string, intDelay, extDelay uint, probe *Probe) *devStoneAtomic {
	component := modeling.NewComponent(name)
	return &devStoneAtomic{
		Component: component,
		input:     modeling.AddInPort[int](component, "input"),
		output:    modeling.AddOutPort[int](component, "output"),
		intDelay:  time.Duration(intDelay) * time.Millisecond,
		extDelay:  time.Duration(extDelay) * time.Millisecond,
		sigma:     types.Infinity,
		probe:     probe,
	}
}

func (a *devStoneAtomic) sleep(delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}
}

func (a *devStoneAtomic) Lambda() {
	a.output.AddValue(a.nEvents)
}

func (a *devStoneAtomic) DeltaInt() {
	a.nInternals++
	a.sigma = types.Infinity
	a.sleep(a.intDelay)
}

func (a *devStoneAtomic) DeltaExt(_ float64) {
	a.nExternals++
	a.nEvents += a.input.Len()
	a.sigma = 0
	a.sleep(a.extDelay)
}

func (a *devStoneAtomic) Ta() float64 {
	return a.sigma
}

// OnStop bulk-reports the counters gathered during the run.
func (a *devStoneAtomic) OnStop() {
	a.probe.addAtomic(a.nInternals, a.nExternals, a.nEvents)
}
