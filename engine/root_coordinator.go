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

// Package engine drives DEVS model hierarchies: the root coordinator
// advancing virtual or real time over the root simulator, the model-tree
// parser and builder registry, and the prometheus instrumentation.
// 包 engine 驱动 DEVS 模型层次：在根仿真器上推进虚拟或实时时间的
// 根协调器、模型树解析器和构建器注册表，以及 prometheus 指标。
package engine

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bittoy/xdevs/types"

	"github.com/gofrs/uuid/v5"
)

// RootCoordinator is the thin driver over the root simulator. It owns no
// scheduling logic of its own: it polls the root's next event time and
// alternates the collection and transition phases until the stop time.
//
// RootCoordinator 是根仿真器之上的轻量驱动器。它本身不拥有调度逻辑：
// 轮询根节点的下一事件时间，并交替执行收集和转移阶段直到停止时间。
//
// Lifecycle:
// 生命周期：
//  1. Create with NewRootCoordinator()  使用 NewRootCoordinator() 创建
//  2. Run with Simulate() or SimulateRT()  使用 Simulate() 或 SimulateRT() 运行
type RootCoordinator struct {
	// id is the unique identifier of this simulation run, used in logs.
	id string

	// config holds the engine configuration.
	config types.Config

	// root is the model under simulation.
	root types.Simulator

	// aspects is the list of AOP aspects applied around the simulation loop.
	// aspects 是应用在仿真循环周围的 AOP 切面列表。
	aspects types.AspectList

	initAspects []types.InitAspect
	iterAspects []types.IterationAspect
	stopAspects []types.StopAspect
}

// NewRootCoordinator creates a root coordinator over a DEVS-compliant model.
// NewRootCoordinator 在符合 DEVS 的模型之上创建根协调器。
func NewRootCoordinator(model types.Simulator, opts ...Option) *RootCoordinator {
	id, _ := uuid.NewV4()
	c := &RootCoordinator{
		id:     id.String(),
		config: NewConfig(),
		root:   model,
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	c.initBuiltinsAspects()
	return c
}

// Id returns the unique identifier of this simulation run.
func (c *RootCoordinator) Id() string {
	return c.id
}

// GetModel returns the model under simulation.
func (c *RootCoordinator) GetModel() types.Simulator {
	return c.root
}

// initBuiltinsAspects appends the built-in aspects whose type was not
// already provided and instantiates per-run aspect instances, so that no
// state leaks between coordinators.
// initBuiltinsAspects 追加尚未提供同类型的内置切面并实例化每次运行的切面实例，
// 确保协调器之间不泄漏状态。
func (c *RootCoordinator) initBuiltinsAspects() {
	aspects := make(types.AspectList, 0, len(c.aspects)+len(BuiltinsAspects))
	provided := make(map[string]bool, len(c.aspects))
	for _, a := range c.aspects {
		aspects = append(aspects, a.New())
		provided[fmt.Sprintf("%T", a)] = true
	}
	for _, builtin := range BuiltinsAspects {
		if provided[fmt.Sprintf("%T", builtin)] {
			continue
		}
		aspects = append(aspects, builtin.New())
	}
	c.aspects = aspects
	c.initAspects = aspects.GetInitAspects()
	c.iterAspects = aspects.GetIterationAspects()
	c.stopAspects = aspects.GetStopAspects()
}

// Simulate runs a virtual-time simulation until tStop: time jumps from
// event to event with no relation to the wall clock.
// Simulate 运行虚拟时间仿真直到 tStop：
// 时间从事件跳到事件，与墙钟无关。
func (c *RootCoordinator) Simulate(tStop float64) (err error) {
	start := time.Now()
	defer func() {
		var status int
		if err != nil {
			status = 100
		}
		duration := time.Since(start).Seconds()
		// 统计
		simulationsTotal.WithLabelValues(
			c.root.GetName(),
			strconv.Itoa(status),
		).Inc()
		simulationDuration.WithLabelValues(
			c.root.GetName(),
		).Observe(duration)
	}()

	c.config.Logger.Printf("RootCoordinator %s: simulating %s until t=%v", c.id, c.root.GetName(), tStop)

	tNext := c.root.Start(0)
	if err = c.onInit(); err != nil {
		return err
	}
	for tNext < tStop {
		t := tNext
		c.onBefore(t)
		c.root.Collection(t)
		tNext = c.root.Transition(t)
		iterationsTotal.WithLabelValues(c.root.GetName()).Inc()
		c.onAfter(t, tNext)
	}
	c.root.Stop(tNext)
	c.onStop(tNext)
	return nil
}

// SimulateRT runs a real-time simulation until tStop. Between iterations
// the coordinator hands control to the waiter, which sleeps or handles
// external events until at most the next internal event time. When the
// waiter returns early without having injected input, the iteration is
// skipped and the waiter is re-entered with the same deadline (spurious
// wakeup). After every collection the output handler observes the root's
// output bags, before the transition clears them.
//
// SimulateRT 运行实时仿真直到 tStop。协调器在迭代之间把控制权交给等待器，
// 等待器休眠或处理外部事件，最多等到下一个内部事件时间。
// 等待器提前返回且未注入输入时，跳过该次迭代并以相同的截止时间重新进入
// 等待器（虚假唤醒）。每次收集之后、转移清空输出袋之前，
// 输出处理器观察根节点的输出袋。
func (c *RootCoordinator) SimulateRT(tStop float64, waitEvent types.WaitEventFunc, outputHandler types.OutputHandlerFunc) (err error) {
	start := time.Now()
	defer func() {
		var status int
		if err != nil {
			status = 100
		}
		duration := time.Since(start).Seconds()
		simulationsTotal.WithLabelValues(
			c.root.GetName(),
			strconv.Itoa(status),
		).Inc()
		simulationDuration.WithLabelValues(
			c.root.GetName(),
		).Observe(duration)
	}()

	c.config.Logger.Printf("RootCoordinator %s: real-time simulating %s until t=%v", c.id, c.root.GetName(), tStop)

	t := 0.0
	tNextInternal := c.root.Start(t)
	if err = c.onInit(); err != nil {
		return err
	}
	for t < tStop {
		tUntil := math.Min(tNextInternal, tStop)
		t = waitEvent(tUntil, c.root)
		if t >= tNextInternal {
			c.onBefore(t)
			c.root.Collection(t)
			if outputHandler != nil {
				outputHandler(c.root)
			}
		} else if c.root.IsInputEmpty() {
			// avoid spurious external transitions
			// 避免虚假的外部转移
			continue
		} else {
			c.onBefore(t)
		}
		tNextInternal = c.root.Transition(t)
		iterationsTotal.WithLabelValues(c.root.GetName()).Inc()
		c.onAfter(t, tNextInternal)
	}
	c.root.Stop(tStop)
	c.onStop(tStop)
	return nil
}

func (c *RootCoordinator) onInit() error {
	for _, aop := range c.initAspects {
		if err := aop.OnInit(c.config, c.root); err != nil {
			return err
		}
	}
	return nil
}

func (c *RootCoordinator) onBefore(t float64) {
	for _, aop := range c.iterAspects {
		if aop.PointCut(t) {
			aop.Before(c.root, t)
		}
	}
}

func (c *RootCoordinator) onAfter(t, tNext float64) {
	for _, aop := range c.iterAspects {
		if aop.PointCut(t) {
			aop.After(c.root, t, tNext)
		}
	}
}

func (c *RootCoordinator) onStop(tStop float64) {
	for _, aop := range c.stopAspects {
		aop.OnStop(c.root, tStop)
	}
}
