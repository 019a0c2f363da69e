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

// Package devstone implements the DEVStone synthetic benchmark family:
// the LI, HI, HO, and HOmod model trees used to measure simulation
// engine overhead, plus a probe for auditing model structure and
// transition counts.
// 包 devstone 实现 DEVStone 合成基准族：
// 用于测量仿真引擎开销的 LI、HI、HO 和 HOmod 模型树，
// 以及用于审计模型结构和转移计数的探针。
package devstone

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
	"github.com/bittoy/xdevs/utils/maps"
)

// Registry collects the model builders of this package.
var Registry = new(types.SafeBuilderSlice)

// init registers the DevStoneBuilder component with the package registry.
func init() {
	Registry.Add(&DevStoneBuilder{})
}

// Benchmark selects one of the DEVStone tree shapes.
type Benchmark string

const (
	LI    Benchmark = "LI"
	HI    Benchmark = "HI"
	HO    Benchmark = "HO"
	HOmod Benchmark = "HOmod"
)

// Probe accumulates structural counters and transition counts across a
// DEVStone tree. It is shared by every atomic and every nesting level,
// so access is mutex-guarded to stay correct under the parallel
// scheduler variants.
// Probe 在 DEVStone 树中累积结构计数器和转移计数。
// 它被每个原子模型和每个嵌套层共享，因此通过互斥锁保护，
// 以便在并行调度器变体下保持正确。
type Probe struct {
	mu         sync.Mutex
	nAtomics   int
	nEICs      int
	nICs       int
	nEOCs      int
	nInternals int
	nExternals int
	nEvents    int
}

// NewProbe creates an empty probe.
func NewProbe() *Probe {
	return &Probe{}
}

func (p *Probe) addStructure(c *modeling.Coupled) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.nEICs += c.NEICs()
	p.nICs += c.NICs()
	p.nEOCs += c.NEOCs()
	p.mu.Unlock()
}

func (p *Probe) addAtomic(nInternals, nExternals, nEvents int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.nAtomics++
	p.nInternals += nInternals
	p.nExternals += nExternals
	p.nEvents += nEvents
	p.mu.Unlock()
}

// NAtomics returns the number of atomic models that reported to the probe.
func (p *Probe) NAtomics() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nAtomics }

// NEICs returns the accumulated number of external input couplings.
func (p *Probe) NEICs() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nEICs }

// NICs returns the accumulated number of internal couplings.
func (p *Probe) NICs() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nICs }

// NEOCs returns the accumulated number of external output couplings.
func (p *Probe) NEOCs() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nEOCs }

// NInternals returns the accumulated number of internal transitions.
func (p *Probe) NInternals() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nInternals }

// NExternals returns the accumulated number of external transitions.
func (p *Probe) NExternals() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nExternals }

// NEvents returns the accumulated number of received messages.
func (p *Probe) NEvents() int { p.mu.Lock(); defer p.mu.Unlock(); return p.nEvents }

// checkParams rejects degenerate tree dimensions.
func checkParams(width, depth int) {
	if width < 1 {
		panic("width must be at least 1")
	}
	if depth < 1 {
		panic("depth must be at least 1")
	}
}

// New builds the selected DEVStone benchmark, seeder included, with the
// given dimensions and per-transition delays (in milliseconds).
// The probe may be nil when no auditing is needed.
// New 构建所选的 DEVStone 基准（含种子器），
// 使用给定的尺寸和每次转移的延迟（毫秒）。不需要审计时 probe 可为 nil。
func New(benchmark Benchmark, width, depth int, intDelay, extDelay uint, probe *Probe) (*modeling.Coupled, error) {
	switch benchmark {
	case LI:
		return NewLI(width, depth, intDelay, extDelay, probe), nil
	case HI:
		return NewHI(width, depth, intDelay, extDelay, probe), nil
	case HO:
		return NewHO(width, depth, intDelay, extDelay, probe), nil
	case HOmod:
		return NewHOmod(width, depth, intDelay, extDelay, probe), nil
	default:
		return nil, fmt.Errorf("unknown DEVStone benchmark %q", benchmark)
	}
}

// DevStoneBuilderConfiguration defines the configuration structure for
// the DEVStone model builder.
type DevStoneBuilderConfiguration struct {
	// Benchmark is one of "LI", "HI", "HO", "HOmod".
	Benchmark string `json:"benchmark"`
	Width     int    `json:"width"`
	Depth     int    `json:"depth"`
	// IntDelay and ExtDelay are per-transition delays in milliseconds.
	IntDelay uint `json:"intDelay"`
	ExtDelay uint `json:"extDelay"`
}

// DevStoneBuilder creates DEVStone benchmark trees from model-tree definitions.
type DevStoneBuilder struct {
	Config DevStoneBuilderConfiguration
}

// Type returns the builder type identifier.
func (b *DevStoneBuilder) Type() types.ModelType {
	return "devstone"
}

// New creates a new instance.
func (b *DevStoneBuilder) New() types.ModelBuilder {
	return &DevStoneBuilder{Config: DevStoneBuilderConfiguration{Benchmark: string(LI), Width: 1, Depth: 1}}
}

// Init decodes the configuration.
func (b *DevStoneBuilder) Init(_ types.Config, configuration types.Configuration) error {
	return maps.Map2Struct(configuration, &b.Config)
}

// Build creates the benchmark tree. The name is ignored: DEVStone trees
// are conventionally named after their benchmark.
func (b *DevStoneBuilder) Build(_ string) (types.Simulator, error) {
	if b.Config.Width < 1 || b.Config.Depth < 1 {
		return nil, errors.New("devstone width and depth must be positive")
	}
	return New(Benchmark(b.Config.Benchmark), b.Config.Width, b.Config.Depth, b.Config.IntDelay, b.Config.ExtDelay, nil)
}
