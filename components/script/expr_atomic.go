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

package script

//模型配置示例：
//{
//        "id": "gen",
//        "type": "exprAtomic",
//        "configuration": {
//          "state": {"sigma": 0, "count": 0},
//          "ta": "sigma",
//          "lambda": {"output": "count"},
//          "deltaInt": {"count": "count + 1", "sigma": "1"},
//          "deltaExt": {"sigma": "inf"}
//        }
//      }

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
	"github.com/bittoy/xdevs/utils/maps"
)

// init registers the ExprAtomicBuilder component with the package registry.
func init() {
	Registry.Add(&ExprAtomicBuilder{})
}

// ExprAtomicConfiguration defines the configuration structure for the
// ExprAtomic model.
// ExprAtomicConfiguration 定义 ExprAtomic 模型的配置结构。
type ExprAtomicConfiguration struct {
	// InPorts and OutPorts declare the dynamically typed ports.
	InPorts  []string `json:"inPorts"`
	OutPorts []string `json:"outPorts"`

	// State is the initial model state. The expressions below read these
	// variables by name; the constant `inf` is always available.
	// State 是模型的初始状态。下面的表达式按名称读取这些变量；
	// 常量 `inf` 始终可用。
	State map[string]any `json:"state"`

	// Ta is an expression over the state returning the time advance.
	Ta string `json:"ta"`

	// Lambda maps output port names to expressions over the state; every
	// internal event appends the evaluated value to the port.
	Lambda map[string]string `json:"lambda"`

	// DeltaInt maps state variables to expressions evaluated on a
	// snapshot of the state; all assignments are applied atomically.
	// DeltaInt 将状态变量映射到在状态快照上求值的表达式；
	// 所有赋值以原子方式应用。
	DeltaInt map[string]string `json:"deltaInt"`

	// DeltaExt is like DeltaInt, with two extra variables in scope:
	// `e` (elapsed time) and `inputs` (port name -> received values).
	DeltaExt map[string]string `json:"deltaExt"`
}

// ExprAtomic is a table-driven atomic model: its time advance, output
// function, and transitions are expr-lang expressions over a state map.
// ExprAtomic 是表驱动的原子模型：其时间推进、输出函数和转移
// 都是基于状态映射的 expr-lang 表达式。
type ExprAtomic struct {
	*modeling.Component
	state    map[string]any
	taProg   *vm.Program
	lambda   []portProgram
	deltaInt []assignProgram
	deltaExt []assignProgram
	ins      map[string]modeling.InPort[any]
	outs     map[string]modeling.OutPort[any]
}

type portProgram struct {
	port    modeling.OutPort[any]
	program *vm.Program
}

type assignProgram struct {
	variable string
	program  *vm.Program
}

// NewExprAtomic creates an expression-driven atomic model, compiling
// every expression once.
func NewExprAtomic(name string, cfg ExprAtomicConfiguration) (*ExprAtomic, error) {
	component := modeling.NewComponent(name)
	x := &ExprAtomic{
		Component: component,
		state:     make(map[string]any, len(cfg.State)),
		ins:       make(map[string]modeling.InPort[any]),
		outs:      make(map[string]modeling.OutPort[any]),
	}
	for k, v := range cfg.State {
		// JSON cannot express infinity, so the literal "inf" stands in for it.
		// JSON 无法表达无穷大，因此用字面量 "inf" 代替。
		if s, ok := v.(string); ok && s == "inf" {
			v = math.Inf(1)
		}
		x.state[k] = v
	}
	for _, port := range cfg.InPorts {
		x.ins[port] = modeling.AddInPort[any](component, port)
	}
	for _, port := range cfg.OutPorts {
		x.outs[port] = modeling.AddOutPort[any](component, port)
	}

	if cfg.Ta == "" {
		return nil, fmt.Errorf("expr model %s requires a ta expression", name)
	}
	// Compiling against the state makes state variables take precedence
	// over expr-lang builtins of the same name (such as count).
	env := x.env(nil)
	taProg, err := expr.Compile(cfg.Ta, expr.Env(env), expr.AllowUndefinedVariables(), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("expr model %s: ta: %w", name, err)
	}
	x.taProg = taProg

	for port, src := range cfg.Lambda {
		out, ok := x.outs[port]
		if !ok {
			return nil, fmt.Errorf("expr model %s: lambda targets undeclared port %s", name, port)
		}
		program, err := expr.Compile(src, expr.Env(env), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("expr model %s: lambda %s: %w", name, port, err)
		}
		x.lambda = append(x.lambda, portProgram{port: out, program: program})
	}
	if x.deltaInt, err = compileAssignments(name, "deltaInt", cfg.DeltaInt, env); err != nil {
		return nil, err
	}
	if x.deltaExt, err = compileAssignments(name, "deltaExt", cfg.DeltaExt, env); err != nil {
		return nil, err
	}
	return x, nil
}

func compileAssignments(model, section string, sources map[string]string, env map[string]any) ([]assignProgram, error) {
	var programs []assignProgram
	for variable, src := range sources {
		program, err := expr.Compile(src, expr.Env(env), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("expr model %s: %s %s: %w", model, section, variable, err)
		}
		programs = append(programs, assignProgram{variable: variable, program: program})
	}
	return programs, nil
}

// env builds the expression environment from a snapshot of the state.
func (x *ExprAtomic) env(extra map[string]any) map[string]any {
	env := make(map[string]any, len(x.state)+len(extra)+1)
	for k, v := range x.state {
		env[k] = v
	}
	env["inf"] = math.Inf(1)
	for k, v := range extra {
		env[k] = v
	}
	return env
}

// apply evaluates all assignments on one snapshot and commits them together.
func (x *ExprAtomic) apply(programs []assignProgram, extra map[string]any) {
	env := x.env(extra)
	updates := make(map[string]any, len(programs))
	for _, p := range programs {
		out, err := vm.Run(p.program, env)
		if err != nil {
			panic(types.NewEngineError(x.GetName(), types.NewEvent(p.variable, ""), err))
		}
		updates[p.variable] = out
	}
	for k, v := range updates {
		x.state[k] = v
	}
}

// State returns the current value of one state variable.
func (x *ExprAtomic) State(variable string) any {
	return x.state[variable]
}

func (x *ExprAtomic) Lambda() {
	env := x.env(nil)
	for _, p := range x.lambda {
		out, err := vm.Run(p.program, env)
		if err != nil {
			panic(types.NewEngineError(x.GetName(), types.NewEvent("lambda", ""), err))
		}
		p.port.AddValue(out)
	}
}

func (x *ExprAtomic) DeltaInt() {
	x.apply(x.deltaInt, nil)
}

func (x *ExprAtomic) DeltaExt(e float64) {
	inputs := make(map[string][]any, len(x.ins))
	for name, in := range x.ins {
		inputs[name] = append([]any(nil), in.GetValues()...)
	}
	x.apply(x.deltaExt, map[string]any{"e": e, "inputs": inputs})
}

func (x *ExprAtomic) Ta() float64 {
	out, err := vm.Run(x.taProg, x.env(nil))
	if err != nil {
		panic(types.NewEngineError(x.GetName(), types.NewEvent("ta", ""), err))
	}
	return out.(float64)
}

// ExprAtomicBuilder creates expression atomic models from model-tree definitions.
type ExprAtomicBuilder struct {
	Config ExprAtomicConfiguration
}

// Type returns the builder type identifier.
func (b *ExprAtomicBuilder) Type() types.ModelType {
	return types.ModelTypeExpr
}

// New creates a new instance.
func (b *ExprAtomicBuilder) New() types.ModelBuilder {
	return &ExprAtomicBuilder{}
}

// Init decodes the configuration.
func (b *ExprAtomicBuilder) Init(_ types.Config, configuration types.Configuration) error {
	return maps.Map2Struct(configuration, &b.Config)
}

// Build creates the simulator.
func (b *ExprAtomicBuilder) Build(name string) (types.Simulator, error) {
	model, err := NewExprAtomic(name, b.Config)
	if err != nil {
		return nil, err
	}
	return modeling.NewSimulator(model), nil
}
