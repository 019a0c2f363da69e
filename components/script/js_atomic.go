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

// Package script provides atomic models whose behavior is defined at
// runtime: JavaScript models executed through goja and table-driven
// models evaluated with expr-lang expressions. Both keep their ports
// dynamically typed, so they couple with other script models and with
// "any"-typed ports of coupled containers.
// 包 script 提供在运行时定义行为的原子模型：
// 通过 goja 执行的 JavaScript 模型和用 expr-lang 表达式求值的表驱动模型。
// 两者的端口都是动态类型的，因此可以与其他脚本模型以及耦合容器的
// "any" 类型端口耦合。
package script

import (
	"fmt"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
	"github.com/bittoy/xdevs/utils/js"
	"github.com/bittoy/xdevs/utils/maps"
)

// Registry collects the model builders of this package.
var Registry = new(types.SafeBuilderSlice)

// init registers the JsAtomicBuilder component with the package registry.
func init() {
	Registry.Add(&JsAtomicBuilder{})
}

// JsAtomicConfiguration defines the configuration structure for the
// JsAtomic model.
// JsAtomicConfiguration 定义 JsAtomic 模型的配置结构。
type JsAtomicConfiguration struct {
	// Script is the JavaScript source. It must define the functions:
	//   - ta(): number (Infinity passivates the model)
	//   - lambda(): output function; emits with emit(port, value)
	//   - deltaInt(): internal transition
	//   - deltaExt(e, inputs): external transition; inputs maps port
	//     names to arrays of received values
	// and may define deltaConf(e, inputs) to override the default
	// confluent transition.
	//
	// Script 是 JavaScript 源代码。必须定义函数：
	//   - ta()：数字（Infinity 使模型钝化）
	//   - lambda()：输出函数；用 emit(port, value) 发射
	//   - deltaInt()：内部转移
	//   - deltaExt(e, inputs)：外部转移；inputs 将端口名映射到收到的值数组
	// 还可以定义 deltaConf(e, inputs) 来覆盖默认的合流转移。
	Script string `json:"script"`

	// InPorts and OutPorts declare the dynamically typed ports.
	InPorts  []string `json:"inPorts"`
	OutPorts []string `json:"outPorts"`
}

// JsAtomic is an atomic model whose transition functions live in a
// JavaScript program. Model state is kept inside the JavaScript runtime.
// JsAtomic 是转移函数位于 JavaScript 程序中的原子模型。
// 模型状态保存在 JavaScript 运行时内部。
type JsAtomic struct {
	*modeling.Component
	config  types.Config
	jsCfg   JsAtomicConfiguration
	engine  *js.GojaJsEngine
	ins     map[string]modeling.InPort[any]
	outs    map[string]modeling.OutPort[any]
	hasConf bool
}

// NewJsAtomic creates a JavaScript-driven atomic model. It evaluates the
// script once, verifies the required functions, and binds the emit
// callback that appends values to the declared output ports.
func NewJsAtomic(name string, config types.Config, jsCfg JsAtomicConfiguration) (*JsAtomic, error) {
	component := modeling.NewComponent(name)
	x := &JsAtomic{
		Component: component,
		config:    config,
		jsCfg:     jsCfg,
		ins:       make(map[string]modeling.InPort[any]),
		outs:      make(map[string]modeling.OutPort[any]),
	}
	for _, port := range jsCfg.InPorts {
		x.ins[port] = modeling.AddInPort[any](component, port)
	}
	for _, port := range jsCfg.OutPorts {
		x.outs[port] = modeling.AddOutPort[any](component, port)
	}

	engine, err := js.NewGojaJsEngine(config, jsCfg.Script, nil)
	if err != nil {
		return nil, err
	}
	x.engine = engine
	for _, funcName := range []string{"ta", "lambda", "deltaInt", "deltaExt"} {
		if !engine.HasFunction(funcName) {
			return nil, fmt.Errorf("script model %s does not define function %s", name, funcName)
		}
	}
	x.hasConf = engine.HasFunction("deltaConf")

	if err := engine.SetVar("emit", x.emit); err != nil {
		return nil, err
	}
	return x, nil
}

// emit is the callback the script uses inside lambda to produce output.
func (x *JsAtomic) emit(port string, value any) {
	out, ok := x.outs[port]
	if !ok {
		panic(types.NewEngineError(x.GetName(), types.NewEvent(port, fmt.Sprintf("%v", value)),
			fmt.Errorf("%w: script emitted to undeclared port", types.ErrUnknownPort)))
	}
	out.AddValue(value)
}

// inputs gathers the received values per input port for the script.
func (x *JsAtomic) inputs() map[string][]any {
	values := make(map[string][]any, len(x.ins))
	for name, in := range x.ins {
		values[name] = append([]any(nil), in.GetValues()...)
	}
	return values
}

// execute runs a script function and panics on script errors: the model
// behavior is part of the topology, so a failing script is a programmer
// error, just like a malformed coupling.
func (x *JsAtomic) execute(funcName string, args ...any) any {
	out, err := x.engine.Execute(funcName, args...)
	if err != nil {
		panic(types.NewEngineError(x.GetName(), types.NewEvent(funcName, ""), err))
	}
	return out
}

func (x *JsAtomic) Lambda() {
	x.execute("lambda")
}

func (x *JsAtomic) DeltaInt() {
	x.execute("deltaInt")
}

func (x *JsAtomic) DeltaExt(e float64) {
	x.execute("deltaExt", e, x.inputs())
}

// DeltaConf delegates to the script's deltaConf when defined and falls
// back to the default confluent behavior otherwise.
func (x *JsAtomic) DeltaConf() {
	if x.hasConf {
		x.execute("deltaConf", 0.0, x.inputs())
		return
	}
	x.DeltaInt()
	x.DeltaExt(0)
}

func (x *JsAtomic) Ta() float64 {
	out := x.execute("ta")
	switch v := out.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		panic(types.NewEngineError(x.GetName(), types.NewEvent("ta", fmt.Sprintf("%v", out)),
			fmt.Errorf("ta must return a number")))
	}
}

// Destroy releases the JavaScript runtime.
func (x *JsAtomic) Destroy() {
	x.engine.Stop()
}

// JsAtomicBuilder creates JavaScript atomic models from model-tree definitions.
type JsAtomicBuilder struct {
	Config JsAtomicConfiguration
	config types.Config
}

// Type returns the builder type identifier.
func (b *JsAtomicBuilder) Type() types.ModelType {
	return types.ModelTypeJs
}

// New creates a new instance.
func (b *JsAtomicBuilder) New() types.ModelBuilder {
	return &JsAtomicBuilder{}
}

// Init decodes the configuration.
func (b *JsAtomicBuilder) Init(config types.Config, configuration types.Configuration) error {
	b.config = config
	return maps.Map2Struct(configuration, &b.Config)
}

// Build creates the simulator.
func (b *JsAtomicBuilder) Build(name string) (types.Simulator, error) {
	model, err := NewJsAtomic(name, b.config, b.Config)
	if err != nil {
		return nil, err
	}
	return modeling.NewSimulator(model), nil
}
