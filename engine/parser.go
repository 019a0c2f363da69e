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

package engine

import (
	"fmt"

	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
	"github.com/bittoy/xdevs/utils/json"
)

// JsonParser decodes and encodes model trees as JSON.
type JsonParser struct {
}

// DecodeModel 通过json解析模型树结构体
func (p *JsonParser) DecodeModel(def []byte) (types.Model, error) {
	var model types.Model
	err := json.Unmarshal(def, &model)
	return model, err
}

func (p *JsonParser) EncodeModel(def interface{}) ([]byte, error) {
	if v, err := json.Marshal(def); err != nil {
		return nil, err
	} else {
		//格式化Json
		return json.Format(v)
	}
}

// BuildModel turns a decoded model-tree definition into a ready-to-run
// simulator. Coupled nodes are built structurally: ports, subcomponents
// (recursively), and couplings; atomic nodes are resolved through the
// builder registry of the config. Structural topology errors (unknown
// endpoints, incompatible ports, duplicate couplings) panic, matching
// the programmatic construction API.
// BuildModel 将解码后的模型树定义转换为可运行的仿真器。
// 耦合节点按结构构建：端口、子组件（递归）和耦合；
// 原子节点通过配置的构建器注册表解析。
// 结构性拓扑错误（未知端点、端口不兼容、重复耦合）会 panic，
// 与编程式构建 API 一致。
func BuildModel(config types.Config, def *types.Model) (types.Simulator, error) {
	if def == nil {
		return nil, fmt.Errorf("model definition can not be nil")
	}
	if def.Id == "" {
		return nil, fmt.Errorf("model definition requires an id")
	}
	if def.Type != types.ModelTypeCoupled {
		return buildAtomic(config, def)
	}

	if def.Metadata == nil {
		return nil, fmt.Errorf("coupled model %s requires metadata", def.Id)
	}
	coupled := modeling.NewCoupled(def.Id)
	for _, port := range def.Metadata.InPorts {
		if err := addPort(coupled.Component, port, true); err != nil {
			return nil, err
		}
	}
	for _, port := range def.Metadata.OutPorts {
		if err := addPort(coupled.Component, port, false); err != nil {
			return nil, err
		}
	}
	for _, sub := range def.Metadata.Components {
		child, err := BuildModel(config, sub)
		if err != nil {
			return nil, err
		}
		coupled.AddComponent(child)
	}
	for _, cp := range def.Metadata.Couplings {
		switch cp.Type {
		case types.CouplingTypeEIC:
			coupled.AddEIC(cp.FromPort, cp.ToId, cp.ToPort)
		case types.CouplingTypeIC:
			coupled.AddIC(cp.FromId, cp.FromPort, cp.ToId, cp.ToPort)
		case types.CouplingTypeEOC:
			coupled.AddEOC(cp.FromId, cp.FromPort, cp.ToPort)
		default:
			return nil, fmt.Errorf("coupled model %s: unknown coupling type %q", def.Id, cp.Type)
		}
	}
	if def.Metadata.Parallelism != nil {
		coupled.SetParallelism(*def.Metadata.Parallelism)
	}
	return coupled, nil
}

func buildAtomic(config types.Config, def *types.Model) (types.Simulator, error) {
	registry := config.ModelsRegistry
	if registry == nil {
		registry = Registry
	}
	builder, err := registry.NewBuilder(def.Type)
	if err != nil {
		return nil, err
	}
	if err := builder.Init(config, def.Configuration); err != nil {
		return nil, fmt.Errorf("model %s: %w", def.Id, err)
	}
	return builder.Build(def.Id)
}

// addPort declares one typed port on a coupled model.
func addPort(c *modeling.Component, def types.PortDef, input bool) error {
	if def.Name == "" {
		return fmt.Errorf("component %s: port requires a name", c.GetName())
	}
	switch def.ValueType {
	case "int":
		declarePort[int](c, def.Name, input)
	case "float":
		declarePort[float64](c, def.Name, input)
	case "bool":
		declarePort[bool](c, def.Name, input)
	case "string":
		declarePort[string](c, def.Name, input)
	case "any", "":
		declarePort[any](c, def.Name, input)
	default:
		return fmt.Errorf("component %s: unsupported port value type %q", c.GetName(), def.ValueType)
	}
	return nil
}

func declarePort[T any](c *modeling.Component, name string, input bool) {
	if input {
		modeling.AddInPort[T](c, name)
	} else {
		modeling.AddOutPort[T](c, name)
	}
}
