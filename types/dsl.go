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

package types

// Model is the serialized definition of one node in a model tree.
// Atomic nodes carry a Configuration decoded by the builder registered
// under Type; coupled nodes carry Metadata describing ports,
// subcomponents, and couplings.
//
// Model 是模型树中一个节点的序列化定义。
// 原子节点携带由注册在 Type 下的构建器解码的 Configuration；
// 耦合节点携带描述端口、子组件和耦合的 Metadata。
//
// Example:
// 示例：
//
//	{
//	  "id": "gpt",
//	  "type": "coupled",
//	  "metadata": {
//	    "components": [
//	      {"id": "generator", "type": "generator", "configuration": {"period": 3}},
//	      {"id": "processor", "type": "processor", "configuration": {"time": 1}},
//	      {"id": "transducer", "type": "transducer", "configuration": {"time": 50}}
//	    ],
//	    "couplings": [
//	      {"type": "ic", "fromId": "generator", "fromPort": "output_req", "toId": "processor", "toPort": "input_req"}
//	    ]
//	  }
//	}
type Model struct {
	// Id is the component name, unique within the parent coupled model.
	// Id 是组件名称，在父耦合模型内唯一。
	Id string `json:"id"`

	// Type selects the builder (atomic) or marks a coupled container.
	Type ModelType `json:"type"`

	// Configuration holds the builder-specific settings of atomic nodes.
	Configuration Configuration `json:"configuration,omitempty"`

	// Metadata describes the structure of coupled nodes.
	Metadata *ModelMetadata `json:"metadata,omitempty"`
}

// ModelMetadata defines the structure of a coupled node: its own port
// declarations, its subcomponents, and the couplings between them.
// ModelMetadata 定义耦合节点的结构：
// 它自己的端口声明、子组件以及它们之间的耦合。
type ModelMetadata struct {
	// InPorts declares the input ports of the coupled model.
	InPorts []PortDef `json:"inPorts,omitempty"`

	// OutPorts declares the output ports of the coupled model.
	OutPorts []PortDef `json:"outPorts,omitempty"`

	// Components are the subcomponent definitions, in insertion order.
	// Components 是子组件定义，按插入顺序排列。
	Components []*Model `json:"components"`

	// Couplings define the message flow topology between ports.
	// Couplings 定义端口之间的消息流拓扑。
	Couplings []CouplingDef `json:"couplings"`

	// Parallelism optionally enables the parallel scheduler variants for
	// this coupled model.
	Parallelism *Parallelism `json:"parallelism,omitempty"`
}

// PortDef declares a typed port on a coupled model.
// Supported value types: "int", "float", "bool", "string", "any".
// PortDef 声明耦合模型上的类型化端口。
// 支持的值类型："int"、"float"、"bool"、"string"、"any"。
type PortDef struct {
	Name string `json:"name"`

	// ValueType is the element type of the port's bag.
	ValueType string `json:"valueType"`
}

// CouplingDef defines a directed edge between two compatible ports.
// The Type determines which endpoints are meaningful:
//   - "eic": FromPort is a parent input; ToId/ToPort identify a child input.
//   - "ic":  FromId/FromPort and ToId/ToPort identify child output/input.
//   - "eoc": FromId/FromPort identify a child output; ToPort is a parent output.
//
// CouplingDef 定义两个兼容端口之间的有向边。
// Type 决定哪些端点有意义：
//   - "eic"：FromPort 是父输入；ToId/ToPort 标识子输入。
//   - "ic"：FromId/FromPort 和 ToId/ToPort 标识子输出/输入。
//   - "eoc"：FromId/FromPort 标识子输出；ToPort 是父输出。
type CouplingDef struct {
	// Type is one of CouplingTypeEIC, CouplingTypeIC, CouplingTypeEOC.
	Type string `json:"type"`

	// FromId is the id of the source subcomponent (empty for EICs).
	FromId string `json:"fromId,omitempty"`

	// FromPort is the name of the source port.
	FromPort string `json:"fromPort"`

	// ToId is the id of the destination subcomponent (empty for EOCs).
	ToId string `json:"toId,omitempty"`

	// ToPort is the name of the destination port.
	ToPort string `json:"toPort"`
}
