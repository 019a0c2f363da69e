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

package types

// Config defines the configuration for the simulation engine.
// Config 定义仿真引擎的配置。
//
// It provides control over logging, model-tree parsing, the builder
// registry used to resolve atomic model types, and user-defined
// functions available to script models.
// 它提供对日志记录、模型树解析、用于解析原子模型类型的构建器注册表
// 以及脚本模型可用的用户定义函数的控制。
//
// Usage Example:
// 使用示例：
//
//	config := engine.NewConfig(
//	    types.WithLogger(myLogger),
//	)
//	coordinator := engine.NewRootCoordinator(model, engine.WithConfig(config))
type Config struct {
	// ModelsRegistry is the builder registry for resolving atomic model
	// types in model-tree definitions. Defaults to `engine.Registry`,
	// which carries all builders shipped with the module.
	// ModelsRegistry 是用于解析模型树定义中原子模型类型的构建器注册表。
	// 默认为包含模块自带全部构建器的 `engine.Registry`。
	ModelsRegistry ModelRegistry

	// Parser is the model-tree parser interface, defaulting to the
	// engine JSON parser.
	// Parser 是模型树解析器接口，默认为引擎的 JSON 解析器。
	Parser Parser

	// Logger is the logging interface, defaulting to `DefaultLogger()`.
	// Logger 是日志接口，默认为 `DefaultLogger()`。
	Logger Logger

	// Properties are global properties in key-value format, exposed to
	// script models as the `global` variable.
	// Properties 是键值格式的全局属性，作为 `global` 变量暴露给脚本模型。
	Properties Properties

	// Udf is a map for registering custom Golang functions that can be
	// called at runtime by script engines like JavaScript.
	// Udf 是用于注册自定义 Golang 函数的映射，
	// 可以在运行时被 JavaScript 等脚本引擎调用。
	Udf map[string]interface{}
}

// RegisterUdf registers a custom function under the given name.
// RegisterUdf 以给定名称注册自定义函数。
func (c *Config) RegisterUdf(name string, value interface{}) {
	if c.Udf == nil {
		c.Udf = make(map[string]interface{})
	}
	c.Udf[name] = value
}

// NewConfig creates a new Config with default values and applies the provided options.
// NewConfig 创建具有默认值的新 Config 并应用提供的选项。
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:     DefaultLogger(),
		Properties: NewProperties(),
	}

	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}
