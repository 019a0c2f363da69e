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

// Package js provides JavaScript execution capabilities for script-driven
// atomic models, implemented on top of the goja library.
//
// Key components:
// - GojaJsEngine: The main struct representing the JavaScript engine.
// - NewGojaJsEngine: Function to create a new instance of the JavaScript engine.
//
// The engine exposes the global configuration properties as the `global`
// variable and registers the user-defined functions from the config so
// that model scripts can call back into Go.
package js

import (
	"errors"

	"github.com/bittoy/xdevs/types"

	"github.com/dop251/goja"
)

const (
	GlobalKey = "global"
)

// GojaJsEngine goja js engine
type GojaJsEngine struct {
	config types.Config
	vm     *goja.Runtime
}

// NewGojaJsEngine creates a new instance of the JavaScript engine and
// evaluates the provided script, which is expected to define the
// functions later invoked through Execute.
func NewGojaJsEngine(config types.Config, jsScript string, fromVars map[string]any) (*GojaJsEngine, error) {
	vm := goja.New()
	if _, err := vm.RunString(jsScript); err != nil {
		return nil, err
	}

	if len(config.Properties.Values()) != 0 {
		if err := vm.Set(GlobalKey, config.Properties.Values()); err != nil {
			config.Logger.Printf("set global properties error: %s", err.Error())
		}
	}
	for name, f := range config.Udf {
		if err := vm.Set(name, f); err != nil {
			config.Logger.Printf("set udf %s error: %s", name, err.Error())
		}
	}
	for name, v := range fromVars {
		if err := vm.Set(name, v); err != nil {
			config.Logger.Printf("set var %s error: %s", name, err.Error())
		}
	}

	return &GojaJsEngine{
		config: config,
		vm:     vm,
	}, nil
}

// HasFunction reports whether the script defined a function with the given name.
func (g *GojaJsEngine) HasFunction(funcName string) bool {
	_, ok := goja.AssertFunction(g.vm.Get(funcName))
	return ok
}

// SetVar binds a variable into the JavaScript runtime.
func (g *GojaJsEngine) SetVar(name string, value any) error {
	return g.vm.Set(name, value)
}

// Execute executes a JavaScript function defined by the script.
func (g *GojaJsEngine) Execute(funcName string, argumentList ...any) (out interface{}, err error) {
	var params []goja.Value
	if len(argumentList) > 0 {
		params = make([]goja.Value, len(argumentList))
		for i, v := range argumentList {
			params[i] = g.vm.ToValue(v)
		}
	}

	f, ok := goja.AssertFunction(g.vm.Get(funcName))
	if !ok {
		return nil, errors.New(funcName + " is not a function")
	}

	res, err := f(goja.Undefined(), params...)
	if err != nil {
		return nil, err
	}
	return res.Export(), nil
}

func (g *GojaJsEngine) Stop() {
}
