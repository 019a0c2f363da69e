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

package engine

import (
	"fmt"
	"sync"

	"github.com/bittoy/xdevs/components/devstone"
	"github.com/bittoy/xdevs/components/gpt"
	"github.com/bittoy/xdevs/components/script"
	"github.com/bittoy/xdevs/types"
)

// Registry is the default registry for model builders.
var Registry = new(ModelComponentRegistry)

// init registers the builders shipped with the module to the default registry.
func init() {
	var builders []types.ModelBuilder
	// Append builders from the component packages to the builders slice.
	builders = append(builders, gpt.Registry.Builders()...)
	builders = append(builders, devstone.Registry.Builders()...)
	builders = append(builders, script.Registry.Builders()...)

	// Register all builders to the default registry.
	for _, builder := range builders {
		_ = Registry.Register(builder)
	}
}

// ModelComponentRegistry is a registry for model builders.
type ModelComponentRegistry struct {
	// builders is a map of model builders keyed by their type.
	builders map[types.ModelType]types.ModelBuilder
	// RWMutex is a read/write mutex lock.
	sync.RWMutex
}

// Register adds a model builder to the registry.
func (r *ModelComponentRegistry) Register(builder types.ModelBuilder) error {
	r.Lock()
	defer r.Unlock()
	if r.builders == nil {
		r.builders = make(map[types.ModelType]types.ModelBuilder)
	}
	if _, ok := r.builders[builder.Type()]; ok {
		return fmt.Errorf("the builder already exists. modelType=%s", builder.Type())
	}
	r.builders[builder.Type()] = builder

	return nil
}

// Unregister removes a builder from the registry by its type.
func (r *ModelComponentRegistry) Unregister(modelType types.ModelType) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.builders[modelType]; !ok {
		return fmt.Errorf("builder not found. modelType=%s", modelType)
	}
	delete(r.builders, modelType)
	return nil
}

// NewBuilder creates a clean instance of the builder registered under modelType.
func (r *ModelComponentRegistry) NewBuilder(modelType types.ModelType) (types.ModelBuilder, error) {
	r.RLock()
	defer r.RUnlock()

	if builder, ok := r.builders[modelType]; !ok {
		return nil, fmt.Errorf("builder not found. modelType=%s", modelType)
	} else {
		return builder.New(), nil
	}
}

// GetBuilders returns a map of all registered builders.
func (r *ModelComponentRegistry) GetBuilders() map[types.ModelType]types.ModelBuilder {
	r.RLock()
	defer r.RUnlock()
	var builders = map[types.ModelType]types.ModelBuilder{}
	for k, v := range r.builders {
		builders[k] = v
	}
	return builders
}
