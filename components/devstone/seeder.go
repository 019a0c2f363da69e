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
	"github.com/bittoy/xdevs/modeling"
	"github.com/bittoy/xdevs/types"
)

// devStoneSeeder fires a single message at t = 0 to wake the tree up.
type devStoneSeeder struct {
	*modeling.Component
	sigma  float64
	output modeling.OutPort[int]
}

func newDevStoneSeeder(name string) *devStoneSeeder {
	component := modeling.NewComponent(name)
	return &devStoneSeeder{
		Component: component,
		sigma:     0,
		output:    modeling.AddOutPort[int](component, "output"),
	}
}

func (s *devStoneSeeder) Lambda() {
	s.output.AddValue(0)
}

func (s *devStoneSeeder) DeltaInt() {
	s.sigma = types.Infinity
}

func (s *devStoneSeeder) DeltaExt(_ float64) {
	s.sigma = types.Infinity
}

func (s *devStoneSeeder) Ta() float64 {
	return s.sigma
}
