//
// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package experiment drives perturbation trials over grids of privacy
// budgets and amplification schemes and assembles the result rows consumed
// by external reporting. The package has no knowledge of file formats or
// plotting.
//
// Every trial derives its own random source from the configured seed and the
// trial identity, so trials share no mutable state and results are
// reproducible regardless of execution order or parallelism degree.
package experiment

import (
	"fmt"

	"github.com/google/dp-utility-eval/budget"
	"github.com/google/dp-utility-eval/mechanism"
)

// Method is an enum type. Its values are the supported estimation
// strategies for grouped aggregates.
type Method int

const (
	// OneStep perturbs labels and values jointly before aggregating.
	OneStep Method = iota
	// TwoPhase selects groups from perturbed labels, then perturbs each
	// selected group's true values.
	TwoPhase
)

func (m Method) String() string {
	switch m {
	case OneStep:
		return "one-step"
	case TwoPhase:
		return "two-phase"
	}
	return fmt.Sprintf("unknown method (%d)", int(m))
}

// Config enumerates one experiment grid.
type Config struct {
	// Epsilons are the nominal budgets; each must be an anchor of the
	// selected calibration tables unless the scheme is Identity.
	Epsilons []float64
	// Schemes are the amplification schemes to evaluate.
	Schemes []budget.Scheme
	// LargeAlphabet selects the large-alphabet calibration tables.
	LargeAlphabet bool
	// Sensitivity is the policy used to derive Laplace sensitivities.
	Sensitivity mechanism.SensitivityPolicy
	// Methods are the estimation strategies to run. Used by RunTopK only;
	// defaults to both strategies.
	Methods []Method
	// TopK is the number of top groups to estimate. Used by RunTopK only.
	TopK int
	// Seed is the global random seed.
	Seed uint64
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config must not be nil")
	}
	if len(c.Epsilons) == 0 {
		return fmt.Errorf("config enumerates no epsilon values")
	}
	if len(c.Schemes) == 0 {
		return fmt.Errorf("config enumerates no schemes")
	}
	return nil
}

func (c *Config) calibrate(scheme budget.Scheme, epsilon float64) (float64, error) {
	if c.LargeAlphabet {
		return budget.CalibrateLargeAlphabet(scheme, epsilon)
	}
	return budget.Calibrate(scheme, epsilon)
}

func (c *Config) methods() []Method {
	if len(c.Methods) == 0 {
		return []Method{OneStep, TwoPhase}
	}
	return c.Methods
}
