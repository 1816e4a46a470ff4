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

package mechanism

import (
	"github.com/google/dp-utility-eval/checks"
	"github.com/google/dp-utility-eval/rand"
)

// LaplaceOptions contains the options necessary to apply Laplace noise to a
// numeric column.
type LaplaceOptions struct {
	Epsilon     float64 // Privacy budget ε. Required.
	Sensitivity float64 // Sensitivity of the perturbed quantity. Required.
	// ClampNonNegative clamps perturbed values at 0. This is a biasing
	// post-processing step for quantities whose domain is non-negative, such
	// as elapsed time; it is not part of the privacy guarantee.
	ClampNonNegative bool
}

// AddLaplace adds i.i.d. Laplace noise with scale sensitivity/ε to every
// value of the column and returns the perturbed column. The input column is
// not modified.
func AddLaplace(values []float64, opt *LaplaceOptions, rnd *rand.Rand) ([]float64, error) {
	if opt == nil {
		opt = &LaplaceOptions{}
	}
	if err := checks.CheckEpsilonStrict(opt.Epsilon); err != nil {
		return nil, err
	}
	if err := checks.CheckSensitivityStrict(opt.Sensitivity); err != nil {
		return nil, err
	}
	b := opt.Sensitivity / opt.Epsilon
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + rnd.Laplace(b)
		if opt.ClampNonNegative && out[i] < 0 {
			out[i] = 0
		}
	}
	return out, nil
}
