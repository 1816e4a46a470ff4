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

// Package mechanism implements the randomization mechanisms that perturb
// column values: binary and k-ary randomized response for categorical data
// and additive Laplace noise for numeric data.
//
// All mechanisms consume randomness exclusively from an injected *rand.Rand,
// so a perturbation is exactly reproducible given a seed.
package mechanism

import (
	"fmt"
	"math"

	"github.com/google/dp-utility-eval/checks"
	"github.com/google/dp-utility-eval/rand"
)

// RetentionProbability returns the probability p = e^ε/(e^ε+k-1) with which
// randomized response reports the true value for an alphabet of size k.
// For all ε > 0 and k ≥ 1, 1/k ≤ p ≤ 1, and p is strictly increasing in ε.
func RetentionProbability(epsilon float64, k int) float64 {
	e := math.Exp(epsilon)
	if math.IsInf(e, 1) {
		return 1
	}
	return e / (e + float64(k) - 1)
}

// PerturbBinary applies binary randomized response to a column of values,
// each of which must be 0 or 1. Every value independently is kept with
// probability p = e^ε/(e^ε+1) and flipped otherwise.
func PerturbBinary(values []int, epsilon float64, rnd *rand.Rand) ([]int, error) {
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return nil, err
	}
	p := RetentionProbability(epsilon, 2)
	out := make([]int, len(values))
	for i, v := range values {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("PerturbBinary: value %d at row %d is not binary", v, i)
		}
		if rnd.Uniform() < p {
			out[i] = v
		} else {
			out[i] = 1 - v
		}
	}
	return out, nil
}

// PerturbKAry applies k-ary randomized response to a column of alphabet
// indices in {0,...,k-1}. Every value independently is kept with probability
// p = e^ε/(e^ε+k-1); otherwise a replacement is drawn uniformly from the k-1
// other values, never from the full alphabet. A single-value alphabet
// degenerates to the identity since p = 1.
func PerturbKAry(values []int, k int, epsilon float64, rnd *rand.Rand) ([]int, error) {
	if err := checks.CheckAlphabetSize(k); err != nil {
		return nil, err
	}
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return nil, err
	}
	p := RetentionProbability(epsilon, k)
	out := make([]int, len(values))
	for i, v := range values {
		if err := checks.CheckAlphabetIndex(v, k); err != nil {
			return nil, fmt.Errorf("PerturbKAry: row %d: %v", i, err)
		}
		if rnd.Uniform() < p {
			out[i] = v
			continue
		}
		other := int(rnd.I63n(int64(k - 1)))
		if other >= v {
			other++
		}
		out[i] = other
	}
	return out, nil
}
