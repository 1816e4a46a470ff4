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

// Package rand provides deterministic random sources for the perturbation
// mechanisms.
//
// Every mechanism invocation consumes randomness from an explicitly supplied
// *Rand; there is no package-level random state. A *Rand is owned by exactly
// one experiment trial, which makes trial results reproducible regardless of
// execution order or parallelism degree.
package rand

import (
	"hash/fnv"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Rand is a seeded source of the random draws used by the mechanisms.
//
// Not safe for concurrent use; concurrent trials must each own their own
// instance.
type Rand struct {
	src *xrand.Rand
}

// New returns a Rand seeded with the given seed. Two instances constructed
// from the same seed produce bit-identical draw sequences.
func New(seed uint64) *Rand {
	return &Rand{src: xrand.New(xrand.NewSource(seed))}
}

// ForTrial derives a Rand for a single trial from a global seed and a trial
// identifier. The derived seed depends only on the two inputs, never on
// wall-clock time or on how many other trials have already run.
func ForTrial(seed uint64, trialID string) *Rand {
	h := fnv.New64a()
	h.Write([]byte(trialID))
	return New(seed ^ h.Sum64())
}

// Uniform returns a float64 drawn uniformly from [0, 1).
func (r *Rand) Uniform() float64 {
	return r.src.Float64()
}

// I63n returns an integer from the set {0,...,n-1} uniformly at random.
// The value of n must be positive.
func (r *Rand) I63n(n int64) int64 {
	return r.src.Int63n(n)
}

// Boolean returns true or false with equal probability.
func (r *Rand) Boolean() bool {
	return r.src.Uint64()&1 == 1
}

// Laplace returns a draw from the Laplace distribution with mean 0 and the
// given scale.
func (r *Rand) Laplace(scale float64) float64 {
	return distuv.Laplace{Mu: 0, Scale: scale, Src: r.src}.Rand()
}
