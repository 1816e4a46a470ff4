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

package experiment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/dp-utility-eval/budget"
	"github.com/google/dp-utility-eval/estimate"
	"github.com/google/dp-utility-eval/mechanism"
	"github.com/google/dp-utility-eval/rand"
)

// BinaryReport is one result row of a binary-proportion experiment.
type BinaryReport struct {
	Scheme              budget.Scheme
	Epsilon             float64
	EpsilonPrime        float64
	TrueCountOne        int
	TrueCountZero       int
	PerturbedCountOne   int
	PerturbedCountZero  int
	TrueProportion      float64
	PerturbedProportion float64
	Accuracy            float64
	Precision           float64
	RelativeError       float64
}

// RunBinary perturbs a binary column once per (scheme, ε) cell with binary
// randomized response at the calibrated budget ε′ and reports how well the
// proportion of ones survives.
//
// Cells run concurrently. A cell that fails validation contributes an error
// to the joined error and no row; the remaining rows are unaffected.
func RunBinary(cfg *Config, bits []int) ([]BinaryReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(bits) == 0 {
		return nil, fmt.Errorf("RunBinary: column contains no values")
	}
	type cell struct {
		scheme  budget.Scheme
		epsilon float64
	}
	var cells []cell
	for _, s := range cfg.Schemes {
		for _, e := range cfg.Epsilons {
			cells = append(cells, cell{s, e})
		}
	}
	rows := make([]*BinaryReport, len(cells))
	errs := make([]error, len(cells))
	var wg sync.WaitGroup
	for i, c := range cells {
		wg.Add(1)
		go func(i int, c cell) {
			defer wg.Done()
			rows[i], errs[i] = runBinaryCell(cfg, c.scheme, c.epsilon, bits)
		}(i, c)
	}
	wg.Wait()
	var out []BinaryReport
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, errors.Join(errs...)
}

func runBinaryCell(cfg *Config, scheme budget.Scheme, epsilon float64, bits []int) (*BinaryReport, error) {
	prime, err := cfg.calibrate(scheme, epsilon)
	if err != nil {
		return nil, fmt.Errorf("binary cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	rnd := rand.ForTrial(cfg.Seed, fmt.Sprintf("binary/%v/%v", scheme, epsilon))
	perturbed, err := mechanism.PerturbBinary(bits, prime, rnd)
	if err != nil {
		return nil, fmt.Errorf("binary cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	n := len(bits)
	trueOnes := countOnes(bits)
	perturbedOnes := countOnes(perturbed)
	r := &BinaryReport{
		Scheme:              scheme,
		Epsilon:             epsilon,
		EpsilonPrime:        prime,
		TrueCountOne:        trueOnes,
		TrueCountZero:       n - trueOnes,
		PerturbedCountOne:   perturbedOnes,
		PerturbedCountZero:  n - perturbedOnes,
		TrueProportion:      float64(trueOnes) / float64(n),
		PerturbedProportion: float64(perturbedOnes) / float64(n),
	}
	if r.Accuracy, err = estimate.Accuracy(bits, perturbed); err != nil {
		return nil, fmt.Errorf("binary cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	if r.Precision, err = estimate.Precision(r.TrueProportion, r.PerturbedProportion); err != nil {
		return nil, fmt.Errorf("binary cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	if r.RelativeError, err = estimate.RelativeError(r.TrueProportion, r.PerturbedProportion); err != nil {
		return nil, fmt.Errorf("binary cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	return r, nil
}

func countOnes(bits []int) int {
	n := 0
	for _, b := range bits {
		if b == 1 {
			n++
		}
	}
	return n
}
