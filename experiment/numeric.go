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

	"gonum.org/v1/gonum/stat"

	"github.com/google/dp-utility-eval/budget"
	"github.com/google/dp-utility-eval/estimate"
	"github.com/google/dp-utility-eval/mechanism"
	"github.com/google/dp-utility-eval/rand"
)

// NumericReport is one result row of a numeric-mean experiment.
type NumericReport struct {
	Scheme        budget.Scheme
	Epsilon       float64
	EpsilonPrime  float64
	Sensitivity   float64
	TrueMean      float64
	PerturbedMean float64
	Precision     float64
	RelativeError float64
}

// RunNumeric adds Laplace noise to a non-negative numeric column once per
// (scheme, ε) cell at the calibrated budget ε′, clamping perturbed values at
// 0, and reports how well the column mean survives. The sensitivity is
// derived from the column by the configured policy.
//
// Cells run concurrently. A cell that fails validation contributes an error
// to the joined error and no row; the remaining rows are unaffected.
func RunNumeric(cfg *Config, values []float64) ([]NumericReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sensitivity, err := cfg.Sensitivity.Sensitivity(values)
	if err != nil {
		return nil, fmt.Errorf("RunNumeric: %w", err)
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
	rows := make([]*NumericReport, len(cells))
	errs := make([]error, len(cells))
	var wg sync.WaitGroup
	for i, c := range cells {
		wg.Add(1)
		go func(i int, c cell) {
			defer wg.Done()
			rows[i], errs[i] = runNumericCell(cfg, c.scheme, c.epsilon, sensitivity, values)
		}(i, c)
	}
	wg.Wait()
	var out []NumericReport
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, errors.Join(errs...)
}

func runNumericCell(cfg *Config, scheme budget.Scheme, epsilon, sensitivity float64, values []float64) (*NumericReport, error) {
	prime, err := cfg.calibrate(scheme, epsilon)
	if err != nil {
		return nil, fmt.Errorf("numeric cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	rnd := rand.ForTrial(cfg.Seed, fmt.Sprintf("numeric/%v/%v", scheme, epsilon))
	perturbed, err := mechanism.AddLaplace(values, &mechanism.LaplaceOptions{
		Epsilon:          prime,
		Sensitivity:      sensitivity,
		ClampNonNegative: true,
	}, rnd)
	if err != nil {
		return nil, fmt.Errorf("numeric cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	r := &NumericReport{
		Scheme:        scheme,
		Epsilon:       epsilon,
		EpsilonPrime:  prime,
		Sensitivity:   sensitivity,
		TrueMean:      stat.Mean(values, nil),
		PerturbedMean: stat.Mean(perturbed, nil),
	}
	if r.Precision, err = estimate.Precision(r.TrueMean, r.PerturbedMean); err != nil {
		return nil, fmt.Errorf("numeric cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	if r.RelativeError, err = estimate.RelativeError(r.TrueMean, r.PerturbedMean); err != nil {
		return nil, fmt.Errorf("numeric cell (scheme %v, epsilon %v): %w", scheme, epsilon, err)
	}
	return r, nil
}
