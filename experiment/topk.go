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
	"github.com/google/dp-utility-eval/checks"
	"github.com/google/dp-utility-eval/dataset"
	"github.com/google/dp-utility-eval/estimate"
	"github.com/google/dp-utility-eval/rand"
)

// TopKReport is one result row of a top-k grouped-aggregate experiment.
// Groups are reported by categorical value, resolved through the column's
// alphabet, in estimated-rank order.
type TopKReport struct {
	Scheme          budget.Scheme
	Epsilon         float64
	EpsilonPrime    float64
	Method          Method
	TrueGroups      []string
	TrueMeans       []float64
	EstimatedGroups []string
	EstimatedMeans  []float64
	// Matches is the size of the overlap between the true and estimated
	// top-k group sets.
	Matches int
	// Accuracy is Matches divided by k.
	Accuracy float64
	// Precision is the mean per-group closeness of the estimated means to
	// the true means; estimated groups outside the true top-k score 0.
	Precision float64
	// RelativeError compares the mean of the estimated means against the
	// mean of the true means.
	RelativeError float64
}

// RunTopK estimates the top-k groups of a categorical column and their mean
// numeric values once per (scheme, ε, method) cell. Labels and values are
// aligned by record index.
//
// Cells run concurrently. A cell that fails validation contributes an error
// to the joined error and no row; the remaining rows are unaffected.
func RunTopK(cfg *Config, labels []string, values []float64) ([]TopKReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := checks.CheckTopK(cfg.TopK); err != nil {
		return nil, fmt.Errorf("RunTopK: %v", err)
	}
	if len(labels) != len(values) {
		return nil, fmt.Errorf("RunTopK: columns are misaligned, %d labels vs %d values", len(labels), len(values))
	}
	alphabet, err := dataset.NewAlphabet(labels)
	if err != nil {
		return nil, err
	}
	indices, err := alphabet.Indices(labels)
	if err != nil {
		return nil, err
	}
	col := estimate.GroupedColumn{Labels: indices, Values: values, K: alphabet.Size()}

	type cell struct {
		scheme  budget.Scheme
		epsilon float64
		method  Method
	}
	var cells []cell
	for _, s := range cfg.Schemes {
		for _, e := range cfg.Epsilons {
			for _, m := range cfg.methods() {
				cells = append(cells, cell{s, e, m})
			}
		}
	}
	rows := make([]*TopKReport, len(cells))
	errs := make([]error, len(cells))
	var wg sync.WaitGroup
	for i, c := range cells {
		wg.Add(1)
		go func(i int, c cell) {
			defer wg.Done()
			rows[i], errs[i] = runTopKCell(cfg, alphabet, col, c.scheme, c.epsilon, c.method)
		}(i, c)
	}
	wg.Wait()
	var out []TopKReport
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, errors.Join(errs...)
}

func runTopKCell(cfg *Config, alphabet *dataset.Alphabet, col estimate.GroupedColumn, scheme budget.Scheme, epsilon float64, method Method) (*TopKReport, error) {
	prime, err := cfg.calibrate(scheme, epsilon)
	if err != nil {
		return nil, fmt.Errorf("top-k cell (scheme %v, epsilon %v, %v): %w", scheme, epsilon, method, err)
	}
	rnd := rand.ForTrial(cfg.Seed, fmt.Sprintf("topk/%v/%v/%v", scheme, epsilon, method))
	opt := &estimate.TopKOptions{Epsilon: prime, K: cfg.TopK, Sensitivity: cfg.Sensitivity}

	var est *estimate.TopKEstimate
	switch method {
	case OneStep:
		est, err = estimate.OneStepTopK(col, opt, rnd)
	case TwoPhase:
		est, err = estimate.TwoPhaseTopK(col, opt, rnd)
	default:
		err = fmt.Errorf("%v", method)
	}
	if err != nil {
		return nil, fmt.Errorf("top-k cell (scheme %v, epsilon %v, %v): %w", scheme, epsilon, method, err)
	}

	r := &TopKReport{
		Scheme:         scheme,
		Epsilon:        epsilon,
		EpsilonPrime:   prime,
		Method:         method,
		TrueMeans:      est.TrueMeans,
		EstimatedMeans: est.EstimatedMeans,
		Matches:        est.Matches,
	}
	for _, g := range est.TrueGroups {
		r.TrueGroups = append(r.TrueGroups, alphabet.Value(g))
	}
	for _, g := range est.EstimatedGroups {
		r.EstimatedGroups = append(r.EstimatedGroups, alphabet.Value(g))
	}
	if r.Accuracy, err = estimate.TopKMatch(est.TrueGroups, est.EstimatedGroups, cfg.TopK); err != nil {
		return nil, fmt.Errorf("top-k cell (scheme %v, epsilon %v, %v): %w", scheme, epsilon, method, err)
	}
	if r.Precision, err = meanGroupPrecision(est); err != nil {
		return nil, fmt.Errorf("top-k cell (scheme %v, epsilon %v, %v): %w", scheme, epsilon, method, err)
	}
	if r.RelativeError, err = estimate.RelativeError(stat.Mean(est.TrueMeans, nil), stat.Mean(est.EstimatedMeans, nil)); err != nil {
		return nil, fmt.Errorf("top-k cell (scheme %v, epsilon %v, %v): %w", scheme, epsilon, method, err)
	}
	return r, nil
}

// meanGroupPrecision averages the per-group precision over the estimated
// top-k groups. A group that is not part of the true top-k has no baseline
// to compare against and scores 0.
func meanGroupPrecision(est *estimate.TopKEstimate) (float64, error) {
	if len(est.EstimatedGroups) == 0 {
		return 0, nil
	}
	var sum float64
	for i, g := range est.EstimatedGroups {
		j := indexOf(est.TrueGroups, g)
		if j < 0 {
			continue
		}
		p, err := estimate.Precision(est.TrueMeans[j], est.EstimatedMeans[i])
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum / float64(len(est.EstimatedGroups)), nil
}

func indexOf(groups []int, g int) int {
	for i, v := range groups {
		if v == g {
			return i
		}
	}
	return -1
}
