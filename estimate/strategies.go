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

package estimate

import (
	"fmt"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/stat"

	"github.com/google/dp-utility-eval/checks"
	"github.com/google/dp-utility-eval/mechanism"
	"github.com/google/dp-utility-eval/rand"
)

// GroupedColumn is an aligned categorical grouping and numeric target, e.g.
// the job family and retirement amount of every record. Labels are alphabet
// indices; row i of Labels and row i of Values belong to the same record.
type GroupedColumn struct {
	Labels []int
	Values []float64
	K      int // alphabet cardinality
}

func (c GroupedColumn) validate() error {
	if err := checks.CheckAlphabetSize(c.K); err != nil {
		return err
	}
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("grouped column is misaligned, %d labels vs %d values", len(c.Labels), len(c.Values))
	}
	if len(c.Labels) == 0 {
		return fmt.Errorf("grouped column contains no records")
	}
	return nil
}

// TopKOptions contains the options necessary to run a top-k estimation
// strategy.
type TopKOptions struct {
	// Epsilon is the calibrated budget ε′ consumed by the mechanisms.
	Epsilon float64
	// K is the number of top groups to estimate.
	K int
	// Sensitivity derives the Laplace sensitivity from the numeric values.
	Sensitivity mechanism.SensitivityPolicy
}

// TopKEstimate holds the true and estimated top-k groups, ranked by count
// descending, and the mean numeric value per group.
type TopKEstimate struct {
	TrueGroups      []int
	TrueMeans       []float64
	EstimatedGroups []int
	EstimatedMeans  []float64
	// Matches is the size of the intersection of TrueGroups and
	// EstimatedGroups.
	Matches int
}

// OneStepTopK estimates the top-k groups and their means by perturbing the
// categorical label and the numeric value of every record independently and
// recomputing the group-by aggregates from the jointly perturbed data. Both
// the ranking and the per-group means carry compounded noise.
func OneStepTopK(col GroupedColumn, opt *TopKOptions, rnd *rand.Rand) (*TopKEstimate, error) {
	est, err := trueTopK(col, opt)
	if err != nil {
		return nil, err
	}
	perturbedLabels, err := mechanism.PerturbKAry(col.Labels, col.K, opt.Epsilon, rnd)
	if err != nil {
		return nil, err
	}
	sensitivity, err := opt.Sensitivity.Sensitivity(col.Values)
	if err != nil {
		return nil, err
	}
	perturbedValues, err := mechanism.AddLaplace(col.Values, &mechanism.LaplaceOptions{
		Epsilon:     opt.Epsilon,
		Sensitivity: sensitivity,
	}, rnd)
	if err != nil {
		return nil, err
	}

	counts, err := Histogram(perturbedLabels, col.K)
	if err != nil {
		return nil, err
	}
	est.EstimatedGroups = TopK(counts, opt.K)
	for _, g := range est.EstimatedGroups {
		est.EstimatedMeans = append(est.EstimatedMeans, groupMean(perturbedLabels, perturbedValues, g))
	}
	est.Matches = intersectionSize(est.TrueGroups, est.EstimatedGroups)
	return est, nil
}

// TwoPhaseTopK first perturbs only the categorical labels to select the
// estimated top-k groups from the kRR-perturbed histogram, then applies the
// Laplace mechanism to each selected group's true numeric values to estimate
// its mean. Ranking noise is thereby isolated from magnitude noise; this is
// the recommended higher-fidelity estimator.
func TwoPhaseTopK(col GroupedColumn, opt *TopKOptions, rnd *rand.Rand) (*TopKEstimate, error) {
	est, err := trueTopK(col, opt)
	if err != nil {
		return nil, err
	}
	perturbedLabels, err := mechanism.PerturbKAry(col.Labels, col.K, opt.Epsilon, rnd)
	if err != nil {
		return nil, err
	}
	counts, err := Histogram(perturbedLabels, col.K)
	if err != nil {
		return nil, err
	}
	est.EstimatedGroups = TopK(counts, opt.K)

	for _, g := range est.EstimatedGroups {
		values := groupValues(col.Labels, col.Values, g)
		if len(values) == 0 {
			log.Warningf("TwoPhaseTopK: selected group %d has no records, estimating mean 0", g)
			est.EstimatedMeans = append(est.EstimatedMeans, 0)
			continue
		}
		// Sensitivity is resolved per group: the perturbed quantity is the
		// group's own aggregate, not the whole column's.
		sensitivity, err := opt.Sensitivity.Sensitivity(values)
		if err != nil {
			return nil, err
		}
		perturbed, err := mechanism.AddLaplace(values, &mechanism.LaplaceOptions{
			Epsilon:     opt.Epsilon,
			Sensitivity: sensitivity,
		}, rnd)
		if err != nil {
			return nil, fmt.Errorf("TwoPhaseTopK: group %d: %w", g, err)
		}
		est.EstimatedMeans = append(est.EstimatedMeans, stat.Mean(perturbed, nil))
	}
	est.Matches = intersectionSize(est.TrueGroups, est.EstimatedGroups)
	return est, nil
}

// trueTopK validates the inputs and computes the ground-truth ranking and
// means shared by both strategies.
func trueTopK(col GroupedColumn, opt *TopKOptions) (*TopKEstimate, error) {
	if opt == nil {
		opt = &TopKOptions{}
	}
	if err := col.validate(); err != nil {
		return nil, err
	}
	if err := checks.CheckEpsilonStrict(opt.Epsilon); err != nil {
		return nil, err
	}
	if err := checks.CheckTopK(opt.K); err != nil {
		return nil, err
	}
	counts, err := Histogram(col.Labels, col.K)
	if err != nil {
		return nil, err
	}
	est := &TopKEstimate{TrueGroups: TopK(counts, opt.K)}
	for _, g := range est.TrueGroups {
		est.TrueMeans = append(est.TrueMeans, groupMean(col.Labels, col.Values, g))
	}
	return est, nil
}

// groupValues collects the values of the records whose label equals group.
func groupValues(labels []int, values []float64, group int) []float64 {
	var out []float64
	for i, l := range labels {
		if l == group {
			out = append(out, values[i])
		}
	}
	return out
}

// groupMean returns the mean value of the records whose label equals group,
// or 0 if the group has no records.
func groupMean(labels []int, values []float64, group int) float64 {
	v := groupValues(labels, values, group)
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}

func intersectionSize(a, b []int) int {
	in := make(map[int]bool, len(a))
	for _, g := range a {
		in[g] = true
	}
	n := 0
	for _, g := range b {
		if in[g] {
			n++
			delete(in, g)
		}
	}
	return n
}
