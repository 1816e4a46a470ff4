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

// Package estimate computes utility statistics comparing true columns and
// aggregates against their perturbed counterparts, and implements the
// one-step and two-phase strategies for estimating grouped aggregates under
// perturbation.
package estimate

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/dp-utility-eval/checks"
)

// ErrZeroBaseline indicates a ratio metric evaluated against a true
// aggregate of zero, for which the metric is undefined.
var ErrZeroBaseline = errors.New("true aggregate is zero, metric undefined")

// Accuracy returns the exact-match rate between two aligned categorical
// columns.
func Accuracy(truth, perturbed []int) (float64, error) {
	if len(truth) != len(perturbed) {
		return 0, fmt.Errorf("Accuracy: column lengths differ, %d vs %d", len(truth), len(perturbed))
	}
	if len(truth) == 0 {
		return 0, fmt.Errorf("Accuracy: columns contain no values")
	}
	matches := 0
	for i, v := range truth {
		if v == perturbed[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(truth)), nil
}

// Precision returns max(0, 1 - |estimated-truth|/|truth|), the closeness of
// an estimated aggregate to the true one, clamped at 0.
//
// A true aggregate of 0 leaves the ratio undefined: a 0 estimate of a 0
// aggregate is treated as exact (1.0); any other estimate fails with
// ErrZeroBaseline.
func Precision(truth, estimated float64) (float64, error) {
	if truth == 0 {
		if estimated == 0 {
			return 1, nil
		}
		return 0, fmt.Errorf("%w: estimated %f against a zero baseline", ErrZeroBaseline, estimated)
	}
	return math.Max(0, 1-math.Abs(estimated-truth)/math.Abs(truth)), nil
}

// RelativeError returns |estimated-truth|/|truth|. Fails with
// ErrZeroBaseline when the true aggregate is 0.
func RelativeError(truth, estimated float64) (float64, error) {
	if truth == 0 {
		return 0, fmt.Errorf("%w: relative error of estimate %f", ErrZeroBaseline, estimated)
	}
	return math.Abs(estimated-truth) / math.Abs(truth), nil
}

// TopKMatch returns the fraction of the true top-k groups recovered by the
// estimated top-k groups. Overlap is set-based; ranking order is ignored.
func TopKMatch(truth, estimated []int, k int) (float64, error) {
	if err := checks.CheckTopK(k); err != nil {
		return 0, fmt.Errorf("TopKMatch: %v", err)
	}
	in := make(map[int]bool, len(truth))
	for _, g := range truth {
		in[g] = true
	}
	matches := 0
	for _, g := range estimated {
		if in[g] {
			matches++
			delete(in, g)
		}
	}
	return float64(matches) / float64(k), nil
}

// MSE returns the mean squared error between two aligned numeric columns.
func MSE(truth, estimated []float64) (float64, error) {
	if len(truth) != len(estimated) {
		return 0, fmt.Errorf("MSE: column lengths differ, %d vs %d", len(truth), len(estimated))
	}
	if len(truth) == 0 {
		return 0, fmt.Errorf("MSE: columns contain no values")
	}
	var sum float64
	for i, v := range truth {
		d := estimated[i] - v
		sum += d * d
	}
	return sum / float64(len(truth)), nil
}

// HistogramPrecision returns the count-weighted complement of the per-bucket
// relative count error, clamped at 0. Buckets with a zero true count
// contribute no error.
func HistogramPrecision(truth, estimated []int64) (float64, error) {
	if len(truth) != len(estimated) {
		return 0, fmt.Errorf("HistogramPrecision: histogram lengths differ, %d vs %d", len(truth), len(estimated))
	}
	var total, weightedError float64
	for i, tc := range truth {
		total += float64(tc)
		if tc == 0 {
			continue
		}
		// The per-bucket relative error is weighted by the bucket's true
		// count, so the weight and the denominator cancel.
		weightedError += math.Abs(float64(estimated[i] - tc))
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: histogram is empty", ErrZeroBaseline)
	}
	return math.Max(0, 1-weightedError/total), nil
}
