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

package rand

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grd/stat"
)

func drawSequence(r *Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Uniform()
	}
	return out
}

func TestNewIsDeterministic(t *testing.T) {
	got := drawSequence(New(42), 1000)
	want := drawSequence(New(42), 1000)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("same seed produced different sequences (-want +got):\n%s", diff)
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := drawSequence(New(1), 100)
	b := drawSequence(New(2), 100)
	if cmp.Equal(a, b) {
		t.Errorf("seeds 1 and 2 produced identical sequences")
	}
}

func TestForTrialIsDeterministic(t *testing.T) {
	got := drawSequence(ForTrial(7, "topk/amp-sdp/0.3/one-step"), 100)
	want := drawSequence(ForTrial(7, "topk/amp-sdp/0.3/one-step"), 100)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("same trial identity produced different sequences (-want +got):\n%s", diff)
	}
}

func TestForTrialSeparatesTrials(t *testing.T) {
	a := drawSequence(ForTrial(7, "trial-a"), 100)
	b := drawSequence(ForTrial(7, "trial-b"), 100)
	if cmp.Equal(a, b) {
		t.Errorf("distinct trial identities produced identical sequences")
	}
}

func TestUniformRange(t *testing.T) {
	r := New(3)
	for i := 0; i < 10000; i++ {
		u := r.Uniform()
		if u < 0 || u >= 1 {
			t.Fatalf("Uniform() = %f, want value in [0, 1)", u)
		}
	}
}

func TestI63nRange(t *testing.T) {
	r := New(4)
	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		v := r.I63n(5)
		if v < 0 || v >= 5 {
			t.Fatalf("I63n(5) = %d, want value in {0,...,4}", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Errorf("I63n(5) hit %d distinct values over 10000 draws, want 5", len(seen))
	}
}

func TestLaplaceStatistics(t *testing.T) {
	const numberOfSamples = 125000
	for _, scale := range []float64{0.5, 1.0, 10.0} {
		r := New(12345)
		samples := make(stat.Float64Slice, numberOfSamples)
		for i := 0; i < numberOfSamples; i++ {
			samples[i] = r.Laplace(scale)
		}
		variance := 2 * scale * scale
		sampleMean, sampleVariance := stat.Mean(samples), stat.Variance(samples)
		// Assuming the samples are Laplace distributed with mean 0 and
		// variance 2·scale², the sample mean is approximately Gaussian with
		// mean 0 and standard deviation sqrt(variance / numberOfSamples).
		// The tolerance is the 99.9995% quantile of that distribution, so the
		// test falsely rejects with a probability of 10⁻⁵.
		meanErrorTolerance := 4.41717 * math.Sqrt(variance/float64(numberOfSamples))
		// The sample variance is approximately Gaussian with mean variance
		// and standard deviation sqrt(5)·variance/sqrt(numberOfSamples).
		varianceErrorTolerance := 4.41717 * math.Sqrt(5.0) * variance / math.Sqrt(float64(numberOfSamples))

		if math.Abs(sampleMean) > meanErrorTolerance {
			t.Errorf("scale %f: got mean = %f, want 0 (tolerance %f)", scale, sampleMean, meanErrorTolerance)
		}
		if math.Abs(sampleVariance-variance) > varianceErrorTolerance {
			t.Errorf("scale %f: got variance = %f, want %f (tolerance %f)", scale, sampleVariance, variance, varianceErrorTolerance)
		}
	}
}

func TestBooleanIsBalanced(t *testing.T) {
	r := New(5)
	trues := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if r.Boolean() {
			trues++
		}
	}
	rate := float64(trues) / float64(n)
	if math.Abs(rate-0.5) > 0.01 {
		t.Errorf("Boolean() returned true at rate %f over %d draws, want 0.5", rate, n)
	}
}
