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
	"fmt"
)

// SensitivityPolicy is an enum type. Its values are the supported ways of
// deriving a Laplace sensitivity from an observed column. The policy is
// always chosen by the caller; the mechanism never infers one.
type SensitivityPolicy int

const (
	// RangeSensitivity uses the observed max-min of the column, bounding the
	// change of any single record by the column range. Used for time-delta
	// analysis.
	RangeSensitivity SensitivityPolicy = iota
	// MeanContributionSensitivity uses max/n, approximating the contribution
	// of a single record to the column mean. Used for currency-aggregate
	// analysis.
	MeanContributionSensitivity
)

func (p SensitivityPolicy) String() string {
	switch p {
	case RangeSensitivity:
		return "range"
	case MeanContributionSensitivity:
		return "mean-contribution"
	}
	return fmt.Sprintf("unknown sensitivity policy (%d)", int(p))
}

// Sensitivity resolves the policy over an observed column. A degenerate
// column (e.g. constant under RangeSensitivity) may resolve to 0, which
// AddLaplace rejects.
func (p SensitivityPolicy) Sensitivity(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("Sensitivity: column contains no values")
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	switch p {
	case RangeSensitivity:
		return max - min, nil
	case MeanContributionSensitivity:
		return max / float64(len(values)), nil
	}
	return 0, fmt.Errorf("Sensitivity: %v", p)
}
