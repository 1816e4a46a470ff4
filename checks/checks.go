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

// Package checks contains input validation for the perturbation mechanisms
// and budget calibration.
package checks

import (
	"errors"
	"fmt"
	"math"
)

// Validation failures wrap one of these sentinels so that callers running
// per-parameter experiment loops can classify a failed cell with errors.Is.
var (
	// ErrInvalidBudget indicates a privacy budget ε that is not strictly
	// positive and finite.
	ErrInvalidBudget = errors.New("invalid privacy budget")
	// ErrInvalidSensitivity indicates a sensitivity that is not strictly
	// positive and finite.
	ErrInvalidSensitivity = errors.New("invalid sensitivity")
	// ErrEmptyAlphabet indicates a categorical alphabet of size zero.
	ErrEmptyAlphabet = errors.New("empty alphabet")
)

const (
	epsilonName     = "Epsilon"
	sensitivityName = "Sensitivity"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	var name string
	switch len(nameSlice) {
	case 0:
		name = defaultName
	case 1:
		name = nameSlice[0]
	default:
		return "", fmt.Errorf("This should never happen. There should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
	return name, nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive, +∞ or NaN.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: %s is %f, must be strictly positive and finite", ErrInvalidBudget, epsName, epsilon)
	}
	return nil
}

// CheckSensitivityStrict returns an error if the sensitivity is nonpositive,
// +∞ or NaN.
func CheckSensitivityStrict(sensitivity float64, name ...string) error {
	sensName, err := verifyName(sensitivityName, name)
	if err != nil {
		return err
	}
	if sensitivity <= 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return fmt.Errorf("%w: %s is %f, must be strictly positive and finite", ErrInvalidSensitivity, sensName, sensitivity)
	}
	return nil
}

// CheckAlphabetSize returns an error if the alphabet cardinality k is not
// positive.
func CheckAlphabetSize(k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: alphabet size is %d, must be strictly positive", ErrEmptyAlphabet, k)
	}
	return nil
}

// CheckAlphabetIndex returns an error if the value is not a member of the
// index set {0,...,k-1} of an alphabet of size k.
func CheckAlphabetIndex(value, k int) error {
	if value < 0 || value >= k {
		return fmt.Errorf("value %d is outside the alphabet index range [0, %d)", value, k)
	}
	return nil
}

// CheckTopK returns an error if the top-k selection size is not positive.
func CheckTopK(k int) error {
	if k <= 0 {
		return fmt.Errorf("top-k size is %d, must be strictly positive", k)
	}
	return nil
}
