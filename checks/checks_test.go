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

package checks

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestCheckEpsilonStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"positive epsilon", 0.3, false},
		{"large epsilon", 13.219, false},
		{"zero epsilon", 0, true},
		{"negative epsilon", -1, true},
		{"infinite epsilon", math.Inf(1), true},
		{"NaN epsilon", math.NaN(), true},
	} {
		err := CheckEpsilonStrict(tc.epsilon)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: CheckEpsilonStrict(%f) = %v, wantErr %t", tc.desc, tc.epsilon, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("%s: CheckEpsilonStrict(%f) = %v, want ErrInvalidBudget", tc.desc, tc.epsilon, err)
		}
	}
}

func TestCheckEpsilonStrictName(t *testing.T) {
	err := CheckEpsilonStrict(-1, "EpsilonPrime")
	if err == nil || !strings.Contains(err.Error(), "EpsilonPrime") {
		t.Errorf("CheckEpsilonStrict(-1, \"EpsilonPrime\") = %v, want error naming EpsilonPrime", err)
	}
}

func TestCheckSensitivityStrict(t *testing.T) {
	for _, tc := range []struct {
		desc        string
		sensitivity float64
		wantErr     bool
	}{
		{"positive sensitivity", 10.0, false},
		{"zero sensitivity", 0, true},
		{"negative sensitivity", -0.5, true},
		{"infinite sensitivity", math.Inf(1), true},
		{"NaN sensitivity", math.NaN(), true},
	} {
		err := CheckSensitivityStrict(tc.sensitivity)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: CheckSensitivityStrict(%f) = %v, wantErr %t", tc.desc, tc.sensitivity, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidSensitivity) {
			t.Errorf("%s: CheckSensitivityStrict(%f) = %v, want ErrInvalidSensitivity", tc.desc, tc.sensitivity, err)
		}
	}
}

func TestCheckAlphabetSize(t *testing.T) {
	if err := CheckAlphabetSize(2); err != nil {
		t.Errorf("CheckAlphabetSize(2) = %v, want nil", err)
	}
	if err := CheckAlphabetSize(1); err != nil {
		t.Errorf("CheckAlphabetSize(1) = %v, want nil", err)
	}
	for _, k := range []int{0, -3} {
		err := CheckAlphabetSize(k)
		if !errors.Is(err, ErrEmptyAlphabet) {
			t.Errorf("CheckAlphabetSize(%d) = %v, want ErrEmptyAlphabet", k, err)
		}
	}
}

func TestCheckAlphabetIndex(t *testing.T) {
	for _, tc := range []struct {
		value, k int
		wantErr  bool
	}{
		{0, 2, false},
		{1, 2, false},
		{2, 2, true},
		{-1, 2, true},
		{41, 42, false},
	} {
		err := CheckAlphabetIndex(tc.value, tc.k)
		if (err != nil) != tc.wantErr {
			t.Errorf("CheckAlphabetIndex(%d, %d) = %v, wantErr %t", tc.value, tc.k, err, tc.wantErr)
		}
	}
}

func TestCheckTopK(t *testing.T) {
	if err := CheckTopK(5); err != nil {
		t.Errorf("CheckTopK(5) = %v, want nil", err)
	}
	for _, k := range []int{0, -1} {
		if err := CheckTopK(k); err == nil {
			t.Errorf("CheckTopK(%d) = nil, want error", k)
		}
	}
}
