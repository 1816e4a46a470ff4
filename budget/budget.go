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

// Package budget calibrates nominal privacy budgets against amplification
// schemes.
//
// Under an amplification scheme (shuffling before aggregation), each record
// may consume a larger local budget ε′ while the population-level guarantee
// stays at the nominal ε. The mapping ε → ε′ was measured empirically for the
// evaluated protocols and is encoded here as finite anchor tables; lookups
// are exact-match only, there is no interpolation between anchors.
package budget

import (
	"errors"
	"fmt"

	"github.com/google/dp-utility-eval/checks"
)

// Scheme is an enum type. Its values are the supported amplification schemes.
type Scheme int

const (
	// Identity applies no amplification; the calibrated budget equals the
	// nominal one.
	Identity Scheme = iota
	// AmpSDP calibrates against the local shuffle-model amplification
	// protocol.
	AmpSDP
	// NetworkShuffling calibrates against the network-shuffling protocol.
	NetworkShuffling
)

func (s Scheme) String() string {
	switch s {
	case Identity:
		return "identity"
	case AmpSDP:
		return "amp-sdp"
	case NetworkShuffling:
		return "network-shuffling"
	}
	return fmt.Sprintf("unknown scheme (%d)", int(s))
}

var (
	// ErrUnsupportedScheme indicates a Scheme value with no calibration
	// tables.
	ErrUnsupportedScheme = errors.New("unsupported amplification scheme")
	// ErrBudgetNotCalibrated indicates an ε outside the anchor set of the
	// selected table.
	ErrBudgetNotCalibrated = errors.New("budget not calibrated")
)

// Anchor tables for binary and small categorical alphabets.
var (
	ampSDPAnchors = map[float64]float64{
		0.3: 8.418,
		0.5: 9.440,
		0.7: 10.188,
		1.0: 11.086,
		1.2: 11.602,
		1.5: 12.285,
		1.7: 12.678,
		2.0: 13.219,
	}
	networkShufflingAnchors = map[float64]float64{
		0.3: 5.612,
		0.5: 6.293,
		0.7: 6.792,
		1.0: 7.391,
		1.2: 7.735,
		1.5: 8.190,
		1.7: 8.452,
		2.0: 8.813,
	}
)

// Anchor tables for large categorical alphabets, e.g. department codes.
var (
	ampSDPLargeAnchors = map[float64]float64{
		0.3: 4.545,
		0.5: 7.575,
		0.7: 10.605,
		1.0: 15.150,
		1.2: 18.180,
		1.5: 22.725,
		1.7: 25.755,
		2.0: 30.300,
	}
	networkShufflingLargeAnchors = map[float64]float64{
		0.3: 5.612,
		0.5: 6.293,
		0.7: 6.792,
		1.0: 7.391,
		1.2: 7.735,
		1.5: 8.190,
		1.7: 8.452,
		2.0: 8.813,
	}
)

// PrivacyBudget pairs a nominal budget with the amplification scheme under
// which it is consumed.
type PrivacyBudget struct {
	Epsilon float64
	Scheme  Scheme
}

// Calibrate resolves the budget against the small-alphabet tables.
func (b PrivacyBudget) Calibrate() (float64, error) {
	return Calibrate(b.Scheme, b.Epsilon)
}

// CalibrateLargeAlphabet resolves the budget against the large-alphabet
// tables.
func (b PrivacyBudget) CalibrateLargeAlphabet() (float64, error) {
	return CalibrateLargeAlphabet(b.Scheme, b.Epsilon)
}

// Calibrate maps a nominal budget ε to the local budget ε′ consumed before
// amplification under the given scheme, using the small-alphabet tables.
// For every anchor, ε′ ≥ ε. Fails if ε is not strictly positive and finite,
// if the scheme is unknown, or if ε is not an anchor of the table.
func Calibrate(scheme Scheme, epsilon float64) (float64, error) {
	return calibrate(scheme, epsilon, ampSDPAnchors, networkShufflingAnchors)
}

// CalibrateLargeAlphabet is Calibrate over the large-alphabet tables, which
// were measured separately because kRR noise grows with the alphabet
// cardinality.
func CalibrateLargeAlphabet(scheme Scheme, epsilon float64) (float64, error) {
	return calibrate(scheme, epsilon, ampSDPLargeAnchors, networkShufflingLargeAnchors)
}

func calibrate(scheme Scheme, epsilon float64, amp, net map[float64]float64) (float64, error) {
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return 0, err
	}
	var table map[float64]float64
	switch scheme {
	case Identity:
		return epsilon, nil
	case AmpSDP:
		table = amp
	case NetworkShuffling:
		table = net
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedScheme, scheme)
	}
	prime, ok := table[epsilon]
	if !ok {
		return 0, fmt.Errorf("%w: no %v anchor for epsilon %v", ErrBudgetNotCalibrated, scheme, epsilon)
	}
	return prime, nil
}
