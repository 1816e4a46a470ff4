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

// Package dataset holds the read-only column types shared by the mechanisms
// and estimators.
package dataset

import (
	"fmt"
	"sort"

	"github.com/google/dp-utility-eval/checks"
)

// Alphabet is the ordered set of distinct categorical values observed in a
// column. Indices are assigned by sorted value order, so the assignment is
// stable across invocations and independent of row order.
//
// An Alphabet is immutable once built and safe for concurrent reads.
type Alphabet struct {
	values []string
	index  map[string]int
}

// NewAlphabet builds the alphabet of a categorical column.
func NewAlphabet(column []string) (*Alphabet, error) {
	seen := make(map[string]bool)
	var values []string
	for _, v := range column {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column contains no values", checks.ErrEmptyAlphabet)
	}
	sort.Strings(values)
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}
	return &Alphabet{values: values, index: index}, nil
}

// Size returns the cardinality k of the alphabet.
func (a *Alphabet) Size() int {
	return len(a.values)
}

// Index returns the stable index of a value and whether the value is a
// member of the alphabet.
func (a *Alphabet) Index(value string) (int, bool) {
	i, ok := a.index[value]
	return i, ok
}

// Value returns the value at the given index.
func (a *Alphabet) Value(i int) string {
	return a.values[i]
}

// Values returns a copy of the values in index order.
func (a *Alphabet) Values() []string {
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// Indices converts a whole column to alphabet indices. Every value of the
// column must be a member of the alphabet.
func (a *Alphabet) Indices(column []string) ([]int, error) {
	out := make([]int, len(column))
	for i, v := range column {
		idx, ok := a.index[v]
		if !ok {
			return nil, fmt.Errorf("Indices: value %q at row %d is not a member of the alphabet", v, i)
		}
		out[i] = idx
	}
	return out, nil
}
