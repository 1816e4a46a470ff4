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
	"sort"

	"github.com/google/dp-utility-eval/checks"
)

// Histogram counts the occurrences of each alphabet index in a categorical
// column of cardinality k.
func Histogram(indices []int, k int) ([]int64, error) {
	if err := checks.CheckAlphabetSize(k); err != nil {
		return nil, err
	}
	counts := make([]int64, k)
	for i, v := range indices {
		if err := checks.CheckAlphabetIndex(v, k); err != nil {
			return nil, fmt.Errorf("Histogram: row %d: %v", i, err)
		}
		counts[v]++
	}
	return counts, nil
}

// TopK returns the indices of the k largest counts in descending count
// order. Ties are broken by the smaller alphabet index, so selection is
// deterministic and never depends on map iteration order. If k exceeds the
// number of buckets, all bucket indices are returned.
func TopK(counts []int64, k int) []int {
	if k <= 0 {
		return nil
	}
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] > counts[order[b]]
		}
		return order[a] < order[b]
	})
	if k > len(order) {
		k = len(order)
	}
	return order[:k]
}
