// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package similarity

import "github.com/gorse-io/cfeval/dataset"

// ForIntersection iterates ratings on counterparts present in both lists. Both lists
// are sorted by index, so common indices are found in linear time. It returns the
// number of common ratings.
func ForIntersection(a, b *dataset.RatingList, f func(index int, va, vb float64)) int {
	count := 0
	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		if a.Indices[i] == b.Indices[j] {
			f(a.Indices[i], a.Values[i], b.Values[j])
			count++
			i++
			j++
		} else if a.Indices[i] < b.Indices[j] {
			i++
		} else {
			j++
		}
	}
	return count
}

// CountIntersection returns the number of common ratings.
func CountIntersection(a, b *dataset.RatingList) int {
	return ForIntersection(a, b, func(int, float64, float64) {})
}
