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

import (
	"github.com/gorse-io/cfeval/dataset"
	"github.com/samber/lo"
)

// Singularities weights each common rating by how rare its relevance is among the
// population. Ratings are relevant if they are not less than the threshold.
type Singularities struct {
	threshold float64
	scale     float64
	// indexed by counterpart
	relevant    []float64
	nonRelevant []float64
}

// NewSingularities precomputes singularities of every counterpart of the view.
func NewSingularities(view *dataset.View, threshold float64) *Singularities {
	s := &Singularities{
		threshold:   threshold,
		scale:       view.MaxRating - view.MinRating,
		relevant:    make([]float64, len(view.Counterparts)),
		nonRelevant: make([]float64, len(view.Counterparts)),
	}
	population := float64(len(view.Entities))
	for i, counterpart := range view.Counterparts {
		numRelevant := lo.CountBy(counterpart.Ratings.Values, func(v float64) bool {
			return v >= threshold
		})
		numNonRelevant := counterpart.Count() - numRelevant
		if population > 0 {
			s.relevant[i] = 1 - float64(numRelevant)/population
			s.nonRelevant[i] = 1 - float64(numNonRelevant)/population
		}
	}
	return s
}

// Similarity computes the singularity-weighted similarity. Common ratings fall into
// three groups: both relevant, both non-relevant and mixed. The result is the
// average over non-empty groups.
func (s *Singularities) Similarity(a, b *dataset.Entity) float64 {
	var sums [3]float64
	var counts [3]int
	ForIntersection(&a.Ratings, &b.Ratings, func(index int, va, vb float64) {
		term := 1 - normalizedSquare(va-vb, s.scale)
		relevantA, relevantB := va >= s.threshold, vb >= s.threshold
		switch {
		case relevantA && relevantB:
			sums[0] += term * s.relevant[index] * s.relevant[index]
			counts[0]++
		case !relevantA && !relevantB:
			sums[1] += term * s.nonRelevant[index] * s.nonRelevant[index]
			counts[1]++
		default:
			sums[2] += term * s.relevant[index] * s.nonRelevant[index]
			counts[2]++
		}
	})
	total, groups := 0.0, 0
	for i := range sums {
		if counts[i] > 0 {
			total += sums[i] / float64(counts[i])
			groups++
		}
	}
	if groups == 0 {
		return NoSimilarity
	}
	return total / float64(groups)
}
