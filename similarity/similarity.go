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
	"math"
	"slices"

	"github.com/gorse-io/cfeval/dataset"
)

// NoSimilarity means two entities are not comparable.
var NoSimilarity = math.Inf(-1)

// Similarity computes the similarity between a pair of users (or items). It returns
// NoSimilarity if they have no common ratings or the score is undefined.
type Similarity func(a, b *dataset.Entity) float64

// Cosine computes the cosine similarity over common ratings.
func Cosine(a, b *dataset.Entity) float64 {
	m, n, l := .0, .0, .0
	count := ForIntersection(&a.Ratings, &b.Ratings, func(_ int, a, b float64) {
		m += a * a
		n += b * b
		l += a * b
	})
	if count == 0 || m*n == 0 {
		return NoSimilarity
	}
	return l / math.Sqrt(m*n)
}

// Pearson computes the Pearson correlation over common ratings. Ratings are centered
// by the average of all training ratings of each entity.
func Pearson(a, b *dataset.Entity) float64 {
	return correlation(a, b, a.Mean(), b.Mean())
}

// PearsonScaled rescales the Pearson correlation into [0, 1].
func PearsonScaled(a, b *dataset.Entity) float64 {
	r := Pearson(a, b)
	if math.IsInf(r, -1) {
		return r
	}
	return (r + 1) / 2
}

// NewConstrainedPearson creates the Pearson correlation centered by a fixed median
// of the rating scale.
func NewConstrainedPearson(median float64) Similarity {
	return func(a, b *dataset.Entity) float64 {
		return correlation(a, b, median, median)
	}
}

func correlation(a, b *dataset.Entity, centerA, centerB float64) float64 {
	m, n, l := .0, .0, .0
	count := ForIntersection(&a.Ratings, &b.Ratings, func(_ int, a, b float64) {
		ratingA := a - centerA
		ratingB := b - centerB
		m += ratingA * ratingA
		n += ratingB * ratingB
		l += ratingA * ratingB
	})
	if count == 0 || m*n == 0 || math.IsNaN(m*n) {
		return NoSimilarity
	}
	return l / math.Sqrt(m*n)
}

// NewMSD creates the mean squared difference similarity, 1 - MSD, where differences
// are normalized by the rating scale.
func NewMSD(minRating, maxRating float64) Similarity {
	scale := maxRating - minRating
	return func(a, b *dataset.Entity) float64 {
		return msd(a, b, scale)
	}
}

func msd(a, b *dataset.Entity, scale float64) float64 {
	sum := 0.0
	count := ForIntersection(&a.Ratings, &b.Ratings, func(_ int, a, b float64) {
		sum += normalizedSquare(a-b, scale)
	})
	if count == 0 {
		return NoSimilarity
	}
	return 1 - sum/float64(count)
}

// normalizedSquare returns (d/scale)^2. A degenerate scale has no distance.
func normalizedSquare(d, scale float64) float64 {
	if !(scale > 0) {
		return 0
	}
	d /= scale
	return d * d
}

// Jaccard computes the number of common ratings divided by the number of rated
// counterparts of either entity.
func Jaccard(a, b *dataset.Entity) float64 {
	count := CountIntersection(&a.Ratings, &b.Ratings)
	if count == 0 {
		return NoSimilarity
	}
	return float64(count) / float64(a.Count()+b.Count()-count)
}

// NewJMSD creates the product of Jaccard and MSD similarities.
func NewJMSD(minRating, maxRating float64) Similarity {
	scale := maxRating - minRating
	return func(a, b *dataset.Entity) float64 {
		jaccard := Jaccard(a, b)
		if math.IsInf(jaccard, -1) {
			return NoSimilarity
		}
		return jaccard * msd(a, b, scale)
	}
}

// Spearman computes the Spearman rank correlation over common ratings. Tied ratings
// share their average rank.
func Spearman(a, b *dataset.Entity) float64 {
	var valuesA, valuesB []float64
	n := ForIntersection(&a.Ratings, &b.Ratings, func(_ int, a, b float64) {
		valuesA = append(valuesA, a)
		valuesB = append(valuesB, b)
	})
	if n < 2 {
		return NoSimilarity
	}
	ranksA, ranksB := rank(valuesA), rank(valuesB)
	sum := 0.0
	for i := range ranksA {
		d := ranksA[i] - ranksB[i]
		sum += d * d
	}
	fn := float64(n)
	return 1 - 6*sum/(fn*(fn*fn-1))
}

// rank returns 1-based ranks of values. Equal values get the average of their ranks.
func rank(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		switch {
		case values[i] < values[j]:
			return -1
		case values[i] > values[j]:
			return 1
		default:
			return 0
		}
	})
	ranks := make([]float64, len(values))
	for begin := 0; begin < len(order); {
		end := begin + 1
		for end < len(order) && values[order[end]] == values[order[begin]] {
			end++
		}
		// ranks begin+1 .. end
		avg := float64(begin+end+1) / 2
		for _, i := range order[begin:end] {
			ranks[i] = avg
		}
		begin = end
	}
	return ranks
}
