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

package evaluate

import (
	"math"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/cfeval/common/heap"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
)

/* Evaluate Rating Prediction */

// meanError applies f to differences between defined predictions and held-out ratings
// and returns the mean.
func meanError(testUser *dataset.TestEntity, predictions []float64, f func(d float64) float64) float64 {
	sum, count := 0.0, 0
	for i, prediction := range predictions {
		if math.IsNaN(prediction) {
			continue
		}
		sum += f(prediction - testUser.Test.ValueAt(i))
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// MAE means Mean Absolute Error.
func MAE(testUser *dataset.TestEntity, predictions []float64) float64 {
	return meanError(testUser, predictions, math.Abs)
}

// MSE means Mean Squared Error.
func MSE(testUser *dataset.TestEntity, predictions []float64) float64 {
	return meanError(testUser, predictions, func(d float64) float64 { return d * d })
}

// RMSE means Root Mean Squared Error.
func RMSE(testUser *dataset.TestEntity, predictions []float64) float64 {
	return math.Sqrt(MSE(testUser, predictions))
}

// Coverage is the fraction of held-out ratings which are predicted.
func Coverage(_ *dataset.TestEntity, predictions []float64) float64 {
	if len(predictions) == 0 {
		return math.NaN()
	}
	count := 0
	for _, prediction := range predictions {
		if !math.IsNaN(prediction) {
			count++
		}
	}
	return float64(count) / float64(len(predictions))
}

/* Evaluate Item Ranking */

// Rank returns positions of the top n held-out ratings ordered by predictions.
// Undefined predictions are never recommended.
func Rank(predictions []float64, n int) []int {
	filter := heap.NewTopKFilter[int, float64](n)
	for i, prediction := range predictions {
		if !math.IsNaN(prediction) {
			filter.Push(i, prediction)
		}
	}
	positions, _ := filter.PopAll()
	return positions
}

// relevantSet returns positions of held-out ratings not less than the threshold.
func relevantSet(testUser *dataset.TestEntity, threshold float64) mapset.Set[int] {
	relevant := mapset.NewThreadUnsafeSet[int]()
	for i, value := range testUser.Test.Values {
		if value >= threshold {
			relevant.Add(i)
		}
	}
	return relevant
}

// rankingScore ranks predictions and scores the top n list against relevant
// positions. The score is NaN if the user has no relevant ratings.
func rankingScore(n int, threshold float64, f func(relevant mapset.Set[int], rankList []int) float64) ScoreFunc {
	return func(testUser *dataset.TestEntity, predictions []float64) float64 {
		relevant := relevantSet(testUser, threshold)
		if relevant.Cardinality() == 0 {
			return math.NaN()
		}
		return f(relevant, Rank(predictions, n))
	}
}

// NewPrecision creates Precision@n: the fraction of relevant items among the
// recommended items. It is NaN if nothing is recommended.
func NewPrecision(n int, threshold float64) ScoreFunc {
	return rankingScore(n, threshold, func(relevant mapset.Set[int], rankList []int) float64 {
		if len(rankList) == 0 {
			return math.NaN()
		}
		return float64(hits(relevant, rankList)) / float64(len(rankList))
	})
}

// NewRecall creates Recall@n: the fraction of relevant items that have been
// recommended.
func NewRecall(n int, threshold float64) ScoreFunc {
	return rankingScore(n, threshold, func(relevant mapset.Set[int], rankList []int) float64 {
		return float64(hits(relevant, rankList)) / float64(relevant.Cardinality())
	})
}

// NewF1 creates the harmonic mean of Precision@n and Recall@n.
func NewF1(n int, threshold float64) ScoreFunc {
	precision, recall := NewPrecision(n, threshold), NewRecall(n, threshold)
	return func(testUser *dataset.TestEntity, predictions []float64) float64 {
		p, r := precision(testUser, predictions), recall(testUser, predictions)
		if math.IsNaN(p) || math.IsNaN(r) {
			return math.NaN()
		}
		if p+r == 0 {
			return 0
		}
		return 2 * p * r / (p + r)
	}
}

// NewHR creates HR@n (Hit Ratio): 1 if any relevant item is recommended.
func NewHR(n int, threshold float64) ScoreFunc {
	return rankingScore(n, threshold, func(relevant mapset.Set[int], rankList []int) float64 {
		if hits(relevant, rankList) > 0 {
			return 1
		}
		return 0
	})
}

// NewMAP creates MAP@n (Mean Average Precision).
// mAP: http://sdsawtelle.github.io/blog/output/mean-average-precision-MAP-for-recommender-systems.html
func NewMAP(n int, threshold float64) ScoreFunc {
	return rankingScore(n, threshold, func(relevant mapset.Set[int], rankList []int) float64 {
		sumPrecision := 0.0
		hit := 0
		for i, position := range rankList {
			if relevant.Contains(position) {
				hit++
				sumPrecision += float64(hit) / float64(i+1)
			}
		}
		return sumPrecision / float64(relevant.Cardinality())
	})
}

// NewMRR creates MRR@n (Mean Reciprocal Rank). The reciprocal rank is the
// multiplicative inverse of the rank of the first relevant item.
//
//	MRR = \frac{1}{Q} \sum^{|Q|}_{i=1} \frac{1}{rank_i}
func NewMRR(n int, threshold float64) ScoreFunc {
	return rankingScore(n, threshold, func(relevant mapset.Set[int], rankList []int) float64 {
		for i, position := range rankList {
			if relevant.Contains(position) {
				return 1 / float64(i+1)
			}
		}
		return 0
	})
}

// NewNDCG creates NDCG@n (Normalized Discounted Cumulative Gain) with graded
// relevance 2^rating - 1.
//
//	DCG = \sum^{N}_{i=1} \frac {2^{rel_i}-1} {\log_2(i+1)}
func NewNDCG(n int) ScoreFunc {
	return func(testUser *dataset.TestEntity, predictions []float64) float64 {
		rankList := Rank(predictions, n)
		if len(rankList) == 0 {
			return math.NaN()
		}
		dcg := 0.0
		for i, position := range rankList {
			dcg += gain(testUser.Test.ValueAt(position)) / math.Log2(float64(i)+2)
		}
		// IDCG takes the best n held-out ratings
		ideal := append([]float64(nil), testUser.Test.Values...)
		sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
		idcg := 0.0
		for i := 0; i < len(ideal) && i < n; i++ {
			idcg += gain(ideal[i]) / math.Log2(float64(i)+2)
		}
		if idcg == 0 {
			return math.NaN()
		}
		return dcg / idcg
	}
}

func gain(rating float64) float64 {
	return math.Exp2(rating) - 1
}

func hits(relevant mapset.Set[int], rankList []int) int {
	count := 0
	for _, position := range rankList {
		if relevant.Contains(position) {
			count++
		}
	}
	return count
}

const (
	NameMAE       = "mae"
	NameMSE       = "mse"
	NameRMSE      = "rmse"
	NameCoverage  = "coverage"
	NamePrecision = "precision"
	NameRecall    = "recall"
	NameF1        = "f1"
	NameNDCG      = "ndcg"
	NameMAP       = "map"
	NameMRR       = "mrr"
	NameHR        = "hr"
)

// Names lists all supported measure names.
var Names = []string{
	NameMAE, NameMSE, NameRMSE, NameCoverage,
	NamePrecision, NameRecall, NameF1, NameNDCG, NameMAP, NameMRR, NameHR,
}

// Lookup creates a score function by name. Ranking measures recommend n items and
// treat ratings not less than threshold as relevant.
func Lookup(name string, n int, threshold float64) (ScoreFunc, error) {
	switch strings.ToLower(name) {
	case NameMAE:
		return MAE, nil
	case NameMSE:
		return MSE, nil
	case NameRMSE:
		return RMSE, nil
	case NameCoverage:
		return Coverage, nil
	case NamePrecision:
		return NewPrecision(n, threshold), nil
	case NameRecall:
		return NewRecall(n, threshold), nil
	case NameF1:
		return NewF1(n, threshold), nil
	case NameNDCG:
		return NewNDCG(n), nil
	case NameMAP:
		return NewMAP(n, threshold), nil
	case NameMRR:
		return NewMRR(n, threshold), nil
	case NameHR:
		return NewHR(n, threshold), nil
	default:
		return nil, errors.NotValidf("measure %s", name)
	}
}
