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

package aggregate

import (
	"math"
	"strings"

	"github.com/gorse-io/cfeval/dataset"
	"github.com/gorse-io/cfeval/neighbor"
	"github.com/gorse-io/cfeval/similarity"
	"github.com/juju/errors"
)

// Neighborhood holds neighbors of every target of a view. Rows are aligned with
// view.Targets and neighbor indices point to view.Entities.
type Neighborhood struct {
	View         *dataset.View
	Similarities *similarity.Matrix
	Neighbors    [][]int
	// range of finite similarities
	SimMin float64
	SimMax float64
}

// NewNeighborhood creates a neighborhood and finds the range of similarities.
func NewNeighborhood(view *dataset.View, sims *similarity.Matrix, neighbors [][]int) *Neighborhood {
	simMin, simMax := sims.Range()
	return &Neighborhood{
		View:         view,
		Similarities: sims,
		Neighbors:    neighbors,
		SimMin:       simMin,
		SimMax:       simMax,
	}
}

// ForEach iterates neighbors of a row which rated the counterpart.
func (nb *Neighborhood) ForEach(row, counterpart int, f func(neighbor *dataset.Entity, sim, rating float64)) {
	for _, index := range nb.Neighbors[row] {
		if index == neighbor.NotNeighbor {
			return
		}
		candidate := nb.View.Entities[index]
		if rating, ok := candidate.Ratings.Get(counterpart); ok {
			f(candidate, nb.Similarities.Rows[row][index], rating)
		}
	}
}

// weight normalizes a similarity into [0, 1]. It returns NaN if all similarities
// are equal.
func (nb *Neighborhood) weight(sim float64) float64 {
	scale := nb.SimMax - nb.SimMin
	if !(scale > 0) {
		return math.NaN()
	}
	return (sim - nb.SimMin) / scale
}

// Aggregation predicts the rating of a target on a counterpart from its neighbors.
// It returns NaN if the prediction is withheld.
type Aggregation func(nb *Neighborhood, row, counterpart int) float64

// Mean averages ratings of neighbors.
func Mean(nb *Neighborhood, row, counterpart int) float64 {
	sum, count := 0.0, 0
	nb.ForEach(row, counterpart, func(_ *dataset.Entity, _, rating float64) {
		sum += rating
		count++
	})
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// WeightedMean averages ratings of neighbors weighted by normalized similarities.
func WeightedMean(nb *Neighborhood, row, counterpart int) float64 {
	num, den := 0.0, 0.0
	nb.ForEach(row, counterpart, func(_ *dataset.Entity, sim, rating float64) {
		w := nb.weight(sim)
		num += w * rating
		den += w
	})
	if den == 0 || math.IsNaN(den) {
		return math.NaN()
	}
	return num / den
}

// DeviationFromMean adds the weighted deviation of neighbors from their averages to
// the average of the target. The prediction is clamped into the rating scale.
func DeviationFromMean(nb *Neighborhood, row, counterpart int) float64 {
	mean := nb.View.Targets[row].Mean()
	if math.IsNaN(mean) {
		return math.NaN()
	}
	num, den := 0.0, 0.0
	nb.ForEach(row, counterpart, func(n *dataset.Entity, sim, rating float64) {
		w := nb.weight(sim)
		num += w * (rating - n.Mean())
		den += w
	})
	if den == 0 || math.IsNaN(den) {
		return math.NaN()
	}
	prediction := mean + num/den
	return math.Max(nb.View.MinRating, math.Min(nb.View.MaxRating, prediction))
}

const (
	NameMean              = "mean"
	NameWeightedMean      = "weighted_mean"
	NameDeviationFromMean = "deviation_from_mean"
)

// Names lists all supported aggregation names.
var Names = []string{NameMean, NameWeightedMean, NameDeviationFromMean}

// Lookup finds an aggregation by name.
func Lookup(name string) (Aggregation, error) {
	switch strings.ToLower(name) {
	case NameMean:
		return Mean, nil
	case NameWeightedMean:
		return WeightedMean, nil
	case NameDeviationFromMean:
		return DeviationFromMean, nil
	default:
		return nil, errors.NotValidf("aggregation %s", name)
	}
}
