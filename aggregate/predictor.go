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

	"github.com/gorse-io/cfeval/common/parallel"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
)

// Predictor predicts ratings of targets with an aggregation.
type Predictor struct {
	nb  *Neighborhood
	agg Aggregation
}

func NewPredictor(nb *Neighborhood, agg Aggregation) *Predictor {
	return &Predictor{nb: nb, agg: agg}
}

// Predict predicts the rating of the target at a row on a counterpart. Entities
// without a row get NaN.
func (p *Predictor) Predict(row, counterpart int) float64 {
	if row == dataset.NotRow || row >= len(p.nb.Neighbors) {
		return math.NaN()
	}
	return p.agg(p.nb, row, counterpart)
}

// PredictTest predicts ratings of the target at a row on its held-out counterparts.
func (p *Predictor) PredictTest(row int) []float64 {
	target := p.nb.View.Targets[row]
	predictions := make([]float64, target.Test.Len())
	for i, counterpart := range target.Test.Indices {
		predictions[i] = p.Predict(row, counterpart)
	}
	return predictions
}

// PredictAll predicts held-out ratings of all targets.
func (p *Predictor) PredictAll(nJobs int) ([][]float64, error) {
	predictions := make([][]float64, len(p.nb.View.Targets))
	if err := parallel.For(len(predictions), nJobs, func(row int) error {
		predictions[row] = p.PredictTest(row)
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return predictions, nil
}
