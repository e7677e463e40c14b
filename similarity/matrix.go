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
	"time"

	"github.com/gorse-io/cfeval/common/log"
	"github.com/gorse-io/cfeval/common/parallel"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Matrix stores similarities between targets (rows) and candidates (columns).
type Matrix struct {
	Rows [][]float64
}

// Range returns the minimum and maximum finite similarity, or NaN if there is none.
func (m *Matrix) Range() (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)
	for _, row := range m.Rows {
		for _, sim := range row {
			if math.IsInf(sim, 0) || math.IsNaN(sim) {
				continue
			}
			low = math.Min(low, sim)
			high = math.Max(high, sim)
		}
	}
	if low > high {
		return math.NaN(), math.NaN()
	}
	return low, high
}

// Compute computes similarities between each target of the view and every entity of
// the view. A target compared to itself gets NoSimilarity, so do pairs where either
// side has no training ratings.
func Compute(view *dataset.View, sim Similarity, nJobs int) (*Matrix, error) {
	start := time.Now()
	m := &Matrix{Rows: make([][]float64, len(view.Targets))}
	err := parallel.Run(view.Targets, parallel.TaskFuncs[*dataset.TestEntity]{
		StepFunc: func(row int, target *dataset.TestEntity) error {
			sims := make([]float64, len(view.Entities))
			if !view.IsPredictable(target.Index) {
				for j := range sims {
					sims[j] = NoSimilarity
				}
				m.Rows[row] = sims
				return nil
			}
			for j, candidate := range view.Entities {
				if candidate.Index == target.Index || !view.IsPredictable(j) {
					sims[j] = NoSimilarity
				} else {
					sims[j] = sim(target.Entity, candidate)
				}
			}
			m.Rows[row] = sims
			return nil
		},
	}, nJobs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("compute similarity matrix",
		zap.String("side", view.Side.String()),
		zap.Int("n_targets", len(view.Targets)),
		zap.Int("n_candidates", len(view.Entities)),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}
