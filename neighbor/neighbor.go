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

package neighbor

import (
	"math"
	"time"

	"github.com/gorse-io/cfeval/common/heap"
	"github.com/gorse-io/cfeval/common/log"
	"github.com/gorse-io/cfeval/common/parallel"
	"github.com/gorse-io/cfeval/similarity"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// NotNeighbor fills unused slots of a neighbor list.
const NotNeighbor = -1

// SelectTopK returns indices of the k most similar candidates in descending order of
// similarity. Ties are broken by the lower index. Candidates without similarity are
// skipped and missing neighbors are filled with NotNeighbor, so the result always
// has k entries.
func SelectTopK(sims []float64, k int) []int {
	if k <= 0 {
		return []int{}
	}
	filter := heap.NewTopKFilter[int, float64](k)
	for i, sim := range sims {
		if math.IsInf(sim, -1) || math.IsNaN(sim) {
			continue
		}
		filter.Push(i, sim)
	}
	indices, _ := filter.PopAll()
	neighbors := make([]int, k)
	copy(neighbors, indices)
	for i := len(indices); i < k; i++ {
		neighbors[i] = NotNeighbor
	}
	return neighbors
}

// Len returns the number of neighbors before the first NotNeighbor.
func Len(neighbors []int) int {
	for i, n := range neighbors {
		if n == NotNeighbor {
			return i
		}
	}
	return len(neighbors)
}

// Find selects k neighbors for every row of the similarity matrix.
func Find(m *similarity.Matrix, k, nJobs int) ([][]int, error) {
	if k < 0 {
		return nil, errors.NotValidf("number of neighbors %d", k)
	}
	start := time.Now()
	neighbors := make([][]int, len(m.Rows))
	if err := parallel.For(len(m.Rows), nJobs, func(row int) error {
		neighbors[row] = SelectTopK(m.Rows[row], k)
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("find neighbors",
		zap.Int("n_rows", len(m.Rows)),
		zap.Int("k", k),
		zap.Duration("elapsed", time.Since(start)))
	return neighbors, nil
}
