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

	"github.com/gorse-io/cfeval/common/parallel"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

const (
	z95 = 1.96
	z99 = 2.58
)

// PredictFunc predicts ratings of a test user aligned with its held-out ratings.
type PredictFunc func(testUser *dataset.TestEntity) []float64

// ScoreFunc scores predictions of a test user. It returns NaN if the score is
// undefined for the user.
type ScoreFunc func(testUser *dataset.TestEntity, predictions []float64) float64

// Result is the reduction of per-user scores. Undefined scores are excluded.
type Result struct {
	Scores []float64 // score of each test user
	Score  float64   // mean of defined scores
	StdDev float64   // sample standard deviation of defined scores
	Count  int       // number of defined scores
}

// NewResult reduces per-user scores. Score is NaN if no score is defined and StdDev
// is NaN if less than two scores are defined.
func NewResult(scores []float64) *Result {
	defined := lo.Filter(scores, func(score float64, _ int) bool {
		return !math.IsNaN(score)
	})
	result := &Result{
		Scores: scores,
		Score:  math.NaN(),
		StdDev: math.NaN(),
		Count:  len(defined),
	}
	switch {
	case len(defined) >= 2:
		result.Score, result.StdDev = stat.MeanStdDev(defined, nil)
	case len(defined) == 1:
		result.Score = defined[0]
	}
	return result
}

// StandardError returns the standard error of the mean.
func (r *Result) StandardError() float64 {
	if r.Count == 0 {
		return math.NaN()
	}
	return r.StdDev / math.Sqrt(float64(r.Count))
}

// ConfidenceMargin95 returns the margin of the 95% confidence interval.
func (r *Result) ConfidenceMargin95() float64 {
	return z95 * r.StandardError()
}

// ConfidenceMargin99 returns the margin of the 99% confidence interval.
func (r *Result) ConfidenceMargin99() float64 {
	return z99 * r.StandardError()
}

// Compute scores every test user in parallel and reduces scores into a Result.
func Compute(dataModel *dataset.DataModel, predict PredictFunc, score ScoreFunc, nJobs int) (*Result, error) {
	testUsers := dataModel.GetTestUsers()
	scores := make([]float64, len(testUsers))
	if err := parallel.Run(testUsers, parallel.TaskFuncs[*dataset.TestEntity]{
		StepFunc: func(jobId int, testUser *dataset.TestEntity) error {
			scores[jobId] = score(testUser, predict(testUser))
			return nil
		},
	}, nJobs); err != nil {
		return nil, errors.Trace(err)
	}
	return NewResult(scores), nil
}
