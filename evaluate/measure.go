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
	"time"

	"github.com/google/uuid"
	"github.com/gorse-io/cfeval/common/log"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/gorse-io/cfeval/model"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// QualityMeasure scores a fitted recommender on held-out ratings.
type QualityMeasure struct {
	Name        string
	DataModel   *dataset.DataModel
	Recommender model.Recommender
	Score       ScoreFunc
	result      *Result
}

func NewQualityMeasure(name string, dataModel *dataset.DataModel, recommender model.Recommender, score ScoreFunc) *QualityMeasure {
	return &QualityMeasure{
		Name:        name,
		DataModel:   dataModel,
		Recommender: recommender,
		Score:       score,
	}
}

// GetScore computes the mean score over test users. The result is kept for
// statistics accessors until the next call.
func (q *QualityMeasure) GetScore(nJobs int) (float64, error) {
	runId := uuid.New().String()
	start := time.Now()
	log.Logger().Info("start evaluation",
		zap.String("run_id", runId),
		zap.String("measure", q.Name),
		zap.Int("n_test_users", q.DataModel.CountTestUsers()))
	result, err := Compute(q.DataModel, q.Recommender.PredictTest, q.Score, nJobs)
	if err != nil {
		log.Logger().Error("failed to evaluate", zap.String("run_id", runId), zap.Error(err))
		return math.NaN(), errors.Trace(err)
	}
	q.result = result
	elapsed := time.Since(start)
	ScoreGauge.WithLabelValues(q.Name).Set(result.Score)
	CountGauge.WithLabelValues(q.Name).Set(float64(result.Count))
	SecondsGauge.WithLabelValues(q.Name).Set(elapsed.Seconds())
	log.Logger().Info("complete evaluation",
		zap.String("run_id", runId),
		zap.String("measure", q.Name),
		zap.Float64("score", result.Score),
		zap.Int("n_defined", result.Count),
		zap.Duration("elapsed", elapsed))
	return result.Score, nil
}

// Result returns the last result, or nil if the score has not been computed.
func (q *QualityMeasure) Result() *Result {
	return q.result
}

func (q *QualityMeasure) StdDev() float64 {
	if q.result == nil {
		return math.NaN()
	}
	return q.result.StdDev
}

func (q *QualityMeasure) ConfidenceMargin95() float64 {
	if q.result == nil {
		return math.NaN()
	}
	return q.result.ConfidenceMargin95()
}

func (q *QualityMeasure) ConfidenceMargin99() float64 {
	if q.result == nil {
		return math.NaN()
	}
	return q.result.ConfidenceMargin99()
}
