// Copyright 2020 gorse Project Authors
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

package parallel

import (
	"runtime"
	"sync"
	"time"

	"github.com/gorse-io/cfeval/common/log"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Task is executed by Run in three phases. Setup and Teardown run once on the calling
// goroutine. Step runs on workers and must only write to slots owned by its job.
type Task[T any] interface {
	Setup()
	Step(jobId int, item T) error
	Teardown()
}

// TaskFuncs adapts functions to a Task. Nil functions are skipped.
type TaskFuncs[T any] struct {
	SetupFunc    func()
	StepFunc     func(jobId int, item T) error
	TeardownFunc func()
}

func (t TaskFuncs[T]) Setup() {
	if t.SetupFunc != nil {
		t.SetupFunc()
	}
}

func (t TaskFuncs[T]) Step(jobId int, item T) error {
	if t.StepFunc != nil {
		return t.StepFunc(jobId, item)
	}
	return nil
}

func (t TaskFuncs[T]) Teardown() {
	if t.TeardownFunc != nil {
		t.TeardownFunc()
	}
}

// NumWorkers returns the number of workers used for nJobs jobs. Non-positive nWorkers
// means one worker per hardware thread.
func NumWorkers(nJobs, nWorkers int) int {
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	return max(min(nWorkers, nJobs), 1)
}

// Run schedules items to workers with a fixed stride: worker w processes jobs w,
// w+n, w+2n, ... in increasing order. It returns after every worker has finished and
// Teardown has run. A failed or panicked worker abandons the rest of its jobs; the
// error of the first failed worker is returned. Results written by finished jobs are
// kept.
func Run[T any](items []T, task Task[T], nWorkers int) error {
	nWorkers = NumWorkers(len(items), nWorkers)
	start := time.Now()
	task.Setup()
	var (
		wg       sync.WaitGroup
		finished atomic.Int64
		errs     = make([]error, nWorkers)
	)
	for j := 0; j < nWorkers; j++ {
		workerId := j
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Logger().Error("panic recovered", zap.Int("worker_id", workerId), zap.Any("panic", r))
					errs[workerId] = errors.Errorf("worker %d panicked: %v", workerId, r)
				}
			}()
			count := 0
			defer func() {
				finished.Add(int64(count))
				StepsTotal.Add(float64(count))
			}()
			for jobId := workerId; jobId < len(items); jobId += nWorkers {
				if err := task.Step(jobId, items[jobId]); err != nil {
					errs[workerId] = errors.Annotatef(err, "worker %d failed at job %d", workerId, jobId)
					return
				}
				count++
			}
		})
	}
	wg.Wait()
	task.Teardown()
	log.Logger().Debug("parallel run finished",
		zap.Int("n_jobs", len(items)),
		zap.Int("n_workers", nWorkers),
		zap.Int64("n_finished", finished.Load()),
		zap.Duration("elapsed", time.Since(start)))
	failed := lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(failed) > 0 {
		FailuresTotal.Add(float64(len(failed)))
		return errors.Trace(failed[0])
	}
	return nil
}

// For runs worker over job indices [0, nJobs) with the same partitioning as Run.
func For(nJobs, nWorkers int, worker func(jobId int) error) error {
	return Run(lo.Range(nJobs), TaskFuncs[int]{
		StepFunc: func(jobId int, _ int) error {
			return worker(jobId)
		},
	}, nWorkers)
}
